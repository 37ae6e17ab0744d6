package export

import (
	"context"
	"errors"

	"github.com/kidsbilling/adjustments/pkg/access"
	"github.com/kidsbilling/adjustments/pkg/adjustment"
)

var ErrEmptyExport = errors.New("no data available")

// Renderer serializes rows into a downloadable document.
type Renderer interface {
	Render(rows []adjustment.Record) ([]byte, error)
	ContentType() string
	Extension() string
}

// RowsProvider returns the rows visible to the caller.
type RowsProvider interface {
	Visible(ctx context.Context, acc access.Context) ([]adjustment.Record, error)
}
