package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/kidsbilling/adjustments/pkg/adjustment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvRenderer_Render(t *testing.T) {
	renderer := NewCsvRenderer()

	// when
	data, err := renderer.Render(records)

	// then
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, adjustment.Columns, rows[0])
	assert.Equal(t, records[0].Values(), rows[1])
	assert.Equal(t, records[1].Values(), rows[2])
}

func TestCsvRenderer_Empty(t *testing.T) {
	_, err := NewCsvRenderer().Render([]adjustment.Record{})

	assert.ErrorIs(t, err, ErrEmptyExport)
}
