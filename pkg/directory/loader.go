package directory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	columnCenter       = "Center"
	columnChild        = "Child"
	columnChildStatus  = "Child Status"
	columnFamilyStatus = "Family Status"
	columnBillingCycle = "Billing Cycle"
)

type Loader interface {
	Load(ctx context.Context) (*Directory, error)
}

type CsvLoader struct {
	path string
}

func NewCsvLoader(path string) *CsvLoader {
	return &CsvLoader{path: path}
}

// Load reads the directory file. A missing file yields an empty directory.
func (l *CsvLoader) Load(ctx context.Context) (*Directory, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("directory file %s not found, using empty directory", l.path)
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open directory file %s: %w", l.path, err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		log.Errorf("failed to read directory file %s: %v", l.path, err)
		return nil, fmt.Errorf("failed to read directory file %s: %w", l.path, err)
	}
	return d, nil
}

// Parse reads a directory in CSV form. Rows without a center or a child are skipped.
func Parse(r io.Reader) (*Directory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	d := New()
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		value := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		center := value(columnCenter)
		child := value(columnChild)
		if center == "" || child == "" {
			continue
		}
		d.Add(center, child, Entry{
			ChildStatus:  value(columnChildStatus),
			FamilyStatus: value(columnFamilyStatus),
			BillingCycle: value(columnBillingCycle),
		})
	}
	return d, nil
}

type StubLoader struct {
	Directory *Directory
	Err       error
}

func (s StubLoader) Load(ctx context.Context) (*Directory, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Directory == nil {
		return New(), nil
	}
	return s.Directory, nil
}
