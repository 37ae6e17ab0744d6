package adjustment

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Store interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

// FileStore keeps the whole table in a single CSV file with a header row.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads every record of the table. A missing file is created empty.
func (s *FileStore) Load(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("data file %s not found, creating empty table", s.path)
		if err := s.Save(ctx, nil); err != nil {
			return nil, err
		}
		return []Record{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	records, err := readRecords(f)
	if err != nil {
		log.Errorf("failed to read data file %s: %v", s.path, err)
		return nil, &StorageError{Op: "read", Path: s.path, Err: err}
	}
	return records, nil
}

// Save replaces the table. The new content is written to a temporary file in the same
// directory and renamed over the old one, so readers never observe a partial table.
func (s *FileStore) Save(ctx context.Context, records []Record) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &StorageError{Op: "create", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := writeRecords(tmp, records); err != nil {
		tmp.Close()
		log.Errorf("failed to write data file %s: %v", s.path, err)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		log.Errorf("failed to replace data file %s: %v", s.path, err)
		return &StorageError{Op: "replace", Path: s.path, Err: err}
	}
	log.Debugf("saved %d records to %s", len(records), s.path)
	return nil
}

func readRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	records := make([]Record, 0, 64)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, FromValues(func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}))
	}
	return records, nil
}

func writeRecords(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(record.Values()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
