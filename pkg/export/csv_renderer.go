package export

import (
	"bytes"
	"encoding/csv"

	"github.com/kidsbilling/adjustments/pkg/adjustment"
	log "github.com/sirupsen/logrus"
)

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

func (t *CsvRendererImpl) ContentType() string {
	return "text/csv; charset=utf-8"
}

func (t *CsvRendererImpl) Extension() string {
	return "csv"
}

func (t *CsvRendererImpl) Render(rows []adjustment.Record) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyExport
	}

	data := make([][]string, 0, len(rows)+1)
	data = append(data, adjustment.Columns)
	for _, record := range rows {
		data = append(data, record.Values())
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return nil, err
	}

	return b.Bytes(), nil
}
