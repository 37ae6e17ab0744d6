package export

import (
	"bytes"
	"regexp"

	"github.com/kidsbilling/adjustments/pkg/adjustment"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Data"

type XlsxRendererImpl struct {
}

func NewXlsxRenderer() *XlsxRendererImpl {
	return &XlsxRendererImpl{}
}

func (x *XlsxRendererImpl) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (x *XlsxRendererImpl) Extension() string {
	return "xlsx"
}

// Render writes one "Data" sheet: the header row followed by one row per record in input order.
func (x *XlsxRendererImpl) Render(rows []adjustment.Record) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return nil, err
	}

	boldID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	header := make([]any, 0, len(adjustment.Columns))
	for _, column := range adjustment.Columns {
		header = append(header, excelize.Cell{StyleID: boldID, Value: column})
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for i, record := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, rowCells(record)); err != nil {
			log.Errorf("Error writing xlsx row %d: %v", i, err)
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	if err := f.Write(&b); err != nil {
		log.Errorf("Error writing xlsx: %v", err)
		return nil, err
	}
	return b.Bytes(), nil
}

var plainDecimal = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// rowCells keeps every value as text. An adjustment amount becomes a number only when the
// number reads back as exactly the stored text.
func rowCells(record adjustment.Record) []any {
	values := record.Values()
	cells := make([]any, 0, len(values))
	for i, value := range values {
		if adjustment.Columns[i] == adjustment.ColumnAdjustmentAmount {
			if f, ok := exactAmount(value); ok {
				cells = append(cells, f)
				continue
			}
		}
		cells = append(cells, value)
	}
	return cells
}

func exactAmount(value string) (float64, bool) {
	if !plainDecimal.MatchString(value) {
		return 0, false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return 0, false
	}
	f := amount.InexactFloat64()
	back := decimal.NewFromFloat(f)
	if !back.Equal(amount) || back.String() != value {
		return 0, false
	}
	return f, true
}
