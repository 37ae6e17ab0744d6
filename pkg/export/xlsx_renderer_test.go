package export

import (
	"bytes"
	"testing"

	"github.com/kidsbilling/adjustments/pkg/adjustment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var records = []adjustment.Record{
	{UID: "11", Timestamp: "2025-01-01 08:00:00", CenterName: "Acorn", ChildName: "Ada", AdjustmentAmount: "-25.5", Note: "sibling discount"},
	{UID: "12", Timestamp: "2025-01-02 08:00:00", CenterName: "Acorn", ChildName: "Cleo", AdjustmentAmount: "n/a"},
}

func TestXlsxRenderer_Render(t *testing.T) {
	renderer := NewXlsxRenderer()

	// when
	data, err := renderer.Render(records)

	// then
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, adjustment.Columns, rows[0])
	assert.Equal(t, "11", rows[1][0])
	assert.Equal(t, "Ada", rows[1][3])
	assert.Equal(t, "sibling discount", rows[1][5])
	assert.Equal(t, "12", rows[2][0])

	amountType, err := f.GetCellType(SheetName, "E2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, amountType)
	amount, err := f.GetCellValue(SheetName, "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "-25.5", amount)
	text, err := f.GetCellValue(SheetName, "E3")
	require.NoError(t, err)
	assert.Equal(t, "n/a", text)

	panes, err := f.GetPanes(SheetName)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestXlsxRenderer_Empty(t *testing.T) {
	_, err := NewXlsxRenderer().Render(nil)

	assert.ErrorIs(t, err, ErrEmptyExport)
}

func TestXlsxRenderer_Metadata(t *testing.T) {
	renderer := NewXlsxRenderer()

	assert.Equal(t, "xlsx", renderer.Extension())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", renderer.ContentType())
}

func TestXlsxRenderer_AmountsKeepStoredText(t *testing.T) {
	tests := []struct {
		amount     string
		wantNumber bool
	}{
		{amount: "12", wantNumber: true},
		{amount: "-7.25", wantNumber: true},
		{amount: "1e3"},
		{amount: "12345678901234567890"},
		{amount: "1.50"},
		{amount: "007"},
		{amount: "-0"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			// given
			rows := []adjustment.Record{{UID: "1", CenterName: "Acorn", AdjustmentAmount: tt.amount}}

			// when
			data, err := NewXlsxRenderer().Render(rows)

			// then
			require.NoError(t, err)
			f, err := excelize.OpenReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer f.Close()

			value, err := f.GetCellValue(SheetName, "E2", excelize.Options{RawCellValue: true})
			require.NoError(t, err)
			assert.Equal(t, tt.amount, value)

			cellType, err := f.GetCellType(SheetName, "E2")
			require.NoError(t, err)
			if tt.wantNumber {
				assert.Equal(t, excelize.CellTypeUnset, cellType)
			} else {
				assert.Equal(t, excelize.CellTypeInlineString, cellType)
			}
		})
	}
}
