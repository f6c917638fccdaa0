package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestDecodeExcel(t *testing.T) {
	data := buildXLSX(t,
		[]any{"id", "name"},
		[]any{1, "alpha"},
		[]any{2, "beta"},
	)

	v, err := DecodeExcel(data, Options{})
	require.NoError(t, err)

	table, ok := v.(*Table)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, table.Columns)
	assert.Equal(t, [][]string{{"1", "alpha"}, {"2", "beta"}}, table.Rows)
	assert.Equal(t, 2, table.NumRows())
}

func TestDecodeExcelHeaderOnly(t *testing.T) {
	data := buildXLSX(t, []any{"id", "name"})

	v, err := DecodeExcel(data, Options{})
	require.NoError(t, err)

	table := v.(*Table)
	assert.Equal(t, []string{"id", "name"}, table.Columns)
	assert.Zero(t, table.NumRows())
}

func TestDecodeExcelInvalid(t *testing.T) {
	_, err := DecodeExcel([]byte("not a spreadsheet"), Options{})
	assert.Error(t, err)
}
