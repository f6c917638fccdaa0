package codec

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DecodeExcel reads the first sheet of an xlsx payload into a Table, with the
// sheet's first row as the column header. Rows are streamed through the sheet
// iterator, so trailing empty cells may be absent from a row.
func DecodeExcel(data []byte, _ Options) (any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("decode xlsx sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	table := &Table{}
	header := false
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("decode xlsx row: %w", err)
		}
		if !header {
			table.Columns = record
			header = true
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("decode xlsx: %w", err)
	}
	return table, nil
}
