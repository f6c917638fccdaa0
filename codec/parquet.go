package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// DecodeParquet reads a parquet payload into dynamic rows, one
// map[string]any per row keyed by leaf column path. Typed access is available
// through the generic helpers on the client.
func DecodeParquet(data []byte, _ Options) (any, error) {
	return ParquetRows(data)
}

// ParquetRows decodes a parquet payload without a compile-time schema.
func ParquetRows(data []byte) ([]map[string]any, error) {
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("decode parquet: %w", err)
	}

	columns := make([]string, 0, len(f.Schema().Columns()))
	for _, path := range f.Schema().Columns() {
		columns = append(columns, strings.Join(path, "."))
	}

	var out []map[string]any
	buf := make([]parquet.Row, 64)
	for _, group := range f.RowGroups() {
		rows := group.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				rec := make(map[string]any, len(columns))
				for _, v := range row {
					rec[columns[v.Column()]] = parquetValue(v)
				}
				out = append(out, rec)
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("decode parquet: %w", err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("decode parquet: %w", err)
		}
	}
	return out, nil
}

// parquetValue converts a physical parquet value to a plain Go value.
func parquetValue(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return v.Int32()
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return v.Float()
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return v.String()
	default:
		return v.String()
	}
}
