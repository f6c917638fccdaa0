// Package codec maps format tags to decode functions.
//
// The registry is fixed at compile time: resolving a decoder for an
// unsupported tag returns a typed error before any data is fetched, so bulk
// operations can reject a bad format up front instead of failing mid-flight.
package codec

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	s3errors "github.com/hyoj0942/s3namic/errors"
	"github.com/hyoj0942/s3namic/format"
)

// Options carries the codec-specific knobs a decode task needs.
type Options struct {
	// Encoding is the IANA charset name of the raw text. Empty or "utf-8"
	// means the bytes are used as-is.
	Encoding string

	// Separator is the CSV field separator. Zero means ','.
	Separator rune
}

// DecodeFunc decodes raw (already decompressed) object bytes into a value.
type DecodeFunc func(data []byte, opts Options) (any, error)

// decoders is the fixed tag-to-decoder mapping. SQL files are plain text.
var decoders = map[format.Format]DecodeFunc{
	format.CSV:     DecodeCSV,
	format.JSON:    DecodeJSON,
	format.Text:    DecodeText,
	format.SQL:     DecodeText,
	format.Pickle:  DecodePickle,
	format.Parquet: DecodeParquet,
	format.Excel:   DecodeExcel,
}

// DecoderFor returns the decode function registered for the format tag.
// Unknown tags return ErrUnsupportedFormat.
func DecoderFor(f format.Format) (DecodeFunc, error) {
	dec, ok := decoders[f]
	if !ok {
		return nil, fmt.Errorf("%q: %w", string(f), s3errors.ErrUnsupportedFormat)
	}
	return dec, nil
}

// Supported reports whether a decoder is registered for the format tag.
func Supported(f format.Format) bool {
	_, ok := decoders[f]
	return ok
}

// Table is the tabular value produced by the CSV codec: the first record of
// the file becomes the column header, the rest become rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows (the header is not counted).
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// DecodeCSV parses row-delimited text into a Table. Records may have varying
// field counts; the codec does not enforce rectangularity.
func DecodeCSV(data []byte, opts Options) (any, error) {
	text, err := DecodeCharset(data, opts.Encoding)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	if opts.Separator != 0 {
		r.Comma = opts.Separator
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{Columns: records[0], Rows: records[1:]}, nil
}

// DecodeJSON unmarshals UTF-8 (or charset-converted) JSON text.
func DecodeJSON(data []byte, opts Options) (any, error) {
	text, err := DecodeCharset(data, opts.Encoding)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal(text, &v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

// UnmarshalJSON unmarshals JSON text into the caller's own value, for typed
// reads that bypass the generic decoder.
func UnmarshalJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// DecodeText returns the object content as a string.
func DecodeText(data []byte, opts Options) (any, error) {
	text, err := DecodeCharset(data, opts.Encoding)
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// DecodePickle deserializes a Python pickle stream. The result uses the
// gopickle container types (types.Dict, types.List, ...) for structured data.
func DecodePickle(data []byte, _ Options) (any, error) {
	v, err := pickle.Loads(string(data))
	if err != nil {
		return nil, fmt.Errorf("decode pickle: %w", err)
	}
	return v, nil
}

// EncodeCSV renders a Table (header first, then rows) as CSV text.
func EncodeCSV(table *Table, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if opts.Separator != 0 {
		w.Comma = opts.Separator
	}

	if len(table.Columns) > 0 {
		if err := w.Write(table.Columns); err != nil {
			return nil, fmt.Errorf("encode csv: %w", err)
		}
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("encode csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return EncodeCharset(buf.Bytes(), opts.Encoding)
}

// EncodeJSON marshals a value as JSON.
func EncodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

// DecodeCharset converts text from the named IANA charset to UTF-8.
// An empty name or any spelling of UTF-8 is a no-op.
func DecodeCharset(data []byte, name string) ([]byte, error) {
	enc, err := charsetFor(name)
	if err != nil || enc == nil {
		return data, err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode charset %q: %w", name, err)
	}
	return out, nil
}

// EncodeCharset converts UTF-8 text to the named IANA charset.
// An empty name or any spelling of UTF-8 is a no-op.
func EncodeCharset(data []byte, name string) ([]byte, error) {
	enc, err := charsetFor(name)
	if err != nil || enc == nil {
		return data, err
	}
	out, err := enc.NewEncoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("encode charset %q: %w", name, err)
	}
	return out, nil
}

// charsetFor resolves a charset name, returning (nil, nil) when the bytes can
// be used without conversion.
func charsetFor(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%q: %w", name, s3errors.ErrUnsupportedEncoding)
	}
	return enc, nil
}
