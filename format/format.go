// Package format derives logical file formats from object keys and provides
// the compression codecs signalled by key suffixes.
//
// A key like "assets/daily.csv.gz" carries two independent pieces of
// information: the logical format (csv) and the compression applied on top of
// it (gzip). Detect splits the two so readers can decompress first and decode
// second.
package format

import (
	"bytes"
	stdbzip2 "compress/bzip2"
	"compress/gzip"
	"io"
	"strings"

	"github.com/dsnet/compress/bzip2"

	s3errors "github.com/hyoj0942/s3namic/errors"
)

// Format is the logical file type derived from a key's trailing extension.
type Format string

// Known format tags. Detect may return tags outside this set for unknown
// extensions; whether a tag is usable is decided by the codec registry, not
// here.
const (
	CSV     Format = "csv"
	JSON    Format = "json"
	Text    Format = "txt"
	SQL     Format = "sql"
	Pickle  Format = "pkl"
	Parquet Format = "parquet"
	Excel   Format = "xlsx"
)

// Compression identifies a compression codec applied to an object, signalled
// by the key's final suffix.
type Compression string

const (
	// None means the object is stored uncompressed.
	None Compression = ""

	// Gzip is signalled by a ".gz" suffix.
	Gzip Compression = "gzip"

	// Bzip2 is signalled by a ".bz2" suffix.
	Bzip2 Compression = "bz2"
)

// suffix returns the file-name suffix conventionally used for the codec.
func (c Compression) suffix() string {
	switch c {
	case Gzip:
		return ".gz"
	case Bzip2:
		return ".bz2"
	}
	return ""
}

// Detect derives the logical format and compression codec from a key.
//
// The name is split on "."; a trailing "gz"/"bz2" segment is treated as a
// compression suffix and the segment before it becomes the format tag. A key
// without any "." yields the whole key as its own tag — unknown tags are
// rejected later by the decoder registry, never here.
func Detect(key string) (Format, Compression) {
	comp := CompressionFor(key)
	parts := strings.Split(key, ".")
	if comp != None && len(parts) >= 2 {
		return Format(parts[len(parts)-2]), comp
	}
	return Format(parts[len(parts)-1]), comp
}

// Ext returns only the logical format tag of a key, with compression suffixes
// stripped: Ext("a/b.csv.gz") == "csv".
func Ext(key string) Format {
	f, _ := Detect(key)
	return f
}

// CompressionFor reports the compression codec signalled by a key's suffix.
func CompressionFor(key string) Compression {
	switch {
	case strings.HasSuffix(key, ".gz"):
		return Gzip
	case strings.HasSuffix(key, ".bz2"):
		return Bzip2
	}
	return None
}

// WithSuffix appends the codec's suffix to key unless it is already present.
// For None the key is returned unchanged.
func (c Compression) WithSuffix(key string) string {
	s := c.suffix()
	if s == "" || strings.HasSuffix(key, s) {
		return key
	}
	return key + s
}

// TrimSuffix removes a trailing compression suffix from key, if any.
func TrimSuffix(key string) string {
	key = strings.TrimSuffix(key, ".gz")
	return strings.TrimSuffix(key, ".bz2")
}

// Compress compresses data with the codec. None passes data through.
func (c Compression) Compress(data []byte) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Gzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case Bzip2:
		var buf bytes.Buffer
		zw, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, s3errors.ErrUnsupportedCompression
}

// Decompress decompresses data with the codec. None passes data through.
func (c Compression) Decompress(data []byte) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case Bzip2:
		return io.ReadAll(stdbzip2.NewReader(bytes.NewReader(data)))
	}
	return nil, s3errors.ErrUnsupportedCompression
}
