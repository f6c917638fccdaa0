package s3namic

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hyoj0942/s3namic/codec"
	"github.com/hyoj0942/s3namic/errors"
	"github.com/hyoj0942/s3namic/format"
	"github.com/hyoj0942/s3namic/internal/testutil"
)

func TestWriteAndReadText(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	require.NoError(t, client.WriteText(context.Background(), "notes/hello.txt", "hello world"))

	got, err := client.ReadText(context.Background(), "notes/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestWriteAndReadTextCharset(t *testing.T) {
	bucket := testutil.NewFakeBucket()
	client := NewWithClient("test-bucket", bucket)

	err := client.WriteText(context.Background(), "latin.txt", "café",
		WithWriteEncoding("ISO-8859-1"))
	require.NoError(t, err)

	// The stored bytes are single-byte latin-1, not UTF-8.
	raw, err := client.Get(context.Background(), "latin.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x63, 0x61, 0x66, 0xE9}, raw)

	got, err := client.ReadText(context.Background(), "latin.txt",
		WithEncoding("ISO-8859-1"))
	require.NoError(t, err)
	assert.Equal(t, "café", got)
}

func TestWriteCSVCompressed(t *testing.T) {
	bucket := testutil.NewFakeBucket()
	client := NewWithClient("test-bucket", bucket)

	table := &codec.Table{
		Columns: []string{"id", "name"},
		Rows:    [][]string{{"1", "alpha"}, {"2", "beta"}},
	}
	err := client.WriteCSV(context.Background(), "data/report.csv", table,
		WithCompression(format.Gzip))
	require.NoError(t, err)

	// The object is stored under the suffixed key, not the original.
	exists, err := client.Exists(context.Background(), "data/report.csv")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = client.Exists(context.Background(), "data/report.csv.gz")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := client.ReadCSV(context.Background(), "data/report.csv.gz")
	require.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestWriteCSVBzip2(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	table := &codec.Table{Columns: []string{"k"}, Rows: [][]string{{"v"}}}
	err := client.WriteCSV(context.Background(), "data.csv", table,
		WithCompression(format.Bzip2))
	require.NoError(t, err)

	got, err := client.ReadCSV(context.Background(), "data.csv.bz2")
	require.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestWriteAndReadJSON(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	in := map[string]any{"name": "test", "count": float64(3)}
	require.NoError(t, client.WriteJSON(context.Background(), "obj.json", in))

	got, err := client.ReadJSON(context.Background(), "obj.json")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestReadJSONInto(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, client.WriteJSON(context.Background(), "obj.json.gz",
		payload{Name: "typed", Count: 7}, WithCompression(format.Gzip)))

	var got payload
	require.NoError(t, client.ReadJSONInto(context.Background(), "obj.json.gz", &got))
	assert.Equal(t, payload{Name: "typed", Count: 7}, got)
}

func TestReadPickle(t *testing.T) {
	bucket := testutil.NewFakeBucket().
		Seed("model.pkl", []byte("\x80\x02X\x05\x00\x00\x00hello."))
	client := NewWithClient("test-bucket", bucket)

	v, err := client.ReadPickle(context.Background(), "model.pkl")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestReadExcel(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"id", "name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{1, "alpha"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{2, "beta"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	bucket := testutil.NewFakeBucket().Seed("sheets/people.xlsx", buf.Bytes())
	client := NewWithClient("test-bucket", bucket)

	table, err := client.ReadExcel(context.Background(), "sheets/people.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, table.Columns)
	assert.Equal(t, [][]string{{"1", "alpha"}, {"2", "beta"}}, table.Rows)

	// .xlsx resolves through the format registry too.
	v, err := client.ReadAuto(context.Background(), "sheets/people.xlsx")
	require.NoError(t, err)
	assert.Equal(t, table, v)
}

func TestReadImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 2))))

	bucket := testutil.NewFakeBucket().Seed("pics/tiny.png", buf.Bytes())
	client := NewWithClient("test-bucket", bucket)

	img, err := client.ReadImage(context.Background(), "pics/tiny.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestReadImageInvalid(t *testing.T) {
	bucket := testutil.NewFakeBucket().Seed("pics/broken.png", []byte("not an image"))
	client := NewWithClient("test-bucket", bucket)

	_, err := client.ReadImage(context.Background(), "pics/broken.png")
	assert.Error(t, err)
}

func TestReadAuto(t *testing.T) {
	bucket := testutil.NewFakeBucket().
		Seed("data.csv", []byte("id\n1\n")).
		Seed("data.json", []byte(`{"k":"v"}`)).
		Seed("query.sql", []byte("select 1;")).
		Seed("data.bin", []byte("opaque"))
	client := NewWithClient("test-bucket", bucket)

	v, err := client.ReadAuto(context.Background(), "data.csv")
	require.NoError(t, err)
	table, ok := v.(*codec.Table)
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, table.Columns)

	v, err = client.ReadAuto(context.Background(), "data.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, v)

	// SQL files decode as plain text.
	v, err = client.ReadAuto(context.Background(), "query.sql")
	require.NoError(t, err)
	assert.Equal(t, "select 1;", v)

	// Unknown extensions are rejected before the fetch.
	_, err = client.ReadAuto(context.Background(), "data.bin")
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedFormat(err))

	// An explicit format overrides detection.
	v, err = client.ReadAuto(context.Background(), "data.bin", WithFormat(format.Text))
	require.NoError(t, err)
	assert.Equal(t, "opaque", v)
}

func TestCompressAndDecompress(t *testing.T) {
	bucket := testutil.NewFakeBucket().Seed("logs/app.csv", []byte("id\n1\n"))
	client := NewWithClient("test-bucket", bucket)

	require.NoError(t, client.Compress(context.Background(), "logs/app.csv", format.Gzip))

	// Both the original and the compressed copy exist.
	for _, key := range []string{"logs/app.csv", "logs/app.csv.gz"} {
		exists, err := client.Exists(context.Background(), key)
		require.NoError(t, err)
		assert.True(t, exists, key)
	}

	table, err := client.ReadCSV(context.Background(), "logs/app.csv.gz")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, table.Columns)

	// Round back: decompressing the .gz restores the plain key's content.
	require.NoError(t, client.Delete(context.Background(), "logs/app.csv"))
	require.NoError(t, client.Decompress(context.Background(), "logs/app.csv.gz"))

	data, err := client.Get(context.Background(), "logs/app.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("id\n1\n"), data)
}

func TestCompressAlreadyCompressedKeepsContent(t *testing.T) {
	gz, err := format.Gzip.Compress([]byte("hello"))
	require.NoError(t, err)

	bucket := testutil.NewFakeBucket().Seed("notes/a.txt.gz", gz)
	client := NewWithClient("test-bucket", bucket)

	// Re-compressing a suffixed key must not stack codecs: the stored
	// object keeps decoding to the logical content.
	require.NoError(t, client.Compress(context.Background(), "notes/a.txt.gz", format.Gzip))

	got, err := client.ReadText(context.Background(), "notes/a.txt.gz")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestCompressConvertsCodec(t *testing.T) {
	bz, err := format.Bzip2.Compress([]byte("hello"))
	require.NoError(t, err)

	bucket := testutil.NewFakeBucket().Seed("notes/b.txt.bz2", bz)
	client := NewWithClient("test-bucket", bucket)

	require.NoError(t, client.Compress(context.Background(), "notes/b.txt.bz2", format.Gzip))

	got, err := client.ReadText(context.Background(), "notes/b.txt.gz")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestCompressRejectsNone(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	err := client.Compress(context.Background(), "a.csv", format.None)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedCompression)
}

func TestDecompressRequiresSuffix(t *testing.T) {
	bucket := testutil.NewFakeBucket().Seed("plain.csv", []byte("id\n"))
	client := NewWithClient("test-bucket", bucket)

	err := client.Decompress(context.Background(), "plain.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedCompression)
}

func TestParquetRoundTrip(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	type record struct {
		Name string `parquet:"name"`
		Age  int64  `parquet:"age"`
	}
	in := []record{{Name: "alpha", Age: 30}, {Name: "beta", Age: 25}}
	require.NoError(t, WriteParquet(context.Background(), client, "people.parquet", in))

	typed, err := ReadParquetInto[record](context.Background(), client, "people.parquet")
	require.NoError(t, err)
	assert.Equal(t, in, typed)

	rows, err := client.ReadParquet(context.Background(), "people.parquet")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alpha", rows[0]["name"])
	assert.Equal(t, int64(25), rows[1]["age"])
}
