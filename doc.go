// Package s3namic is a convenience layer over Amazon S3 for working with
// data files. A Client is opened against a single bucket and provides:
//
//   - Typed reads and writes: CSV tables, JSON documents, plain text, Python
//     pickle streams, parquet files, xlsx sheets, and images, with gzip/bz2
//     compression handled transparently through key suffixes (ReadCSV, WriteJSON,
//     ReadParquet, ...).
//   - Raw object operations: Put, Get, Delete, Exists, Metadata, presigned
//     URLs, and local file transfer (UploadFile, DownloadFile).
//   - Bucket traversal: nested directory trees (MakeTree), flat listings
//     (ListFiles), recursive search (FindFile, FindFiles).
//   - Bulk reads: ReadMany discovers every file under a prefix and fetches
//     and decodes them with a bounded worker pool, returning results in
//     discovery order.
//
// Basic usage:
//
//	client, err := s3namic.New("my-bucket", s3namic.WithRegion("us-west-2"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	table, err := client.ReadCSV(ctx, "reports/2024/daily.csv.gz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(table.Columns, table.NumRows())
//
// Operations return *errors.Error values carrying the operation, bucket, and
// key; sentinel causes such as errors.ErrObjectNotFound and
// errors.ErrUnsupportedFormat are usable with errors.Is.
package s3namic
