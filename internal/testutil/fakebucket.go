package testutil

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hyoj0942/s3namic/internal/s3api"
)

// FakeBucket is an in-memory bucket snapshot implementing the s3api.S3API
// interface with real ListObjectsV2 semantics: lexicographic key order,
// prefix filtering, delimiter grouping into common prefixes, and MaxKeys
// pagination with continuation tokens.
//
// It is safe for concurrent use, so parallel-read tests can fetch against it
// from multiple goroutines.
type FakeBucket struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// PageSize caps the number of entries per listing page when positive,
	// letting tests force pagination with small key sets.
	PageSize int32

	listCalls int64
}

// NewFakeBucket creates an empty snapshot.
func NewFakeBucket() *FakeBucket {
	return &FakeBucket{objects: make(map[string][]byte)}
}

// Seed stores an object, overwriting any existing content.
func (b *FakeBucket) Seed(key string, data []byte) *FakeBucket {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return b
}

// ListCalls reports how many ListObjectsV2 requests were served.
func (b *FakeBucket) ListCalls() int {
	return int(atomic.LoadInt64(&b.listCalls))
}

// PutObject stores the body under the key.
func (b *FakeBucket) PutObject(
	_ context.Context,
	params *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{ETag: aws.String("fake-etag")}, nil
}

// GetObject returns the stored body, or a NoSuchKey error.
func (b *FakeBucket) GetObject(
	_ context.Context,
	params *s3.GetObjectInput,
	_ ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	b.mu.RLock()
	data, ok := b.objects[aws.ToString(params.Key)]
	b.mu.RUnlock()
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ETag:          aws.String("fake-etag"),
	}, nil
}

// DeleteObject removes the key. Deleting a missing key succeeds, as on S3.
func (b *FakeBucket) DeleteObject(
	_ context.Context,
	params *s3.DeleteObjectInput,
	_ ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// HeadObject returns metadata for the key, or a NotFound error.
func (b *FakeBucket) HeadObject(
	_ context.Context,
	params *s3.HeadObjectInput,
	_ ...func(*s3.Options),
) (*s3.HeadObjectOutput, error) {
	b.mu.RLock()
	data, ok := b.objects[aws.ToString(params.Key)]
	b.mu.RUnlock()
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		ETag:          aws.String("fake-etag"),
		LastModified:  aws.Time(time.Unix(0, 0)),
	}, nil
}

// listEntry is one merged listing entry: either a key or a common prefix.
type listEntry struct {
	value    string
	isPrefix bool
}

// ListObjectsV2 serves one page of a prefix/delimiter-grouped listing over
// the current snapshot.
func (b *FakeBucket) ListObjectsV2(
	_ context.Context,
	params *s3.ListObjectsV2Input,
	_ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	atomic.AddInt64(&b.listCalls, 1)

	prefix := aws.ToString(params.Prefix)
	delimiter := aws.ToString(params.Delimiter)

	b.mu.RLock()
	keys := make([]string, 0, len(b.objects))
	sizes := make(map[string]int64, len(b.objects))
	for key, data := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
			sizes[key] = int64(len(data))
		}
	}
	b.mu.RUnlock()
	sort.Strings(keys)

	// Merge keys and delimiter groupings in lexicographic order, the way S3
	// interleaves Contents and CommonPrefixes within a page sequence.
	var entries []listEntry
	lastPrefix := ""
	for _, key := range keys {
		rest := key[len(prefix):]
		if delimiter != "" {
			if idx := strings.Index(rest, delimiter); idx >= 0 {
				cp := prefix + rest[:idx+len(delimiter)]
				if cp != lastPrefix {
					entries = append(entries, listEntry{value: cp, isPrefix: true})
					lastPrefix = cp
				}
				continue
			}
		}
		entries = append(entries, listEntry{value: key})
	}

	pageSize := aws.ToInt32(params.MaxKeys)
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 1000
	}
	if b.PageSize > 0 && b.PageSize < pageSize {
		pageSize = b.PageSize
	}

	start := 0
	if token := aws.ToString(params.ContinuationToken); token != "" {
		parsed, err := strconv.Atoi(token)
		if err != nil {
			return nil, &types.NoSuchKey{}
		}
		start = parsed
	}
	end := start + int(pageSize)
	if end > len(entries) {
		end = len(entries)
	}

	output := &s3.ListObjectsV2Output{
		IsTruncated: aws.Bool(end < len(entries)),
		KeyCount:    aws.Int32(int32(end - start)),
	}
	if end < len(entries) {
		output.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	for _, entry := range entries[start:end] {
		if entry.isPrefix {
			output.CommonPrefixes = append(output.CommonPrefixes, types.CommonPrefix{
				Prefix: aws.String(entry.value),
			})
		} else {
			output.Contents = append(output.Contents, types.Object{
				Key:  aws.String(entry.value),
				Size: aws.Int64(sizes[entry.value]),
			})
		}
	}
	return output, nil
}

// Ensure FakeBucket implements the S3 interface
var _ s3api.S3API = (*FakeBucket)(nil)
