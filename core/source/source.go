package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"survey-integrity/core/storage"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/minio-go/v7"
)

// Opener resolves a schema or data source name to a byte stream.
// Callers must close the returned reader.
type Opener interface {
	// Open returns the decompressed contents of name.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Exists reports whether name can be opened.
	Exists(ctx context.Context, name string) (bool, error)
}

// FileOpener reads sources from the local filesystem.
type FileOpener struct {
	// Root is prepended to relative names.
	Root string
}

func (o FileOpener) path(name string) string {
	if filepath.IsAbs(name) || o.Root == "" {
		return name
	}
	return filepath.Join(o.Root, name)
}

// Open opens name, decompressing .gz files.
func (o FileOpener) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(o.path(name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return Decompress(name, f)
}

// Exists stats name.
func (o FileOpener) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(o.path(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
}

// ObjectOpener reads sources from an object storage bucket.
type ObjectOpener struct {
	Client storage.Client
	Bucket string
	// Prefix is prepended to every object name, e.g. "nsfg/2002".
	Prefix string
}

func (o ObjectOpener) key(name string) string {
	if o.Prefix == "" {
		return name
	}
	return strings.TrimSuffix(o.Prefix, "/") + "/" + strings.TrimPrefix(name, "/")
}

// Open downloads name, decompressing .gz objects.
func (o ObjectOpener) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := o.key(name)
	obj, err := o.Client.GetObject(ctx, o.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", o.Bucket, key, err)
	}
	return Decompress(name, obj)
}

// Exists lists the bucket with the object key as prefix.
func (o ObjectOpener) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := o.Client.BucketExists(ctx, o.Bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("bucket %s does not exist", o.Bucket)
	}

	key := o.key(name)
	opts := minio.ListObjectsOptions{
		Prefix:    key,
		Recursive: false,
		MaxKeys:   1,
	}
	for obj := range o.Client.ListObjects(ctx, o.Bucket, opts) {
		if obj.Err != nil {
			return false, obj.Err
		}
		if obj.Key == key {
			return true, nil
		}
	}
	return false, nil
}

// Decompress wraps rc in a gzip reader when name ends in .gz. Closing the
// result closes rc as well.
func Decompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	if !strings.HasSuffix(strings.ToLower(name), ".gz") {
		return rc, nil
	}
	zr, err := gzip.NewReader(rc)
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("gzip %s: %w", name, err)
	}
	return &gzipReadCloser{Reader: zr, src: rc}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	src io.Closer
}

func (g *gzipReadCloser) Close() error {
	return errors.Join(g.Reader.Close(), g.src.Close())
}
