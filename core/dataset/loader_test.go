package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"survey-integrity/core/fixedwidth"
	"survey-integrity/core/record"
	"survey-integrity/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const respLayout = "caseid 0 4 string\npregnum 4 2 integer\n"

const respData = "  A1 2\n  B1 3\n  C1 0\n"

// memOpener serves sources from memory and records which were closed.
type memOpener struct {
	mu      sync.Mutex
	files   map[string]string
	opened  map[string]int
	closed  map[string]int
	openErr error
}

func newMemOpener(files map[string]string) *memOpener {
	return &memOpener{files: files, opened: map[string]int{}, closed: map[string]int{}}
}

type memFile struct {
	io.Reader
	name  string
	owner *memOpener
}

func (f *memFile) Close() error {
	f.owner.mu.Lock()
	f.owner.closed[f.name]++
	f.owner.mu.Unlock()
	return nil
}

func (o *memOpener) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	data, ok := o.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	o.mu.Lock()
	o.opened[name]++
	o.mu.Unlock()
	return &memFile{Reader: bytes.NewReader([]byte(data)), name: name, owner: o}, nil
}

func (o *memOpener) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := o.files[name]
	return ok, nil
}

func respOptions() Options {
	return Options{
		Role:         RoleRespondent,
		SchemaSource: "resp.layout",
		DataSource:   "resp.dat",
	}
}

func TestLoader_Load(t *testing.T) {
	opener := newMemOpener(map[string]string{"resp.layout": respLayout, "resp.dat": respData})
	l := NewLoader(opener, nil, zap.NewNop())

	d, err := l.Load(context.Background(), respOptions())
	require.NoError(t, err)

	assert.Equal(t, RoleRespondent, d.Role())
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, record.Text("B1"), d.Record(1).Value("caseid"))
	assert.Equal(t, record.Int(0), d.Record(2).Value("pregnum"))
	assert.Equal(t, 1, opener.closed["resp.dat"])
	assert.Equal(t, 1, opener.closed["resp.layout"])
}

func TestLoader_MaxRows(t *testing.T) {
	opener := newMemOpener(map[string]string{"resp.layout": respLayout, "resp.dat": respData})
	l := NewLoader(opener, nil, nil)

	opts := respOptions()
	opts.MaxRows = 2
	d, err := l.Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 1, opener.closed["resp.dat"])
}

func TestLoader_EmptyDataIsValid(t *testing.T) {
	opener := newMemOpener(map[string]string{"resp.layout": respLayout, "resp.dat": ""})
	d, err := NewLoader(opener, nil, nil).Load(context.Background(), respOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestLoader_CleanProducesNewDataset(t *testing.T) {
	opener := newMemOpener(map[string]string{"resp.layout": respLayout, "resp.dat": respData})

	var raw *Dataset
	opts := respOptions()
	opts.Clean = func(d *Dataset) (*Dataset, error) {
		raw = d
		return ReplaceWithMissing("pregnum", 3)(d)
	}

	d, err := NewLoader(opener, nil, nil).Load(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, d.Record(1).Value("pregnum").IsMissing())
	assert.Equal(t, record.Int(3), raw.Record(1).Value("pregnum"), "input dataset must be untouched")
}

func TestLoader_Errors(t *testing.T) {
	t.Run("Decode Error Closes Source", func(t *testing.T) {
		opener := newMemOpener(map[string]string{"resp.layout": respLayout, "resp.dat": "  A1 2\n  B1xx\n"})
		_, err := NewLoader(opener, nil, nil).Load(context.Background(), respOptions())

		var de *fixedwidth.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, 2, de.Line)
		assert.Equal(t, 1, opener.closed["resp.dat"])
	})

	t.Run("Schema Error", func(t *testing.T) {
		opener := newMemOpener(map[string]string{"resp.layout": "caseid 0 4\npregnum 2 2 integer\n", "resp.dat": respData})
		_, err := NewLoader(opener, nil, nil).Load(context.Background(), respOptions())

		var sfe *schema.SchemaFormatError
		assert.ErrorAs(t, err, &sfe)
		assert.Equal(t, 0, opener.opened["resp.dat"], "data is not opened when the schema is invalid")
	})

	t.Run("Missing Source", func(t *testing.T) {
		opener := newMemOpener(map[string]string{"resp.layout": respLayout})
		_, err := NewLoader(opener, nil, nil).Load(context.Background(), respOptions())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Clean Error", func(t *testing.T) {
		opener := newMemOpener(map[string]string{"resp.layout": respLayout, "resp.dat": respData})
		opts := respOptions()
		opts.Clean = func(d *Dataset) (*Dataset, error) { return nil, assert.AnError }
		_, err := NewLoader(opener, nil, nil).Load(context.Background(), opts)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestLoader_SchemaCache(t *testing.T) {
	opener := newMemOpener(map[string]string{"resp.layout": respLayout, "resp.dat": respData})
	l := NewLoader(opener, schema.NewCache(time.Minute), nil)

	for i := 0; i < 3; i++ {
		_, err := l.Load(context.Background(), respOptions())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, opener.opened["resp.layout"])
	assert.Equal(t, 3, opener.opened["resp.dat"])
}

func TestLoader_LoadPair(t *testing.T) {
	files := map[string]string{
		"resp.layout": respLayout,
		"resp.dat":    respData,
		"preg.layout": "caseid 0 4\nprgorder 4 2 integer\n",
		"preg.dat":    "  A1 1\n  A1 2\n  B1 1\n",
	}
	itemOpts := Options{Role: RoleItem, SchemaSource: "preg.layout", DataSource: "preg.dat"}

	t.Run("Success", func(t *testing.T) {
		l := NewLoader(newMemOpener(files), nil, nil)
		resp, items, err := l.LoadPair(context.Background(), respOptions(), itemOpts)
		require.NoError(t, err)
		assert.Equal(t, RoleRespondent, resp.Role())
		assert.Equal(t, RoleItem, items.Role())
		assert.Equal(t, 3, items.Len())
	})

	t.Run("Either Failure Fails The Pair", func(t *testing.T) {
		l := NewLoader(newMemOpener(files), nil, nil)
		bad := itemOpts
		bad.DataSource = "missing.dat"
		_, _, err := l.LoadPair(context.Background(), respOptions(), bad)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}
