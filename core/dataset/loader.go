package dataset

import (
	"context"
	"fmt"
	"time"

	"survey-integrity/core/fixedwidth"
	"survey-integrity/core/record"
	"survey-integrity/core/schema"
	"survey-integrity/core/source"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ctxCheckEvery is how many rows are decoded between context checks.
const ctxCheckEvery = 4096

// Options describes one dataset to load.
type Options struct {
	// Role tags the resulting dataset.
	Role Role
	// SchemaSource names the column layout.
	SchemaSource string
	// SchemaFormat overrides format detection from SchemaSource.
	SchemaFormat schema.Format
	// DataSource names the fixed-width data.
	DataSource string
	// MaxRows caps the number of decoded rows. Zero loads everything.
	MaxRows int
	// Clean normalizes the decoded dataset. Nil means Identity.
	Clean CleanFunc
}

// Loader decodes datasets from an opener.
type Loader struct {
	opener  source.Opener
	schemas *schema.Cache
	logger  *zap.Logger
}

// NewLoader creates a loader. schemas may be nil to parse on every load.
func NewLoader(opener source.Opener, schemas *schema.Cache, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{opener: opener, schemas: schemas, logger: logger}
}

// LoadSchema opens and parses a schema source.
func (l *Loader) LoadSchema(ctx context.Context, name string, format schema.Format) (*schema.Schema, error) {
	if format == schema.FormatAuto {
		format = schema.DetectFormat(name)
	}
	return l.schemas.GetOrLoad(ctx, name+"|"+format.String(), func(ctx context.Context) (*schema.Schema, error) {
		rc, err := l.opener.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		s, err := schema.Parse(rc, format)
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", name, err)
		}
		return s, nil
	})
}

// Load parses the schema, decodes up to opts.MaxRows lines of the data
// source and applies the cleaning step. The data source is closed on every
// return path.
func (l *Loader) Load(ctx context.Context, opts Options) (*Dataset, error) {
	start := time.Now()
	log := l.logger.With(zap.String("role", string(opts.Role)), zap.String("data", opts.DataSource))

	s, err := l.LoadSchema(ctx, opts.SchemaSource, opts.SchemaFormat)
	if err != nil {
		return nil, fmt.Errorf("load %s schema: %w", opts.Role, err)
	}

	rc, err := l.opener.Open(ctx, opts.DataSource)
	if err != nil {
		return nil, fmt.Errorf("load %s data: %w", opts.Role, err)
	}
	defer rc.Close()

	var records []record.Record
	if opts.MaxRows > 0 {
		records = make([]record.Record, 0, opts.MaxRows)
	}

	dec := fixedwidth.NewDecoder(s)
	for rec, err := range dec.Rows(rc) {
		if err != nil {
			return nil, fmt.Errorf("load %s data %s: %w", opts.Role, opts.DataSource, err)
		}
		records = append(records, rec)
		if opts.MaxRows > 0 && len(records) >= opts.MaxRows {
			break
		}
		if len(records)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	d := New(opts.Role, s, records)

	clean := opts.Clean
	if clean == nil {
		clean = Identity
	}
	d, err = clean(d)
	if err != nil {
		return nil, fmt.Errorf("clean %s data: %w", opts.Role, err)
	}

	log.Debug("Dataset loaded",
		zap.Int("rows", d.Len()),
		zap.Int("fields", s.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return d, nil
}

// LoadPair loads the respondent and item datasets concurrently. Each dataset
// is still decoded sequentially, so row order is preserved.
func (l *Loader) LoadPair(ctx context.Context, respondents, items Options) (*Dataset, *Dataset, error) {
	var resp, item *Dataset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resp, err = l.Load(gctx, respondents)
		return err
	})
	g.Go(func() error {
		var err error
		item, err = l.Load(gctx, items)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return resp, item, nil
}
