package integrity

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"survey-integrity/core/dataset"
	"survey-integrity/core/logger"
	"survey-integrity/core/reconcile"
	"survey-integrity/core/schema"
	"survey-integrity/core/source"
	"survey-integrity/core/storage"
	"survey-integrity/feature/integrity/checks"
	"survey-integrity/feature/integrity/store"
	"survey-integrity/feature/survey"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Service runs integrity checks for one survey profile.
type Service struct {
	loader  *dataset.Loader
	opener  source.Opener
	profile survey.Profile
	client  storage.Client
	bucket  string
	runs    *store.Store
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new integrity service. client and runs may be nil;
// the operations that need them then fail with ErrStorageDisabled and
// ErrHistoryDisabled.
func NewService(opener source.Opener, profile survey.Profile, client storage.Client, bucket string, log *zap.Logger, runs *store.Store) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	schemas := schema.NewCache(profile.Config.SchemaCacheTTL())
	return &Service{
		loader:  dataset.NewLoader(opener, schemas, log),
		opener:  opener,
		profile: profile,
		client:  client,
		bucket:  bucket,
		runs:    runs,
		logger:  log,
		now:     time.Now,
	}
}

// Profile returns the survey profile the service checks.
func (s *Service) Profile() survey.Profile {
	return s.profile
}

// Run loads both datasets, validates the self-reported counts and checks the
// release expectations. A negative verdict is returned as a report, not an
// error.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	if req.MaxRows < 0 {
		return nil, fmt.Errorf("%w: max_rows must not be negative", ErrInvalidRequest)
	}
	if req.Save && s.runs == nil {
		return nil, ErrHistoryDisabled
	}

	cfg := s.profile.Config
	maxRows := req.MaxRows
	if maxRows == 0 {
		maxRows = cfg.MaxRows
	}

	started := s.now()
	runID := uuid.NewString()
	log := logger.WithRun(s.logger, runID)
	log.Info("Starting integrity check",
		zap.String("source", cfg.Source),
		zap.Int("max_rows", maxRows),
		zap.Bool("fail_fast", req.FailFast))

	resp, items, err := s.loader.LoadPair(ctx, s.profile.RespondentOptions(maxRows), s.profile.ItemOptions())
	if err != nil {
		log.Error("Failed to load survey files", zap.Error(err))
		return nil, err
	}

	index, err := reconcile.BuildIndex(items, cfg.KeyField)
	if err != nil {
		return nil, fmt.Errorf("group items by %s: %w", cfg.KeyField, err)
	}

	verdict, err := checkCounts(resp, cfg.CountField, cfg.KeyField, index, req.FailFast)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", cfg.CountField, err)
	}

	distribution, err := resp.ValueCounts(cfg.CountField)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:               runID,
		StartedAt:           started,
		Source:              cfg.Source,
		KeyField:            cfg.KeyField,
		CountField:          cfg.CountField,
		MaxRows:             maxRows,
		FailFast:            req.FailFast,
		Respondents:         resp.Len(),
		Items:               items.Len(),
		Groups:              index.Len(),
		CountDistribution:   distribution,
		Verdict:             verdict,
		ExpectationFailures: []string{},
	}
	// Published counts describe complete files only
	if maxRows == 0 {
		report.ExpectationFailures = s.profile.Expectations.Check(resp, items)
	}
	report.DurationMS = s.now().Sub(started).Milliseconds()

	if len(report.ExpectationFailures) > 0 {
		log.Warn("Release expectations not met", zap.Strings("failures", report.ExpectationFailures))
	}
	log.Info("Integrity check completed",
		zap.Int("respondents", report.Respondents),
		zap.Int("items", report.Items),
		zap.Int("violations", len(verdict.Violations)),
		zap.Bool("consistent", report.Consistent()),
		zap.Int64("duration_ms", report.DurationMS))

	if req.Save {
		if err := s.runs.Save(ctx, report.Run()); err != nil {
			log.Error("Failed to save run", zap.Error(err))
			return nil, err
		}
		report.Saved = true
	}

	return report, nil
}

// checkCounts runs the full scan, or stops at the first violation when
// failFast is set.
func checkCounts(resp *dataset.Dataset, countField, keyField string, index *reconcile.GroupIndex, failFast bool) (*reconcile.Verdict, error) {
	if !failFast {
		return reconcile.CheckCounts(resp, countField, keyField, index)
	}

	verdict := &reconcile.Verdict{AllConsistent: true, Violations: []reconcile.Violation{}}
	for v, err := range reconcile.Violations(resp, countField, keyField, index) {
		if err != nil {
			return nil, err
		}
		verdict.Violations = append(verdict.Violations, v)
		verdict.AllConsistent = false
		break
	}
	return verdict, nil
}

// CheckSources returns the survey files that cannot be found.
func (s *Service) CheckSources(ctx context.Context) ([]string, error) {
	return checks.CheckSources(ctx, s.opener, s.profile.Config.Sources())
}

// CheckSchemas parses both dictionaries and verifies the join fields.
func (s *Service) CheckSchemas(ctx context.Context) ([]checks.SchemaReport, error) {
	cfg := s.profile.Config
	key := checks.FieldRequirement{Name: cfg.KeyField}
	count := checks.FieldRequirement{Name: cfg.CountField, Types: []schema.Type{schema.TypeInteger, schema.TypeFloat}}

	targets := []struct {
		role     dataset.Role
		source   string
		required []checks.FieldRequirement
	}{
		{dataset.RoleRespondent, cfg.RespondentSchema, []checks.FieldRequirement{key, count}},
		{dataset.RoleItem, cfg.ItemSchema, []checks.FieldRequirement{key}},
	}

	reports := make([]checks.SchemaReport, 0, len(targets))
	for _, t := range targets {
		sch, err := s.loader.LoadSchema(ctx, t.source, schema.FormatAuto)
		if err != nil {
			return nil, err
		}
		reports = append(reports, checks.CheckSchema(string(t.role), t.source, sch, t.required))
	}
	return reports, nil
}

// CheckStructure returns the bucket folders that are missing.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStructure(ctx, s.client, s.bucket, s.requiredFolders())
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return ErrStorageDisabled
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

func (s *Service) requiredFolders() []string {
	if s.profile.Config.Source == survey.SourceStorage {
		return checks.RequiredFolders(s.profile.Config.Prefix)
	}
	return checks.RequiredFolders("")
}

// CheckHistory compares the history tables with the store models.
func (s *Service) CheckHistory() (*checks.HistoryReport, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	return checks.CheckHistory(s.runs.DB(), store.Models()...)
}

// UploadReport stores report as JSON under the reports folder and returns
// the object name.
func (s *Service) UploadReport(ctx context.Context, report *Report) (string, error) {
	if s.client == nil {
		return "", ErrStorageDisabled
	}

	var buf bytes.Buffer
	if err := report.WriteJSON(&buf); err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	name := path.Join(checks.ReportsFolder, report.RunID+".json")
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("upload report %s: %w", name, err)
	}

	s.logger.Info("Uploaded report", zap.String("object", name), zap.String("run_id", report.RunID))
	return name, nil
}

// Runs returns the most recent runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	return s.runs.List(ctx, limit)
}

// RunByID returns one run with its violations.
func (s *Service) RunByID(ctx context.Context, id string) (*store.Run, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	return s.runs.Get(ctx, id)
}
