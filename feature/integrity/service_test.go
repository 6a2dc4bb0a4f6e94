package integrity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"survey-integrity/core/database"
	"survey-integrity/core/fixedwidth"
	"survey-integrity/core/reconcile"
	"survey-integrity/core/source"
	"survey-integrity/core/storage/mocks"
	"survey-integrity/feature/integrity/store"
	"survey-integrity/feature/survey"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	respLayout = "caseid 0 4 string \"RESPONDENT ID\"\npregnum 4 2 integer\n"
	pregLayout = "caseid 0 4\nprglngth 4 2 integer\nagepreg 6 4 integer\n"

	// B1 reports 3 pregnancies but has 1; C1 reports none and has none.
	respData = "  A1 2\n  B1 3\n  C1 0\n"
	pregData = "  A1390900\n  A1392100\n  B1382500\n"
)

type fixture struct {
	dir     string
	profile survey.Profile
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func newFixture(t *testing.T, resp, preg string) fixture {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "resp.layout"), respLayout)
	writeFile(t, filepath.Join(dir, "resp.dat"), resp)
	writeFile(t, filepath.Join(dir, "preg.layout"), pregLayout)
	writeGzip(t, filepath.Join(dir, "preg.dat.gz"), preg)

	cfg := survey.Config{
		Source:             survey.SourceFile,
		Root:               dir,
		Prefix:             "nsfg",
		RespondentSchema:   "resp.layout",
		RespondentData:     "resp.dat",
		ItemSchema:         "preg.layout",
		ItemData:           "preg.dat.gz",
		KeyField:           "caseid",
		CountField:         "pregnum",
		SchemaCacheSeconds: 60,
	}
	profile := survey.NewProfile(cfg)
	profile.Expectations = survey.Expectations{RespondentRows: 3, ItemRows: 3}
	return fixture{dir: dir, profile: profile}
}

func (f fixture) service(t *testing.T, runs *store.Store) *Service {
	return NewService(source.FileOpener{Root: f.dir}, f.profile, nil, "", zap.NewNop(), runs)
}

func sqliteStore(t *testing.T) *store.Store {
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), "history.db"),
	})
	require.NoError(t, err)
	s := store.New(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestService_Run(t *testing.T) {
	f := newFixture(t, respData, pregData)
	svc := f.service(t, nil)

	report, err := svc.Run(context.Background(), Request{})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Respondents)
	assert.Equal(t, 3, report.Items)
	assert.Equal(t, 2, report.Groups)
	assert.Equal(t, "caseid", report.KeyField)
	assert.False(t, report.Verdict.AllConsistent)
	assert.Equal(t, []reconcile.Violation{{Key: "B1", Expected: 3, Actual: 1}}, report.Verdict.Violations)
	assert.Empty(t, report.ExpectationFailures)
	assert.Len(t, report.CountDistribution, 3)
	assert.False(t, report.Saved)

	assert.False(t, report.Consistent())
	assert.ErrorIs(t, report.Err(), ErrInconsistent)
}

func TestService_RunConsistent(t *testing.T) {
	f := newFixture(t, "  A1 2\n  C1 0\n", "  A1390900\n  A1392100\n")
	f.profile.Expectations = survey.Expectations{
		RespondentRows: 2,
		Values:         []survey.ValueExpectation{{Role: "respondent", Field: "pregnum", Key: "2", Count: 1}},
	}

	report, err := f.service(t, nil).Run(context.Background(), Request{})
	require.NoError(t, err)
	assert.True(t, report.Consistent())
	assert.NoError(t, report.Err())
}

func TestService_RunExpectations(t *testing.T) {
	f := newFixture(t, respData, pregData)
	f.profile.Expectations = survey.Expectations{RespondentRows: 7643}
	svc := f.service(t, nil)

	t.Run("Checked On Full Files", func(t *testing.T) {
		report, err := svc.Run(context.Background(), Request{})
		require.NoError(t, err)
		assert.Equal(t, []string{"respondent rows: expected 7643, got 3"}, report.ExpectationFailures)
	})

	t.Run("Skipped When Capped", func(t *testing.T) {
		report, err := svc.Run(context.Background(), Request{MaxRows: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Respondents)
		assert.Equal(t, 3, report.Items, "the pregnancy file is read in full")
		assert.Equal(t, 1, report.MaxRows)
		assert.Empty(t, report.ExpectationFailures)
		assert.True(t, report.Verdict.AllConsistent, "A1 reports 2 and both pregnancies are loaded")
		assert.Empty(t, report.Verdict.Violations)
	})
}

func TestService_RunCappedKeepsAllItems(t *testing.T) {
	// A1's second pregnancy sits past the respondent cap
	f := newFixture(t, "  A1 2\n  B1 1\n", "  B1382500\n  A1390900\n  A1392100\n")

	report, err := f.service(t, nil).Run(context.Background(), Request{MaxRows: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Respondents)
	assert.Equal(t, 3, report.Items)
	assert.True(t, report.Consistent())
	assert.Empty(t, report.Verdict.Violations)
}

func TestService_RunFailFast(t *testing.T) {
	f := newFixture(t, "  A1 5\n  B1 3\n", pregData)

	report, err := f.service(t, nil).Run(context.Background(), Request{FailFast: true})
	require.NoError(t, err)
	assert.True(t, report.FailFast)
	assert.Equal(t, []reconcile.Violation{{Key: "A1", Expected: 5, Actual: 2}}, report.Verdict.Violations)
}

func TestService_RunErrors(t *testing.T) {
	t.Run("Negative Max Rows", func(t *testing.T) {
		f := newFixture(t, respData, pregData)
		_, err := f.service(t, nil).Run(context.Background(), Request{MaxRows: -1})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("Save Without History", func(t *testing.T) {
		f := newFixture(t, respData, pregData)
		_, err := f.service(t, nil).Run(context.Background(), Request{Save: true})
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})

	t.Run("Decode Error", func(t *testing.T) {
		f := newFixture(t, "  A1 x\n", pregData)
		_, err := f.service(t, nil).Run(context.Background(), Request{})

		var de *fixedwidth.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "pregnum", de.Field)
	})

	t.Run("Missing Data File", func(t *testing.T) {
		f := newFixture(t, respData, pregData)
		require.NoError(t, os.Remove(filepath.Join(f.dir, "preg.dat.gz")))
		_, err := f.service(t, nil).Run(context.Background(), Request{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestService_RunSaved(t *testing.T) {
	f := newFixture(t, respData, pregData)
	runs := sqliteStore(t)
	svc := f.service(t, runs)

	report, err := svc.Run(context.Background(), Request{Save: true})
	require.NoError(t, err)
	assert.True(t, report.Saved)

	list, err := svc.Runs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, report.RunID, list[0].ID)
	assert.Equal(t, 1, list[0].ViolationCount)

	run, err := svc.RunByID(context.Background(), report.RunID)
	require.NoError(t, err)
	require.Len(t, run.Violations, 1)
	assert.Equal(t, "B1", run.Violations[0].Key)

	history, err := svc.CheckHistory()
	require.NoError(t, err)
	assert.True(t, history.Matched)
}

func TestService_HistoryDisabled(t *testing.T) {
	svc := newFixture(t, respData, pregData).service(t, nil)

	_, err := svc.Runs(context.Background(), 5)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.RunByID(context.Background(), "x")
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.CheckHistory()
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestService_CheckSources(t *testing.T) {
	f := newFixture(t, respData, pregData)
	require.NoError(t, os.Remove(filepath.Join(f.dir, "resp.dat")))

	missing, err := f.service(t, nil).CheckSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"resp.dat"}, missing)
}

func TestService_CheckSchemas(t *testing.T) {
	f := newFixture(t, respData, pregData)
	writeFile(t, filepath.Join(f.dir, "resp.layout"), "caseid 0 4\npregnum 4 2 string\n")

	reports, err := f.service(t, nil).CheckSchemas(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "respondent", reports[0].Role)
	assert.Equal(t, "error", reports[0].Status)
	assert.Equal(t, []string{"pregnum: expected integer|float, got string"}, reports[0].TypeMismatches)

	assert.Equal(t, "item", reports[1].Role)
	assert.Equal(t, "ok", reports[1].Status)
	assert.Equal(t, 3, reports[1].Fields)
}

func TestService_Storage(t *testing.T) {
	f := newFixture(t, respData, pregData)

	t.Run("Disabled", func(t *testing.T) {
		svc := f.service(t, nil)
		_, err := svc.CheckStructure(context.Background())
		assert.ErrorIs(t, err, ErrStorageDisabled)
		assert.ErrorIs(t, svc.FixStructure(context.Background(), []string{"reports"}), ErrStorageDisabled)
		_, err = svc.UploadReport(context.Background(), &Report{RunID: "x"})
		assert.ErrorIs(t, err, ErrStorageDisabled)
	})

	t.Run("Structure", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "surveys").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "surveys", mock.Anything).Return(closedListing())

		svc := NewService(source.FileOpener{Root: f.dir}, f.profile, mockClient, "surveys", nil, nil)
		missing, err := svc.CheckStructure(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"reports"}, missing, "file source only needs the reports folder")
	})

	t.Run("Upload Report", func(t *testing.T) {
		mockClient := new(mocks.Client)
		var uploaded []byte
		mockClient.On("PutObject", mock.Anything, "surveys", "reports/run-9.json", mock.Anything, mock.Anything,
			mock.MatchedBy(func(opts minio.PutObjectOptions) bool { return opts.ContentType == "application/json" })).
			Run(func(args mock.Arguments) {
				uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
			}).
			Return(minio.UploadInfo{}, nil)

		svc := NewService(source.FileOpener{Root: f.dir}, f.profile, mockClient, "surveys", nil, nil)
		report := &Report{RunID: "run-9", Verdict: &reconcile.Verdict{AllConsistent: true, Violations: []reconcile.Violation{}}}

		name, err := svc.UploadReport(context.Background(), report)
		require.NoError(t, err)
		assert.Equal(t, "reports/run-9.json", name)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(uploaded, &decoded))
		assert.Equal(t, "run-9", decoded["run_id"])
	})
}

func TestService_Logs(t *testing.T) {
	f := newFixture(t, respData, pregData)
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(source.FileOpener{Root: f.dir}, f.profile, nil, "", zap.New(core), nil)

	report, err := svc.Run(context.Background(), Request{})
	require.NoError(t, err)

	done := logs.FilterMessage("Integrity check completed").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, report.RunID, fields["run_id"])
	assert.Equal(t, int64(1), fields["violations"])
	assert.Equal(t, false, fields["consistent"])
}

func closedListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}
