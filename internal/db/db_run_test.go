package db

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacephys/driftframe/internal/timeutil"
)

var testNow = time.Date(2023, 3, 22, 9, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) (*Store, *timeutil.MockClock) {
	t.Helper()
	clock := timeutil.NewMockClock(testNow)
	s, err := OpenWithClock(filepath.Join(t.TempDir(), "runs.db"), clock)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func testRun() RunRecord {
	start := time.Date(2023, 3, 22, 8, 30, 0, 0, time.UTC)
	nan := math.NaN()
	return RunRecord{
		Source:       "SW_EXPT_EFIC_TCT02_20230322.nc",
		WindowStart:  start,
		WindowEnd:    start.Add(time.Second),
		SampleCount:  3,
		InvalidCount: 1,
		Samples: []SampleRow{
			{Index: 0, Time: start, Lat: 66.1, Lon: -147.2, AltKm: 460.2, East: 0, North: -50, Up: 0, HorizontalSpeed: 50, Status: "ok"},
			{Index: 1, Time: start.Add(500 * time.Millisecond), Lat: 66.0, Lon: -147.2, AltKm: 460.3, East: nan, North: nan, Up: nan, HorizontalSpeed: nan, Status: "missing"},
			{Index: 2, Time: start.Add(time.Second), Lat: 65.9, Lon: -147.3, AltKm: 460.4, East: 12.5, North: -3.25, Up: 1, HorizontalSpeed: 13, Status: "ok"},
		},
	}
}

func TestOpen_MigratesSchema(t *testing.T) {
	s, _ := openTestStore(t)

	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Re-running is a no-op.
	require.NoError(t, s.MigrateUp())

	for _, table := range []string{"runs", "rotated_samples"} {
		var name string
		err := s.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestMigrateDown(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.MigrateDown())

	version, _, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	var n int
	require.NoError(t, s.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='runs'`).Scan(&n))
	assert.Zero(t, n)
}

func TestSaveRunAndLoad(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	in := testRun()
	id, err := s.SaveRun(ctx, in)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err, "generated run id should be a UUID")

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	got := runs[0]
	assert.Equal(t, id, got.RunID)
	assert.Equal(t, in.Source, got.Source)
	assert.True(t, in.WindowStart.Equal(got.WindowStart))
	assert.True(t, in.WindowEnd.Equal(got.WindowEnd))
	assert.Equal(t, 3, got.SampleCount)
	assert.Equal(t, 1, got.InvalidCount)
	assert.True(t, testNow.Equal(got.CreatedAt))
	assert.Nil(t, got.Samples)

	samples, err := s.LoadSamples(ctx, id)
	require.NoError(t, err)
	opts := cmp.Options{
		cmpopts.EquateNaNs(),
		cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) }),
	}
	if diff := cmp.Diff(in.Samples, samples, opts); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRun_NaNStoredAsNull(t *testing.T) {
	s, _ := openTestStore(t)
	id, err := s.SaveRun(context.Background(), testRun())
	require.NoError(t, err)

	var nulls int
	err = s.QueryRow(`SELECT COUNT(*) FROM rotated_samples WHERE run_id = ? AND v_east IS NULL`, id).Scan(&nulls)
	require.NoError(t, err)
	assert.Equal(t, 1, nulls)
}

func TestSaveRun_ExplicitIDAndDuplicate(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	rec := testRun()
	rec.RunID = "6f1c2d3e-4b5a-4c6d-8e7f-901234567890"
	id, err := s.SaveRun(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, rec.RunID, id)

	_, err = s.SaveRun(ctx, rec)
	require.Error(t, err, "duplicate run id must fail")

	// The failed save must not leave partial rows behind.
	samples, err := s.LoadSamples(ctx, rec.RunID)
	require.NoError(t, err)
	assert.Len(t, samples, 3)
}

func TestSaveRun_RejectsNonUUID(t *testing.T) {
	s, _ := openTestStore(t)
	rec := testRun()
	rec.RunID = "pass-a"
	_, err := s.SaveRun(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass-a")

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	first, err := s.SaveRun(ctx, testRun())
	require.NoError(t, err)
	clock.Advance(1500 * time.Millisecond)
	second, err := s.SaveRun(ctx, testRun())
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].RunID)
	assert.Equal(t, first, runs[1].RunID)
}

func TestListRuns_Empty(t *testing.T) {
	s, _ := openTestStore(t)
	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadSamples_UnknownRun(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.LoadSamples(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSaveRun_Cancelled(t *testing.T) {
	s, _ := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.SaveRun(ctx, testRun())
	assert.Error(t, err)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}
