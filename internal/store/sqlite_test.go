package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodeline/orescore/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testRun(created time.Time) *model.ScoringRun {
	return &model.ScoringRun{
		ID:           uuid.NewString(),
		CreatedAt:    created,
		CompanyCount: 2,
		Results: []model.ScoringResult{
			{
				CompanyID:   "p1",
				CompanyName: "Producer One",
				Type:        model.TypeProducer,
				FinalScore:  71.5,
				Confidence:  0.9,
				Breakdown: map[model.MetricKey]model.MetricBreakdown{
					model.MetricFreeCashFlow: {RawValue: 1e7, NormalizedValue: 80, Weight: 30, Contribution: 24},
				},
				PeerRank: model.PeerRank{WithinType: 1, TypeGroupSize: 2, CapBand: model.CapBandMid},
			},
			{
				CompanyID:   "p2",
				CompanyName: "Producer Two",
				Type:        model.TypeProducer,
				FinalScore:  44.0,
				Breakdown:   map[model.MetricKey]model.MetricBreakdown{},
			},
		},
	}
}

func TestSQLiteSaveAndGetRun(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	run := testRun(time.Now().UTC().Truncate(time.Second))
	require.NoError(t, st.SaveRun(ctx, run))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.CompanyCount, got.CompanyCount)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "p1", got.Results[0].CompanyID)
	assert.Equal(t, 71.5, got.Results[0].FinalScore)
	assert.Equal(t, model.CapBandMid, got.Results[0].PeerRank.CapBand)
	assert.InDelta(t, 80.0, got.Results[0].Breakdown[model.MetricFreeCashFlow].NormalizedValue, 1e-9)
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	st := newTestSQLite(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteListRuns(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	old := testRun(now.Add(-48 * time.Hour))
	mid := testRun(now.Add(-24 * time.Hour))
	recent := testRun(now)

	for _, run := range []*model.ScoringRun{old, mid, recent} {
		require.NoError(t, st.SaveRun(ctx, run))
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := st.ListRuns(ctx, RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, recent.ID, runs[0].ID)
		assert.Equal(t, old.ID, runs[2].ID)
	})

	t.Run("created-after filter", func(t *testing.T) {
		runs, err := st.ListRuns(ctx, RunFilter{CreatedAfter: now.Add(-36 * time.Hour)})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, recent.ID, runs[0].ID)
		assert.Equal(t, mid.ID, runs[1].ID)
	})

	t.Run("limit and offset", func(t *testing.T) {
		runs, err := st.ListRuns(ctx, RunFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, recent.ID, runs[0].ID)

		runs, err = st.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, mid.ID, runs[0].ID)
	})
}

func TestSQLiteSaveRunDuplicateID(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	run := testRun(time.Now().UTC())
	require.NoError(t, st.SaveRun(ctx, run))
	assert.Error(t, st.SaveRun(ctx, run), "primary key violation")
}
