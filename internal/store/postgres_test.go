package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresMigrate(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS scoring_runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveRun(t *testing.T) {
	st, mock := newMockStore(t)

	run := testRun(time.Now().UTC())
	resultsJSON, err := json.Marshal(run.Results)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO scoring_runs").
		WithArgs(run.ID, run.CompanyCount, resultsJSON, run.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, st.SaveRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveRunError(t *testing.T) {
	st, mock := newMockStore(t)

	run := testRun(time.Now().UTC())
	mock.ExpectExec("INSERT INTO scoring_runs").
		WithArgs(run.ID, run.CompanyCount, pgxmock.AnyArg(), run.CreatedAt).
		WillReturnError(fmt.Errorf("connection refused"))

	err := st.SaveRun(context.Background(), run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRun(t *testing.T) {
	st, mock := newMockStore(t)

	run := testRun(time.Now().UTC())
	resultsJSON, err := json.Marshal(run.Results)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "company_count", "results", "created_at"}).
		AddRow(run.ID, run.CompanyCount, resultsJSON, run.CreatedAt)
	mock.ExpectQuery("SELECT id, company_count, results, created_at FROM scoring_runs WHERE id").
		WithArgs(run.ID).
		WillReturnRows(rows)

	got, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.CompanyCount, got.CompanyCount)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "p1", got.Results[0].CompanyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRunNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, company_count, results, created_at FROM scoring_runs WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "company_count", "results", "created_at"}))

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListRuns(t *testing.T) {
	st, mock := newMockStore(t)

	run := testRun(time.Now().UTC())
	resultsJSON, err := json.Marshal(run.Results)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "company_count", "results", "created_at"}).
		AddRow(run.ID, run.CompanyCount, resultsJSON, run.CreatedAt)
	mock.ExpectQuery("SELECT id, company_count, results, created_at FROM scoring_runs").
		WithArgs(100).
		WillReturnRows(rows)

	runs, err := st.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListRunsWithFilter(t *testing.T) {
	st, mock := newMockStore(t)

	after := time.Now().Add(-24 * time.Hour)
	mock.ExpectQuery("SELECT id, company_count, results, created_at FROM scoring_runs").
		WithArgs(after, 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "company_count", "results", "created_at"}))

	runs, err := st.ListRuns(context.Background(), RunFilter{CreatedAfter: after, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
