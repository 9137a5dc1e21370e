package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-funding-api/internal/models"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresWithDB(sqlx.NewDb(db, "sqlmock")), mock
}

func TestPostgresLoadReadsRow(t *testing.T) {
	st, mock := newMockStore(t)

	payload := `{"users":[{"id":"s1","name":"Ana","role":"student"}],"requests":[]}`
	mock.ExpectQuery("SELECT payload FROM funding_snapshot").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(payload)))

	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "s1", snap.Users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoadNoRowIsEmpty(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT payload FROM funding_snapshot").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveUpserts(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO funding_snapshot").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	snap := models.Snapshot{
		Users: []models.User{{ID: "d1", Name: "Cy", Role: models.RoleDonor}},
	}
	require.NoError(t, st.Save(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveSurfacesError(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO funding_snapshot").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(assert.AnError)

	err := st.Save(context.Background(), models.Snapshot{})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
