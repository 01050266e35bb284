package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/MPanduranga55/Contact-Book/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactColumns = []string{"id", "name", "email", "phone", "created_at"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresContactsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresContactsRepository(db)
}

func TestPostgresEnsureSchema(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS contacts`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListContacts_CountThenWindow(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contacts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC`).
		WithArgs(5, 5).
		WillReturnRows(sqlmock.NewRows(contactColumns).
			AddRow(7, "G", "g@x.com", "5551234567", now).
			AddRow(6, "F", "f@x.com", "5551234567", now.Add(-time.Second)))

	items, total, err := repo.ListContacts(context.Background(), 2, 5)

	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(7), items[0].ID)
	assert.Equal(t, "f@x.com", items[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListContacts_CountFails(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("connection reset"))

	_, _, err := repo.ListContacts(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count contacts")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateContact_InsertThenReload(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO contacts`).
		WithArgs("Ann", "ann@x.com", "5551234567").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`FROM contacts WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(contactColumns).AddRow(1, "Ann", "ann@x.com", "5551234567", now))

	c, err := repo.CreateContact(context.Background(), &domain.Contact{Name: "Ann", Email: "ann@x.com", Phone: "5551234567"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.True(t, now.Equal(c.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateContact_UniqueViolation(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO contacts`).
		WithArgs("Ann", "ann@x.com", "5551234567").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "contacts_email_key"})

	_, err := repo.CreateContact(context.Background(), &domain.Contact{Name: "Ann", Email: "ann@x.com", Phone: "5551234567"})

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateContact_OtherErrorIsWrapped(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO contacts`).
		WillReturnError(&pq.Error{Code: "23502", Message: "null value"})

	_, err := repo.CreateContact(context.Background(), &domain.Contact{Name: "Ann"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "failed to create contact")
}

func TestPostgresGetContact_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM contacts WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(contactColumns))

	_, err := repo.GetContact(context.Background(), 9)
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestPostgresDeleteContact(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM contacts WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM contacts WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteContact(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteContact(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}
