package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var volunteerCols = []string{"user_id", "name", "email", "gender", "birthdate", "location", "joined_ngo", "created_at"}

func TestVolunteerRepository_ListByOrg(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewVolunteerRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Exact token membership", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE $1 = ANY(string_to_array(joined_ngo, '-'))")).
			WithArgs("NGO1").
			WillReturnRows(sqlmock.NewRows(volunteerCols).
				AddRow("u1", "Ann", "ann@example.org", "Female", "1990-01-01", "Penang", "NGO1-NGO2", created))

		vols, err := repo.ListByOrg(ctx, "NGO1")
		require.NoError(t, err)
		require.Len(t, vols, 1)
		assert.True(t, vols[0].Membership.Contains("NGO1"))
		assert.True(t, vols[0].Membership.Contains("NGO2"))
		assert.False(t, vols[0].Membership.Contains("NGO"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Never uses substring matching", func(t *testing.T) {
		mock.ExpectQuery(`^SELECT .* FROM volunteers WHERE \$1 = ANY`).
			WithArgs("NGO10").
			WillReturnRows(sqlmock.NewRows(volunteerCols))

		vols, err := repo.ListByOrg(ctx, "NGO10")
		require.NoError(t, err)
		assert.Empty(t, vols)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVolunteerRepository_RemoveMembership(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewVolunteerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT COALESCE\\(joined_ngo, ''\\) FROM volunteers WHERE user_id = \\$1 FOR UPDATE").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"joined_ngo"}).AddRow("NGO1-NGO10-NGO2"))
		mock.ExpectExec("UPDATE volunteers SET joined_ngo").
			WithArgs("NGO10-NGO2", "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.RemoveMembership(ctx, "u1", "NGO1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown volunteer", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("FROM volunteers WHERE user_id").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"joined_ngo"}))
		mock.ExpectRollback()

		err := repo.RemoveMembership(ctx, "ghost", "NGO1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
