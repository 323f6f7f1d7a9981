package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockRepo(t *testing.T) (ProjectRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return NewProjectRepository(gdb), mock
}

// TestProjectRepository_DeleteUnlinksTasksInTransaction verifies that a
// project delete runs as one transaction: first the owner's tasks are
// detached, then the project row goes away.
func TestProjectRepository_DeleteUnlinksTasksInTransaction(t *testing.T) {
	repo, mock := setupMockRepo(t)

	ownerID := uint64(42)
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET "project_id"=\$1,"updated_at"=\$2 WHERE project_id = \$3 AND owner_id = \$4`).
		WithArgs(nil, sqlmock.AnyArg(), projectID.String(), ownerID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "projects" WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(projectID.String(), ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(ownerID, projectID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestProjectRepository_DeleteMissingRollsBack verifies that deleting a
// project the owner does not have rolls the transaction back.
func TestProjectRepository_DeleteMissingRollsBack(t *testing.T) {
	repo, mock := setupMockRepo(t)

	ownerID := uint64(42)
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET "project_id"=\$1,"updated_at"=\$2 WHERE project_id = \$3 AND owner_id = \$4`).
		WithArgs(nil, sqlmock.AnyArg(), projectID.String(), ownerID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "projects" WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(projectID.String(), ownerID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(ownerID, projectID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
