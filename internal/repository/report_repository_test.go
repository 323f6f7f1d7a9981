package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tracklite/project-tracker/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type reportTestEnv struct {
	db   *gorm.DB
	repo ReportRepository
}

func setupReportTestEnv(t *testing.T) reportTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return reportTestEnv{
		db:   db,
		repo: NewReportRepository(db),
	}
}

func createReportUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createReportProject(t *testing.T, db *gorm.DB, name string, ownerID uint64) *models.Project {
	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createReportTask(t *testing.T, db *gorm.DB, name string, status models.TaskStatus, ownerID uint64, project *models.Project) *models.Task {
	task := &models.Task{
		Name:      name,
		Status:    status,
		Priority:  models.TaskPriorityMedium,
		Completed: status == models.TaskStatusCompleted,
		OwnerID:   ownerID,
	}
	if project != nil {
		task.ProjectID = &project.ID
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestReportRepository_DistinctStatuses(t *testing.T) {
	env := setupReportTestEnv(t)
	user := createReportUser(t, env.db, "user@example.com")
	other := createReportUser(t, env.db, "other@example.com")

	createReportTask(t, env.db, "A", models.TaskStatusPending, user.ID, nil)
	createReportTask(t, env.db, "B", models.TaskStatusPending, user.ID, nil)
	createReportTask(t, env.db, "C", models.TaskStatusCompleted, user.ID, nil)
	createReportTask(t, env.db, "D", models.TaskStatusInProgress, other.ID, nil)

	statuses, err := env.repo.DistinctStatuses(user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"completed", "pending"}, statuses)
}

func TestReportRepository_ProjectTaskCounts(t *testing.T) {
	env := setupReportTestEnv(t)
	user := createReportUser(t, env.db, "user@example.com")

	alpha := createReportProject(t, env.db, "Alpha", user.ID)
	banana := createReportProject(t, env.db, "Banana", user.ID)
	orange := createReportProject(t, env.db, "Orange", user.ID)
	_ = alpha

	createReportTask(t, env.db, "B1", models.TaskStatusPending, user.ID, banana)
	createReportTask(t, env.db, "B2", models.TaskStatusPending, user.ID, banana)
	createReportTask(t, env.db, "O1", models.TaskStatusPending, user.ID, orange)

	rows, err := env.repo.ProjectTaskCounts(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "Banana", rows[0].Name)
	require.Equal(t, int64(2), rows[0].TaskCount)
	require.Equal(t, "Orange", rows[1].Name)
	require.Equal(t, int64(1), rows[1].TaskCount)
	require.Equal(t, "Alpha", rows[2].Name)
	require.Equal(t, int64(0), rows[2].TaskCount)
}

func TestReportRepository_TasksForProjectsStartingWith(t *testing.T) {
	env := setupReportTestEnv(t)
	user := createReportUser(t, env.db, "user@example.com")

	work := createReportProject(t, env.db, "Work", user.ID)
	weekend := createReportProject(t, env.db, "Weekend", user.ID)
	home := createReportProject(t, env.db, "Home", user.ID)

	createReportTask(t, env.db, "Report", models.TaskStatusPending, user.ID, work)
	createReportTask(t, env.db, "Hike", models.TaskStatusPending, user.ID, weekend)
	createReportTask(t, env.db, "Laundry", models.TaskStatusPending, user.ID, home)
	createReportTask(t, env.db, "Loose end", models.TaskStatusPending, user.ID, nil)

	tasks, err := env.repo.TasksForProjectsStartingWith(user.ID, "W")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	// Ordered by project name, then task name
	require.Equal(t, "Hike", tasks[0].Name)
	require.Equal(t, "Report", tasks[1].Name)
}

func TestReportRepository_ProjectsContainingLetter(t *testing.T) {
	env := setupReportTestEnv(t)
	user := createReportUser(t, env.db, "user@example.com")

	// "o" inside the name but not as first or last character
	shopping := createReportProject(t, env.db, "Shopping", user.ID)
	// leading "O" with more "o"s inside: still a match
	createReportProject(t, env.db, "Outdoors", user.ID)
	// only a leading "O": the first character must not count
	createReportProject(t, env.db, "Omega", user.ID)
	// only a trailing "o": the last character must not count
	createReportProject(t, env.db, "Ludo", user.ID)

	createReportTask(t, env.db, "Milk", models.TaskStatusPending, user.ID, shopping)
	createReportTask(t, env.db, "Eggs", models.TaskStatusPending, user.ID, shopping)
	createReportTask(t, env.db, "Stray 1", models.TaskStatusPending, user.ID, nil)
	createReportTask(t, env.db, "Stray 2", models.TaskStatusPending, user.ID, nil)
	createReportTask(t, env.db, "Stray 3", models.TaskStatusPending, user.ID, nil)

	rows, err := env.repo.ProjectsContainingLetter(user.ID, "o")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "(no project)", rows[0].Name)
	require.Nil(t, rows[0].ProjectID)
	require.Equal(t, int64(3), rows[0].TaskCount)

	require.Equal(t, "Shopping", rows[1].Name)
	require.Equal(t, int64(2), rows[1].TaskCount)

	require.Equal(t, "Outdoors", rows[2].Name)
	require.Equal(t, int64(0), rows[2].TaskCount)
}

func TestReportRepository_DuplicateTaskNames(t *testing.T) {
	env := setupReportTestEnv(t)
	user := createReportUser(t, env.db, "user@example.com")
	other := createReportUser(t, env.db, "other@example.com")

	createReportTask(t, env.db, "Buy milk", models.TaskStatusPending, user.ID, nil)
	createReportTask(t, env.db, "Buy milk", models.TaskStatusCompleted, user.ID, nil)
	createReportTask(t, env.db, "Clean", models.TaskStatusPending, user.ID, nil)
	// Same name under another owner must not turn "Clean" into a duplicate
	createReportTask(t, env.db, "Clean", models.TaskStatusPending, other.ID, nil)

	names, err := env.repo.DuplicateTaskNames(user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Buy milk"}, names)
}

func TestReportRepository_DuplicateTasksInProject(t *testing.T) {
	env := setupReportTestEnv(t)
	user := createReportUser(t, env.db, "user@example.com")

	errands := createReportProject(t, env.db, "Errands", user.ID)
	chores := createReportProject(t, env.db, "Chores", user.ID)

	createReportTask(t, env.db, "Buy milk", models.TaskStatusPending, user.ID, errands)
	createReportTask(t, env.db, "Buy milk", models.TaskStatusPending, user.ID, errands)
	createReportTask(t, env.db, "Buy milk", models.TaskStatusCompleted, user.ID, errands)
	// Same name in another project stays out of scope
	createReportTask(t, env.db, "Buy milk", models.TaskStatusPending, user.ID, chores)

	groups, err := env.repo.DuplicateTasksInProject(user.ID, "Errands")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, "Buy milk", groups[0].Name)
	require.Equal(t, models.TaskStatusPending, groups[0].Status)
	require.Equal(t, int64(2), groups[0].DuplicateCount)
}

func TestReportRepository_ProjectsWithStatusCountAbove(t *testing.T) {
	env := setupReportTestEnv(t)
	user := createReportUser(t, env.db, "user@example.com")

	busy := createReportProject(t, env.db, "Busy", user.ID)
	quiet := createReportProject(t, env.db, "Quiet", user.ID)

	createReportTask(t, env.db, "P1", models.TaskStatusPending, user.ID, busy)
	createReportTask(t, env.db, "P2", models.TaskStatusPending, user.ID, busy)
	createReportTask(t, env.db, "P3", models.TaskStatusPending, user.ID, busy)
	createReportTask(t, env.db, "Q1", models.TaskStatusPending, user.ID, quiet)
	createReportTask(t, env.db, "Done", models.TaskStatusCompleted, user.ID, busy)

	rows, err := env.repo.ProjectsWithStatusCountAbove(user.ID, models.TaskStatusPending, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Busy", rows[0].Name)
	require.Equal(t, int64(3), rows[0].TaskCount)
}
