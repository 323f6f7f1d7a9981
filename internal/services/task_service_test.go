package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tracklite/project-tracker/internal/models"
	"github.com/tracklite/project-tracker/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type taskServiceTestEnv struct {
	db      *gorm.DB
	service *TaskService
}

func setupTaskServiceTestEnv(t *testing.T) taskServiceTestEnv {
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

	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	userRepo := repository.NewUserRepository(db)

	return taskServiceTestEnv{
		db:      db,
		service: NewTaskService(taskRepo, projectRepo, userRepo),
	}
}

func createServiceUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestTaskService_CreateDefaults(t *testing.T) {
	env := setupTaskServiceTestEnv(t)
	user := createServiceUser(t, env.db, "user@example.com")

	task, err := env.service.CreateTask(CreateTaskInput{
		Name:    "  Trim me  ",
		OwnerID: user.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Trim me", task.Name)
	require.Equal(t, models.TaskStatusPending, task.Status)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)
	require.False(t, task.Completed)
}

func TestTaskService_CreatePastDeadlineRejected(t *testing.T) {
	env := setupTaskServiceTestEnv(t)
	user := createServiceUser(t, env.db, "user@example.com")

	past := time.Now().Add(-time.Minute)
	_, err := env.service.CreateTask(CreateTaskInput{
		Name:     "Late",
		Deadline: &past,
		OwnerID:  user.ID,
	})
	require.ErrorIs(t, err, ErrDeadlineInPast)
}

func TestTaskService_CreateFutureDeadlineAccepted(t *testing.T) {
	env := setupTaskServiceTestEnv(t)
	user := createServiceUser(t, env.db, "user@example.com")

	future := time.Now().Add(time.Hour)
	task, err := env.service.CreateTask(CreateTaskInput{
		Name:     "On time",
		Deadline: &future,
		OwnerID:  user.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, task.Deadline)
}

func TestTaskService_UpdateKeepsUnchangedPastDeadline(t *testing.T) {
	env := setupTaskServiceTestEnv(t)
	user := createServiceUser(t, env.db, "user@example.com")

	// An old task whose deadline has since passed
	past := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	task := &models.Task{
		Name:     "Old task",
		Status:   models.TaskStatusPending,
		Priority: models.TaskPriorityMedium,
		Deadline: &past,
		OwnerID:  user.ID,
	}
	require.NoError(t, env.db.Create(task).Error)

	// Resubmitting the stored deadline untouched must pass
	name := "Renamed"
	updated, err := env.service.UpdateTask(user.ID, task.ID, UpdateTaskInput{
		Name:     &name,
		Deadline: &past,
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)

	// Moving the deadline to a different past moment must fail
	otherPast := past.Add(-time.Hour)
	_, err = env.service.UpdateTask(user.ID, task.ID, UpdateTaskInput{
		Deadline: &otherPast,
	})
	require.ErrorIs(t, err, ErrDeadlineInPast)
}

func TestTaskService_UpdateStatusSyncsCompleted(t *testing.T) {
	env := setupTaskServiceTestEnv(t)
	user := createServiceUser(t, env.db, "user@example.com")

	task, err := env.service.CreateTask(CreateTaskInput{
		Name:    "Sync me",
		OwnerID: user.ID,
	})
	require.NoError(t, err)

	completed := models.TaskStatusCompleted
	updated, err := env.service.UpdateTask(user.ID, task.ID, UpdateTaskInput{
		Status: &completed,
	})
	require.NoError(t, err)
	require.True(t, updated.Completed)

	pending := models.TaskStatusPending
	updated, err = env.service.UpdateTask(user.ID, task.ID, UpdateTaskInput{
		Status: &pending,
	})
	require.NoError(t, err)
	require.False(t, updated.Completed)
}

func TestTaskService_ToggleDerivesStatus(t *testing.T) {
	env := setupTaskServiceTestEnv(t)
	user := createServiceUser(t, env.db, "user@example.com")

	task, err := env.service.CreateTask(CreateTaskInput{
		Name:     "Toggle me",
		Status:   models.TaskStatusInProgress,
		OwnerID:  user.ID,
		Priority: models.TaskPriorityHigh,
	})
	require.NoError(t, err)

	toggled, err := env.service.ToggleCompletion(user.ID, task.ID)
	require.NoError(t, err)
	require.True(t, toggled.Completed)
	require.Equal(t, models.TaskStatusCompleted, toggled.Status)

	// Reopening lands on pending, not the previous in_progress
	toggled, err = env.service.ToggleCompletion(user.ID, task.ID)
	require.NoError(t, err)
	require.False(t, toggled.Completed)
	require.Equal(t, models.TaskStatusPending, toggled.Status)
}

func TestTaskService_DeleteByAssigneeRejected(t *testing.T) {
	env := setupTaskServiceTestEnv(t)
	owner := createServiceUser(t, env.db, "owner@example.com")
	assignee := createServiceUser(t, env.db, "assignee@example.com")

	task, err := env.service.CreateTask(CreateTaskInput{
		Name:       "Guarded",
		OwnerID:    owner.ID,
		AssigneeID: &assignee.ID,
	})
	require.NoError(t, err)

	err = env.service.DeleteTask(assignee.ID, task.ID)
	require.ErrorIs(t, err, ErrNotTaskOwner)

	// The owner can
	require.NoError(t, env.service.DeleteTask(owner.ID, task.ID))
}

func TestTaskService_ForeignTaskInvisible(t *testing.T) {
	env := setupTaskServiceTestEnv(t)
	owner := createServiceUser(t, env.db, "owner@example.com")
	stranger := createServiceUser(t, env.db, "stranger@example.com")

	task, err := env.service.CreateTask(CreateTaskInput{
		Name:    "Private",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.service.GetTask(stranger.ID, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, err = env.service.UpdateTask(stranger.ID, task.ID, UpdateTaskInput{})
	require.ErrorIs(t, err, ErrTaskNotFound)

	err = env.service.DeleteTask(stranger.ID, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
