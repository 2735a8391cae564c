package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmanager/taskmanager-go/internal/model"
)

var taskRowColumns = []string{"id", "title", "description", "category", "status", "priority", "due_date", "user_id"}

func TestTaskCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO tasks`).
		WithArgs("Write report", "quarterly", "work", "PENDING", "HIGH", due, int64(1)).
		WillReturnResult(sqlmock.NewResult(10, 1))

	task := &model.Task{
		Title: "Write report", Description: "quarterly", Category: "work",
		Status: model.TaskPending, Priority: model.PriorityHigh, DueDate: &due, UserID: 1,
	}
	require.NoError(t, repo.Create(context.Background(), task))
	assert.Equal(t, int64(10), task.ID)
}

func TestTaskUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(`UPDATE tasks SET`).
		WithArgs("t", "d", "c", "COMPLETED", "LOW", sqlmock.AnyArg(), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	task := &model.Task{ID: 4, Title: "t", Description: "d", Category: "c", Status: model.TaskCompleted, Priority: model.PriorityLow}
	require.NoError(t, repo.Update(context.Background(), task))
}

func TestTaskGetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).AddRow(5, "t", "d", "c", "PENDING", "MEDIUM", due, 1))

	task, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "t", task.Title)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(due))
}

func TestTaskGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT .* FROM tasks WHERE id = \?`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskListByUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY id`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(1, "a", "", "", "PENDING", "LOW", nil, 1).
			AddRow(2, "b", "", "", "COMPLETED", "HIGH", nil, 1))

	tasks, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Nil(t, tasks[0].DueDate)
	assert.Equal(t, model.TaskCompleted, tasks[1].Status)
}

func TestTaskList_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + taskColumns + ` FROM tasks ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = ?`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 7))
}
