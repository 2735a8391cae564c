package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskmanager/taskmanager-go/internal/model"
	"github.com/taskmanager/taskmanager-go/internal/repository"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrForbidden    = errors.New("tasks can only be created for the authenticated user")
)

// TaskStore persists tasks.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Task, error)
	Delete(ctx context.Context, id int64) error
}

// UserLookup resolves usernames to users.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// TaskService is the CRUD façade over tasks.
type TaskService struct {
	tasks         TaskStore
	users         UserLookup
	notifications NotificationStore
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks TaskStore, users UserLookup, notifications NotificationStore) *TaskService {
	return &TaskService{tasks: tasks, users: users, notifications: notifications}
}

// List returns all tasks.
func (s *TaskService) List(ctx context.Context) ([]model.TaskResponse, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	return tasksToResponse(tasks), nil
}

// ListByUser returns the tasks owned by userID.
func (s *TaskService) ListByUser(ctx context.Context, userID int64) ([]model.TaskResponse, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tasksToResponse(tasks), nil
}

// Get returns a single task.
func (s *TaskService) Get(ctx context.Context, id int64) (model.TaskResponse, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return model.TaskResponse{}, ErrTaskNotFound
		}
		return model.TaskResponse{}, err
	}
	return task.ToResponse(), nil
}

// Create stores a new task owned by username. The caller identity must be
// that same user.
func (s *TaskService) Create(ctx context.Context, identity, username string, req model.TaskRequest) (model.TaskResponse, error) {
	if identity != username {
		return model.TaskResponse{}, ErrForbidden
	}

	task, err := taskFromRequest(req)
	if err != nil {
		return model.TaskResponse{}, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.TaskResponse{}, ErrUserNotFound
		}
		return model.TaskResponse{}, err
	}
	task.UserID = user.ID

	if err := s.tasks.Create(ctx, task); err != nil {
		return model.TaskResponse{}, err
	}

	n := &model.Notification{Message: "New task created: " + task.Title}
	if err := s.notifications.Create(ctx, n); err != nil {
		slog.WarnContext(ctx, "failed to record task notification", "task_id", task.ID, "error", err)
	}

	return task.ToResponse(), nil
}

// Update replaces the mutable fields of task id.
func (s *TaskService) Update(ctx context.Context, id int64, req model.TaskRequest) (model.TaskResponse, error) {
	updated, err := taskFromRequest(req)
	if err != nil {
		return model.TaskResponse{}, err
	}

	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return model.TaskResponse{}, ErrTaskNotFound
		}
		return model.TaskResponse{}, err
	}

	updated.ID = existing.ID
	updated.UserID = existing.UserID

	if err := s.tasks.Update(ctx, updated); err != nil {
		return model.TaskResponse{}, err
	}
	return updated.ToResponse(), nil
}

// Delete removes task id. Missing tasks are ignored.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.tasks.Delete(ctx, id)
}

// taskFromRequest validates req and applies status/priority defaults.
func taskFromRequest(req model.TaskRequest) (*model.Task, error) {
	errs := fieldErrors{}

	task := &model.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Status:      model.TaskPending,
		Priority:    model.PriorityMedium,
	}

	switch n := utf8.RuneCountInString(task.Title); {
	case n == 0:
		errs.add("title", "Title is required")
	case n > maxTitleLength:
		errs.add("title", fmt.Sprintf("Title must be at most %d characters", maxTitleLength))
	}

	if req.Status != "" {
		switch st := model.TaskStatus(strings.ToUpper(req.Status)); st {
		case model.TaskPending, model.TaskCompleted:
			task.Status = st
		default:
			errs.add("status", "Status must be PENDING or COMPLETED")
		}
	}

	if req.Priority != "" {
		switch p := model.TaskPriority(strings.ToUpper(req.Priority)); p {
		case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
			task.Priority = p
		default:
			errs.add("priority", "Priority must be LOW, MEDIUM or HIGH")
		}
	}

	if req.DueDate != "" {
		due, err := time.Parse(model.DateLayout, req.DueDate)
		if err != nil {
			errs.add("dueDate", "Due date must use the YYYY-MM-DD format")
		} else {
			task.DueDate = &due
		}
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return task, nil
}

func tasksToResponse(tasks []model.Task) []model.TaskResponse {
	result := make([]model.TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = t.ToResponse()
	}
	return result
}
