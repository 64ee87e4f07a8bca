package services

import (
	"context"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/authz"
	"taskboard/internal/models"
	"taskboard/internal/repositories"
)

// TaskPatch is a partial task update; nil fields stay untouched. DueDate
// distinguishes "leave alone" (nil) from "clear" (set with Clear).
type TaskPatch struct {
	Text        *string
	Description *string
	Category    *string
	Priority    *models.TaskPriority
	DueDate     *time.Time
	ClearDue    bool
	Remind      *bool
	Completed   *bool
}

func (p TaskPatch) empty() bool {
	return p.Text == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.DueDate == nil && !p.ClearDue &&
		p.Remind == nil && p.Completed == nil
}

type TaskService interface {
	Create(ctx context.Context, userID int64, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, userID int64, id int64) (*models.Task, error)
	List(ctx context.Context, userID int64, opts models.TaskListOptions) ([]models.Task, error)
	Update(ctx context.Context, userID int64, id int64, patch TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID int64, role string, id int64) error
	ClearCompleted(ctx context.Context, userID int64) (int64, error)
	Reorder(ctx context.Context, userID int64, order []int64) error
	Assign(ctx context.Context, userID int64, role string, taskID int64, username string) (*models.Task, error)
}

type taskService struct {
	repo  repositories.TaskRepository
	users repositories.UserRepository
}

func NewTaskService(repo repositories.TaskRepository, users repositories.UserRepository) TaskService {
	return &taskService{repo: repo, users: users}
}

func (s *taskService) Create(ctx context.Context, userID int64, task *models.Task) (*models.Task, error) {
	task.Text = strings.TrimSpace(task.Text)
	if task.Text == "" {
		return nil, apperrors.Validation("text_required", "task text is required")
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !task.Priority.Valid() {
		return nil, apperrors.Validation("invalid_priority", "priority must be low, medium or high")
	}
	task.UserID = userID
	task.Completed = false
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, userID int64, id int64) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil || !task.VisibleTo(userID) {
		// hide existence of other owners' tasks
		return nil, apperrors.NotFound("not_found", "task not found")
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, userID int64, opts models.TaskListOptions) ([]models.Task, error) {
	if opts.Filter == "" {
		opts.Filter = models.FilterAll
	}
	if opts.Sort == "" {
		opts.Sort = models.SortPosition
	}
	if !opts.Filter.Valid() {
		return nil, apperrors.Validation("invalid_filter", "filter must be all, active or completed")
	}
	if !opts.Sort.Valid() {
		return nil, apperrors.Validation("invalid_sort", "sort must be position, due or created")
	}
	opts.Search = strings.TrimSpace(opts.Search)
	return s.repo.List(ctx, userID, opts)
}

// Update lets the owner or the assignee change task content. Position is
// deliberately absent from the patch: ordering changes go through Reorder.
func (s *taskService) Update(ctx context.Context, userID int64, id int64, patch TaskPatch) (*models.Task, error) {
	if patch.empty() {
		return nil, apperrors.Validation("no_fields", "nothing to update")
	}
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil || !task.VisibleTo(userID) {
		return nil, apperrors.NotFound("not_found", "task not found")
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return nil, apperrors.Validation("text_required", "task text is required")
		}
		task.Text = text
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, apperrors.Validation("invalid_priority", "priority must be low, medium or high")
		}
		task.Priority = *patch.Priority
	}
	if patch.ClearDue {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Remind != nil {
		task.Remind = *patch.Remind
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, userID int64, role string, id int64) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return apperrors.NotFound("not_found", "task not found")
	}
	// assignment grants visibility, never deletion rights
	if task.UserID != userID && !authz.IsAdmin(role) {
		if task.VisibleTo(userID) {
			return apperrors.Forbidden("only the owner can delete a task")
		}
		return apperrors.NotFound("not_found", "task not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *taskService) ClearCompleted(ctx context.Context, userID int64) (int64, error) {
	return s.repo.ClearCompleted(ctx, userID)
}

func (s *taskService) Reorder(ctx context.Context, userID int64, order []int64) error {
	if len(order) == 0 {
		return apperrors.Validation("invalid_order", "order must not be empty")
	}
	return s.repo.Reorder(ctx, userID, order)
}

func (s *taskService) Assign(ctx context.Context, userID int64, role string, taskID int64, username string) (*models.Task, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.Validation("invalid_input", "username is required")
	}
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.NotFound("not_found", "task not found")
	}
	if task.UserID != userID && !authz.IsAdmin(role) {
		return nil, apperrors.Forbidden("only the owner can assign a task")
	}
	assignee, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, apperrors.NotFound("user_not_found", "no user with that username")
	}
	if err := s.repo.UpdateAssignee(ctx, taskID, &assignee.ID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, taskID)
}
