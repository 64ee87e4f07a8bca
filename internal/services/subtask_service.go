package services

import (
	"context"
	"strings"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
	"taskboard/internal/repositories"
)

type SubtaskPatch struct {
	Text      *string
	Completed *bool
	Position  *int
}

type SubtaskService interface {
	ListByTask(ctx context.Context, userID, taskID int64) ([]models.Subtask, error)
	Create(ctx context.Context, userID, taskID int64, text string) (*models.Subtask, error)
	Update(ctx context.Context, userID, id int64, patch SubtaskPatch) (*models.Subtask, error)
	Delete(ctx context.Context, userID, id int64) error
}

type subtaskService struct {
	repo  repositories.SubtaskRepository
	tasks repositories.TaskRepository
}

func NewSubtaskService(repo repositories.SubtaskRepository, tasks repositories.TaskRepository) SubtaskService {
	return &subtaskService{repo: repo, tasks: tasks}
}

// parentVisible checks that the parent task exists and the caller may see
// it; subtask access always goes through the parent.
func (s *subtaskService) parentVisible(ctx context.Context, userID, taskID int64) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return apperrors.NotFound("not_found", "task not found")
	}
	if !task.VisibleTo(userID) {
		return apperrors.Forbidden("no access to this task")
	}
	return nil
}

func (s *subtaskService) ListByTask(ctx context.Context, userID, taskID int64) ([]models.Subtask, error) {
	if err := s.parentVisible(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListByTask(ctx, taskID)
}

func (s *subtaskService) Create(ctx context.Context, userID, taskID int64, text string) (*models.Subtask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("text_required", "subtask text is required")
	}
	if err := s.parentVisible(ctx, userID, taskID); err != nil {
		return nil, err
	}
	st := &models.Subtask{TaskID: taskID, Text: text}
	if err := s.repo.Store(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *subtaskService) Update(ctx context.Context, userID, id int64, patch SubtaskPatch) (*models.Subtask, error) {
	if patch.Text == nil && patch.Completed == nil && patch.Position == nil {
		return nil, apperrors.Validation("no_fields", "nothing to update")
	}
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperrors.NotFound("not_found", "subtask not found")
	}
	if err := s.parentVisible(ctx, userID, st.TaskID); err != nil {
		return nil, err
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return nil, apperrors.Validation("text_required", "subtask text is required")
		}
		st.Text = text
	}
	if patch.Completed != nil {
		st.Completed = *patch.Completed
	}
	if patch.Position != nil {
		st.Position = *patch.Position
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *subtaskService) Delete(ctx context.Context, userID, id int64) error {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if st == nil {
		return apperrors.NotFound("not_found", "subtask not found")
	}
	if err := s.parentVisible(ctx, userID, st.TaskID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
