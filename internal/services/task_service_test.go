package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/apperrors"
	"taskboard/internal/authz"
	"taskboard/internal/models"
)

func TestTaskServiceCreate(t *testing.T) {
	t.Run("blank text is rejected", func(t *testing.T) {
		svc := NewTaskService(&fakeTaskRepo{}, &fakeUserRepo{})
		_, err := svc.Create(context.Background(), 1, &models.Task{Text: "   "})
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Equal(t, "text_required", apperrors.WireCode(err))
	})

	t.Run("defaults and ownership", func(t *testing.T) {
		var stored *models.Task
		repo := &fakeTaskRepo{storeFn: func(_ context.Context, task *models.Task) error {
			stored = task
			task.ID = 9
			return nil
		}}
		svc := NewTaskService(repo, &fakeUserRepo{})

		created, err := svc.Create(context.Background(), 7, &models.Task{Text: " buy milk ", Completed: true})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "buy milk", created.Text)
		assert.Equal(t, int64(7), created.UserID)
		assert.Equal(t, models.PriorityMedium, created.Priority)
		assert.False(t, created.Completed, "a task is never born completed")
	})

	t.Run("unknown priority is rejected", func(t *testing.T) {
		svc := NewTaskService(&fakeTaskRepo{}, &fakeUserRepo{})
		_, err := svc.Create(context.Background(), 1, &models.Task{Text: "x", Priority: "urgent"})
		assert.Equal(t, "invalid_priority", apperrors.WireCode(err))
	})
}

func TestTaskServiceGet(t *testing.T) {
	assignee := int64(5)
	repo := &fakeTaskRepo{findByIDFn: func(_ context.Context, id int64) (*models.Task, error) {
		if id == 1 {
			return &models.Task{ID: 1, UserID: 2, AssignedTo: &assignee, Text: "x"}, nil
		}
		return nil, nil
	}}
	svc := NewTaskService(repo, &fakeUserRepo{})

	t.Run("owner and assignee can read", func(t *testing.T) {
		_, err := svc.Get(context.Background(), 2, 1)
		assert.NoError(t, err)
		_, err = svc.Get(context.Background(), 5, 1)
		assert.NoError(t, err)
	})

	t.Run("stranger sees not_found, not forbidden", func(t *testing.T) {
		_, err := svc.Get(context.Background(), 9, 1)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := svc.Get(context.Background(), 2, 42)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestTaskServiceList(t *testing.T) {
	var got models.TaskListOptions
	repo := &fakeTaskRepo{listFn: func(_ context.Context, _ int64, opts models.TaskListOptions) ([]models.Task, error) {
		got = opts
		return nil, nil
	}}
	svc := NewTaskService(repo, &fakeUserRepo{})

	t.Run("empty options fall back to all/position", func(t *testing.T) {
		_, err := svc.List(context.Background(), 1, models.TaskListOptions{Search: "  milk  "})
		require.NoError(t, err)
		assert.Equal(t, models.FilterAll, got.Filter)
		assert.Equal(t, models.SortPosition, got.Sort)
		assert.Equal(t, "milk", got.Search)
	})

	t.Run("bad filter", func(t *testing.T) {
		_, err := svc.List(context.Background(), 1, models.TaskListOptions{Filter: "done"})
		assert.Equal(t, "invalid_filter", apperrors.WireCode(err))
	})

	t.Run("bad sort", func(t *testing.T) {
		_, err := svc.List(context.Background(), 1, models.TaskListOptions{Filter: models.FilterAll, Sort: "priority"})
		assert.Equal(t, "invalid_sort", apperrors.WireCode(err))
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	newText := "rewritten"
	completed := true

	mkRepo := func(updated **models.Task) *fakeTaskRepo {
		return &fakeTaskRepo{
			findByIDFn: func(_ context.Context, id int64) (*models.Task, error) {
				return &models.Task{ID: id, UserID: 1, Text: "old", Priority: models.PriorityLow, DueDate: &due}, nil
			},
			updateFn: func(_ context.Context, task *models.Task) error {
				*updated = task
				return nil
			},
		}
	}

	t.Run("empty patch", func(t *testing.T) {
		svc := NewTaskService(&fakeTaskRepo{}, &fakeUserRepo{})
		_, err := svc.Update(context.Background(), 1, 1, TaskPatch{})
		assert.Equal(t, "no_fields", apperrors.WireCode(err))
	})

	t.Run("patched fields land, others stay", func(t *testing.T) {
		var updated *models.Task
		svc := NewTaskService(mkRepo(&updated), &fakeUserRepo{})

		got, err := svc.Update(context.Background(), 1, 3, TaskPatch{Text: &newText, Completed: &completed})
		require.NoError(t, err)
		assert.Equal(t, "rewritten", got.Text)
		assert.True(t, got.Completed)
		assert.Equal(t, models.PriorityLow, got.Priority)
		require.NotNil(t, updated)
	})

	t.Run("clear due date", func(t *testing.T) {
		var updated *models.Task
		svc := NewTaskService(mkRepo(&updated), &fakeUserRepo{})

		got, err := svc.Update(context.Background(), 1, 3, TaskPatch{ClearDue: true})
		require.NoError(t, err)
		assert.Nil(t, got.DueDate)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		var updated *models.Task
		svc := NewTaskService(mkRepo(&updated), &fakeUserRepo{})

		_, err := svc.Update(context.Background(), 9, 3, TaskPatch{Text: &newText})
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
		assert.Nil(t, updated)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	assignee := int64(5)
	deleted := false
	repo := &fakeTaskRepo{
		findByIDFn: func(_ context.Context, id int64) (*models.Task, error) {
			return &models.Task{ID: id, UserID: 2, AssignedTo: &assignee}, nil
		},
		deleteFn: func(_ context.Context, _ int64) error {
			deleted = true
			return nil
		},
	}
	svc := NewTaskService(repo, &fakeUserRepo{})

	t.Run("assignee may read but not delete", func(t *testing.T) {
		deleted = false
		err := svc.Delete(context.Background(), 5, authz.RoleUser, 1)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
		assert.False(t, deleted)
	})

	t.Run("stranger gets not_found", func(t *testing.T) {
		err := svc.Delete(context.Background(), 9, authz.RoleUser, 1)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("owner deletes", func(t *testing.T) {
		deleted = false
		require.NoError(t, svc.Delete(context.Background(), 2, authz.RoleUser, 1))
		assert.True(t, deleted)
	})

	t.Run("admin deletes any task", func(t *testing.T) {
		deleted = false
		require.NoError(t, svc.Delete(context.Background(), 9, authz.RoleAdmin, 1))
		assert.True(t, deleted)
	})
}

func TestTaskServiceReorder(t *testing.T) {
	var gotOrder []int64
	repo := &fakeTaskRepo{reorderFn: func(_ context.Context, _ int64, order []int64) error {
		gotOrder = order
		return nil
	}}
	svc := NewTaskService(repo, &fakeUserRepo{})

	err := svc.Reorder(context.Background(), 1, nil)
	assert.Equal(t, "invalid_order", apperrors.WireCode(err))
	assert.Nil(t, gotOrder)

	require.NoError(t, svc.Reorder(context.Background(), 1, []int64{3, 1, 2}))
	assert.Equal(t, []int64{3, 1, 2}, gotOrder)
}

func TestTaskServiceAssign(t *testing.T) {
	var assignedTo *int64
	taskRepo := &fakeTaskRepo{
		findByIDFn: func(_ context.Context, id int64) (*models.Task, error) {
			return &models.Task{ID: id, UserID: 2}, nil
		},
		updateAssigneeFn: func(_ context.Context, _ int64, assigneeID *int64) error {
			assignedTo = assigneeID
			return nil
		},
	}
	userRepo := &fakeUserRepo{findByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
		if username == "bob" {
			return &models.User{ID: 5, Username: "bob"}, nil
		}
		return nil, nil
	}}
	svc := NewTaskService(taskRepo, userRepo)

	t.Run("only owner or admin may assign", func(t *testing.T) {
		_, err := svc.Assign(context.Background(), 9, authz.RoleUser, 1, "bob")
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("unknown assignee", func(t *testing.T) {
		assignedTo = nil
		_, err := svc.Assign(context.Background(), 2, authz.RoleUser, 1, "ghost")
		assert.Equal(t, "user_not_found", apperrors.WireCode(err))
		assert.Nil(t, assignedTo)
	})

	t.Run("owner assigns by username", func(t *testing.T) {
		assignedTo = nil
		_, err := svc.Assign(context.Background(), 2, authz.RoleUser, 1, "bob")
		require.NoError(t, err)
		require.NotNil(t, assignedTo)
		assert.Equal(t, int64(5), *assignedTo)
	})
}
