package services

import (
	"context"
	"time"

	"taskboard/internal/models"
)

// Hand-rolled fakes over the repository interfaces; each method delegates
// to a func field when set and no-ops otherwise.

type fakeTaskRepo struct {
	storeFn          func(ctx context.Context, task *models.Task) error
	findByIDFn       func(ctx context.Context, id int64) (*models.Task, error)
	listFn           func(ctx context.Context, userID int64, opts models.TaskListOptions) ([]models.Task, error)
	updateFn         func(ctx context.Context, task *models.Task) error
	deleteFn         func(ctx context.Context, id int64) error
	clearCompletedFn func(ctx context.Context, userID int64) (int64, error)
	reorderFn        func(ctx context.Context, userID int64, order []int64) error
	updateAssigneeFn func(ctx context.Context, taskID int64, assigneeID *int64) error
	dueSoonFn        func(ctx context.Context, userID int64, until time.Time) ([]models.Task, error)
	summaryFn        func(ctx context.Context, userID int64) (*models.AnalyticsSummary, error)
}

func (f *fakeTaskRepo) Store(ctx context.Context, task *models.Task) error {
	if f.storeFn != nil {
		return f.storeFn(ctx, task)
	}
	return nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeTaskRepo) List(ctx context.Context, userID int64, opts models.TaskListOptions) ([]models.Task, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID, opts)
	}
	return nil, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, task)
	}
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeTaskRepo) ClearCompleted(ctx context.Context, userID int64) (int64, error) {
	if f.clearCompletedFn != nil {
		return f.clearCompletedFn(ctx, userID)
	}
	return 0, nil
}

func (f *fakeTaskRepo) Reorder(ctx context.Context, userID int64, order []int64) error {
	if f.reorderFn != nil {
		return f.reorderFn(ctx, userID, order)
	}
	return nil
}

func (f *fakeTaskRepo) UpdateAssignee(ctx context.Context, taskID int64, assigneeID *int64) error {
	if f.updateAssigneeFn != nil {
		return f.updateAssigneeFn(ctx, taskID, assigneeID)
	}
	return nil
}

func (f *fakeTaskRepo) DueSoon(ctx context.Context, userID int64, until time.Time) ([]models.Task, error) {
	if f.dueSoonFn != nil {
		return f.dueSoonFn(ctx, userID, until)
	}
	return nil, nil
}

func (f *fakeTaskRepo) Summary(ctx context.Context, userID int64) (*models.AnalyticsSummary, error) {
	if f.summaryFn != nil {
		return f.summaryFn(ctx, userID)
	}
	return &models.AnalyticsSummary{}, nil
}

type fakeUserRepo struct {
	createFn             func(ctx context.Context, user *models.User) error
	findByIDFn           func(ctx context.Context, id int64) (*models.User, error)
	findByLoginFn        func(ctx context.Context, login string) (*models.User, error)
	findByUsernameFn     func(ctx context.Context, username string) (*models.User, error)
	listFn               func(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	updateFn             func(ctx context.Context, user *models.User) error
	updatePasswordFn     func(ctx context.Context, id int64, passwordHash string) error
	updateRefreshFn      func(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	clearRefreshFn       func(ctx context.Context, userID int64) error
	findByRefreshTokenFn func(ctx context.Context, token string) (*models.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	if f.findByLoginFn != nil {
		return f.findByLoginFn(ctx, login)
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.findByUsernameFn != nil {
		return f.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (f *fakeUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, user)
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if f.updatePasswordFn != nil {
		return f.updatePasswordFn(ctx, id, passwordHash)
	}
	return nil
}

func (f *fakeUserRepo) UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if f.updateRefreshFn != nil {
		return f.updateRefreshFn(ctx, userID, token, expiresAt)
	}
	return nil
}

func (f *fakeUserRepo) ClearRefresh(ctx context.Context, userID int64) error {
	if f.clearRefreshFn != nil {
		return f.clearRefreshFn(ctx, userID)
	}
	return nil
}

func (f *fakeUserRepo) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	if f.findByRefreshTokenFn != nil {
		return f.findByRefreshTokenFn(ctx, token)
	}
	return nil, nil
}

type fakeEmail struct {
	welcomeTo    []string
	reminderTo   []string
	welcomeErr   error
	reminderErrs map[int64]error // by task id
}

func (f *fakeEmail) SendWelcomeEmail(email, username string) error {
	f.welcomeTo = append(f.welcomeTo, email)
	return f.welcomeErr
}

func (f *fakeEmail) SendTaskReminder(email string, task *models.Task) error {
	if err, ok := f.reminderErrs[task.ID]; ok {
		return err
	}
	f.reminderTo = append(f.reminderTo, email)
	return nil
}

type fakeTelegram struct {
	chats []int64
	err   error
}

func (f *fakeTelegram) SendTaskReminder(chatID int64, task *models.Task) error {
	if f.err != nil {
		return f.err
	}
	f.chats = append(f.chats, chatID)
	return nil
}
