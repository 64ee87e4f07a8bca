package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
}

func dueTasks(n int) []models.Task {
	out := make([]models.Task, n)
	for i := range out {
		due := fixedNow().Add(time.Duration(i+1) * time.Hour)
		out[i] = models.Task{ID: int64(i + 1), UserID: 1, Text: "t", Remind: true, DueDate: &due}
	}
	return out
}

func TestReminderServiceWindow(t *testing.T) {
	var gotUntil time.Time
	tasks := &fakeTaskRepo{dueSoonFn: func(_ context.Context, _ int64, until time.Time) ([]models.Task, error) {
		gotUntil = until
		return nil, nil
	}}
	users := &fakeUserRepo{findByIDFn: func(_ context.Context, id int64) (*models.User, error) {
		return &models.User{ID: id, Email: "a@example.com"}, nil
	}}

	svc := &reminderService{tasks: tasks, users: users, email: &fakeEmail{}, window: 24 * time.Hour, now: fixedNow}
	res, err := svc.SendDueReminders(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, fixedNow().Add(24*time.Hour), gotUntil)
}

func TestReminderServiceUnknownUser(t *testing.T) {
	svc := &reminderService{tasks: &fakeTaskRepo{}, users: &fakeUserRepo{}, window: time.Hour, now: fixedNow}
	_, err := svc.SendDueReminders(context.Background(), 42)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestReminderServiceFanOut(t *testing.T) {
	tasks := &fakeTaskRepo{dueSoonFn: func(_ context.Context, _ int64, _ time.Time) ([]models.Task, error) {
		return dueTasks(3), nil
	}}
	users := &fakeUserRepo{findByIDFn: func(_ context.Context, id int64) (*models.User, error) {
		return &models.User{ID: id, Email: "a@example.com", TelegramChatID: 77}, nil
	}}

	t.Run("one failing channel does not abort the scan", func(t *testing.T) {
		email := &fakeEmail{reminderErrs: map[int64]error{2: errors.New("smtp down")}}
		tg := &fakeTelegram{}
		svc := &reminderService{tasks: tasks, users: users, email: email, telegram: tg, window: time.Hour, now: fixedNow}

		res, err := svc.SendDueReminders(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)
		// telegram still covers the task whose email failed
		assert.Equal(t, 3, res.Sent)
		assert.Len(t, email.reminderTo, 2)
		assert.Len(t, tg.chats, 3)
	})

	t.Run("both channels failing still counts the task", func(t *testing.T) {
		email := &fakeEmail{reminderErrs: map[int64]error{
			1: errors.New("smtp down"), 2: errors.New("smtp down"), 3: errors.New("smtp down"),
		}}
		tg := &fakeTelegram{err: errors.New("telegram down")}
		svc := &reminderService{tasks: tasks, users: users, email: email, telegram: tg, window: time.Hour, now: fixedNow}

		res, err := svc.SendDueReminders(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)
		assert.Equal(t, 0, res.Sent)
	})

	t.Run("no telegram chat means email only", func(t *testing.T) {
		emailOnly := &fakeUserRepo{findByIDFn: func(_ context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Email: "a@example.com"}, nil
		}}
		email := &fakeEmail{}
		tg := &fakeTelegram{}
		svc := &reminderService{tasks: tasks, users: emailOnly, email: email, telegram: tg, window: time.Hour, now: fixedNow}

		res, err := svc.SendDueReminders(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Sent)
		assert.Empty(t, tg.chats)
	})

	t.Run("no channels at all", func(t *testing.T) {
		noChannels := &fakeUserRepo{findByIDFn: func(_ context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id}, nil
		}}
		svc := &reminderService{tasks: tasks, users: noChannels, email: &fakeEmail{}, window: time.Hour, now: fixedNow}

		res, err := svc.SendDueReminders(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)
		assert.Equal(t, 0, res.Sent)
	})
}
