package services

import (
	"context"
	"log"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
	"taskboard/internal/repositories"
)

// TelegramNotifier is the seam between the reminder scan and the Telegram
// channel (satisfied by *TelegramService).
type TelegramNotifier interface {
	SendTaskReminder(chatID int64, task *models.Task) error
}

type ReminderResult struct {
	Count int `json:"count"` // tasks due soon
	Sent  int `json:"sent"`  // tasks with at least one delivered notification
}

type ReminderService interface {
	SendDueReminders(ctx context.Context, userID int64) (*ReminderResult, error)
}

type reminderService struct {
	tasks    repositories.TaskRepository
	users    repositories.UserRepository
	email    EmailService
	telegram TelegramNotifier
	window   time.Duration
	now      func() time.Time
}

func NewReminderService(
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	email EmailService,
	telegram TelegramNotifier,
	window time.Duration,
) ReminderService {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &reminderService{
		tasks:    tasks,
		users:    users,
		email:    email,
		telegram: telegram,
		window:   window,
		now:      time.Now,
	}
}

// SendDueReminders scans the caller's not-completed tasks with the remind
// flag and a due date inside the window, and attempts delivery per task.
// One failing task or channel never aborts the rest; repeated calls may
// re-notify (no delivery ledger on purpose).
func (s *reminderService) SendDueReminders(ctx context.Context, userID int64) (*ReminderResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("not_found", "user not found")
	}

	due, err := s.tasks.DueSoon(ctx, userID, s.now().Add(s.window))
	if err != nil {
		return nil, err
	}

	res := &ReminderResult{Count: len(due)}
	for i := range due {
		task := &due[i]
		delivered := false

		if s.email != nil && user.Email != "" {
			if err := s.email.SendTaskReminder(user.Email, task); err != nil {
				log.Printf("[reminder][email] task=%d to=%s failed: %v", task.ID, user.Email, err)
			} else {
				delivered = true
			}
		}
		if s.telegram != nil && user.TelegramChatID != 0 {
			if err := s.telegram.SendTaskReminder(user.TelegramChatID, task); err != nil {
				log.Printf("[reminder][telegram] task=%d chat=%d failed: %v", task.ID, user.TelegramChatID, err)
			} else {
				delivered = true
			}
		}

		if delivered {
			res.Sent++
		}
	}
	return res, nil
}
