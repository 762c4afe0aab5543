package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/Timmn3/Chat-GPT-4/internal/repository"
)

type DialogService struct {
	ledger *repository.Ledger
}

func NewDialogService(ledger *repository.Ledger) *DialogService {
	return &DialogService{ledger: ledger}
}

// StartNew opens a fresh dialog with the user's current mode and model and
// makes it the active one. Prior dialogs are kept untouched.
func (s *DialogService) StartNew(ctx context.Context, user *domain.User) (*domain.Dialog, error) {
	d := &domain.Dialog{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ChatMode:  user.CurrentChatMode,
		Model:     user.CurrentModel,
		StartTime: time.Now(),
		Messages:  []domain.DialogMessage{},
	}
	if err := s.ledger.CreateDialog(ctx, d); err != nil {
		return nil, fmt.Errorf("start dialog: %w", err)
	}
	id := d.ID
	user.CurrentDialogID = &id
	return d, nil
}

// Messages returns the active dialog's history, oldest first.
func (s *DialogService) Messages(ctx context.Context, userID int64) ([]domain.DialogMessage, error) {
	return s.ledger.GetDialogMessages(ctx, userID, "")
}

// AppendExchange persists one finished turn pair at the tail of the active
// dialog, after trimming the same number of leading messages the completion
// dropped, so the stored history matches what the model actually saw.
func (s *DialogService) AppendExchange(ctx context.Context, userID int64, trimmed int, msg domain.DialogMessage) error {
	messages, err := s.ledger.GetDialogMessages(ctx, userID, "")
	if err != nil {
		return err
	}
	if trimmed > len(messages) {
		trimmed = len(messages)
	}
	messages = append(messages[trimmed:], msg)
	return s.ledger.SetDialogMessages(ctx, userID, messages, "")
}

// PopLast removes and returns the most recent turn, for /retry.
// Returns nil when the dialog is empty.
func (s *DialogService) PopLast(ctx context.Context, userID int64) (*domain.DialogMessage, error) {
	messages, err := s.ledger.GetDialogMessages(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	last := messages[len(messages)-1]
	if err := s.ledger.SetDialogMessages(ctx, userID, messages[:len(messages)-1], ""); err != nil {
		return nil, err
	}
	return &last, nil
}

// IsTimedOut reports whether the user's last interaction is old enough to
// roll the session over into a fresh dialog.
func (s *DialogService) IsTimedOut(user *domain.User, timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	return time.Since(user.LastInteraction) > timeout
}
