package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Timmn3/Chat-GPT-4/internal/config"
	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/Timmn3/Chat-GPT-4/internal/repository"
)

type UserService struct {
	ledger *repository.Ledger
}

func NewUserService(ledger *repository.Ledger) *UserService {
	return &UserService{ledger: ledger}
}

// RegisterIfAbsent creates the user record with defaults on first contact and
// returns the current profile. Existing users are returned as-is.
func (s *UserService) RegisterIfAbsent(ctx context.Context, userID, chatID int64, username, firstName, lastName string) (*domain.User, error) {
	exists, err := s.ledger.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		u := &domain.User{
			ID:              userID,
			ChatID:          chatID,
			Username:        username,
			FirstName:       firstName,
			LastName:        lastName,
			CurrentChatMode: config.DefaultChatMode,
			CurrentModel:    config.DefaultModel,
		}
		if err := s.ledger.CreateUser(ctx, u); err != nil {
			return nil, err
		}
	}
	return s.ledger.GetUser(ctx, userID)
}

func (s *UserService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	return s.ledger.GetUser(ctx, userID)
}

// Touch records the user's last interaction time.
func (s *UserService) Touch(ctx context.Context, userID int64) error {
	return s.ledger.SetLastInteraction(ctx, userID, time.Now())
}

func (s *UserService) SetChatMode(ctx context.Context, userID int64, mode string) error {
	if _, err := domain.GetChatMode(mode); err != nil {
		return err
	}
	return s.ledger.SetChatMode(ctx, userID, mode)
}

func (s *UserService) SetModel(ctx context.Context, userID int64, model string) error {
	if _, err := domain.GetModel(model); err != nil {
		return err
	}
	return s.ledger.SetModel(ctx, userID, model)
}

// AddUsage bumps the per-model token counters. Called exactly once per
// finished request, and once with partial counts on cancellation.
func (s *UserService) AddUsage(ctx context.Context, userID int64, model string, inputTokens, outputTokens int) error {
	if inputTokens == 0 && outputTokens == 0 {
		return nil
	}
	if err := s.ledger.AddUsedTokens(ctx, userID, model, inputTokens, outputTokens); err != nil {
		return fmt.Errorf("add usage: %w", err)
	}
	return nil
}

func (s *UserService) AddGeneratedImages(ctx context.Context, userID int64, n int) error {
	return s.ledger.AddGeneratedImages(ctx, userID, n)
}

func (s *UserService) AddTranscribedSeconds(ctx context.Context, userID int64, seconds float64) error {
	return s.ledger.AddTranscribedSeconds(ctx, userID, seconds)
}
