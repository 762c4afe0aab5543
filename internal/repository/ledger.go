package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

// Ledger is the persistence layer for user profiles, dialogs and usage
// counters. Counter updates are single-statement upserts so each field update
// is atomic on its own; request-level consistency is the gate's job.
type Ledger struct {
	db *pgxpool.Pool
}

func NewLedger(db *pgxpool.Pool) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := l.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (l *Ledger) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := l.db.Exec(ctx, `
		INSERT INTO users (id, chat_id, username, first_name, last_name,
			first_seen, last_interaction, current_chat_mode, current_model)
		VALUES ($1, $2, $3, $4, $5, now(), now(), $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		u.ID, u.ChatID, u.Username, u.FirstName, u.LastName,
		u.CurrentChatMode, u.CurrentModel,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (l *Ledger) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var (
		u          domain.User
		usedTokens []byte
	)
	err := l.db.QueryRow(ctx, `
		SELECT id, chat_id, username, first_name, last_name,
			first_seen, last_interaction, current_dialog_id,
			current_chat_mode, current_model, used_tokens,
			n_generated_images, n_transcribed_seconds
		FROM users WHERE id = $1`, userID,
	).Scan(
		&u.ID, &u.ChatID, &u.Username, &u.FirstName, &u.LastName,
		&u.FirstSeen, &u.LastInteraction, &u.CurrentDialogID,
		&u.CurrentChatMode, &u.CurrentModel, &usedTokens,
		&u.NGeneratedImages, &u.NTranscribedSeconds,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.UsedTokens = map[string]domain.TokenUsage{}
	if len(usedTokens) > 0 {
		if err := json.Unmarshal(usedTokens, &u.UsedTokens); err != nil {
			return nil, fmt.Errorf("decode used tokens: %w", err)
		}
	}
	return &u, nil
}

func (l *Ledger) SetLastInteraction(ctx context.Context, userID int64, t time.Time) error {
	_, err := l.db.Exec(ctx,
		`UPDATE users SET last_interaction = $2 WHERE id = $1`, userID, t)
	return err
}

func (l *Ledger) SetChatMode(ctx context.Context, userID int64, mode string) error {
	_, err := l.db.Exec(ctx,
		`UPDATE users SET current_chat_mode = $2 WHERE id = $1`, userID, mode)
	return err
}

func (l *Ledger) SetModel(ctx context.Context, userID int64, model string) error {
	_, err := l.db.Exec(ctx,
		`UPDATE users SET current_model = $2 WHERE id = $1`, userID, model)
	return err
}

// CreateDialog inserts a fresh dialog and makes it the user's current one.
func (l *Ledger) CreateDialog(ctx context.Context, d *domain.Dialog) error {
	messages, err := json.Marshal(d.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO dialogs (id, user_id, chat_mode, model, start_time, messages)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.UserID, d.ChatMode, d.Model, d.StartTime, messages,
	)
	if err != nil {
		return fmt.Errorf("insert dialog: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET current_dialog_id = $2 WHERE id = $1`, d.UserID, d.ID)
	if err != nil {
		return fmt.Errorf("set current dialog: %w", err)
	}

	return tx.Commit(ctx)
}

// GetDialogMessages returns the ordered message history of a dialog.
// An empty dialogID means the user's current dialog.
func (l *Ledger) GetDialogMessages(ctx context.Context, userID int64, dialogID string) ([]domain.DialogMessage, error) {
	var raw []byte
	var err error
	if dialogID == "" {
		err = l.db.QueryRow(ctx, `
			SELECT d.messages FROM dialogs d
			JOIN users u ON u.current_dialog_id = d.id
			WHERE u.id = $1 AND d.user_id = $1`, userID,
		).Scan(&raw)
	} else {
		err = l.db.QueryRow(ctx,
			`SELECT messages FROM dialogs WHERE id = $1 AND user_id = $2`,
			dialogID, userID,
		).Scan(&raw)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDialogNotFound
		}
		return nil, fmt.Errorf("get dialog messages: %w", err)
	}

	var messages []domain.DialogMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}

// SetDialogMessages replaces the message history of a dialog.
// An empty dialogID means the user's current dialog.
func (l *Ledger) SetDialogMessages(ctx context.Context, userID int64, messages []domain.DialogMessage, dialogID string) error {
	if messages == nil {
		messages = []domain.DialogMessage{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}

	if dialogID == "" {
		_, err = l.db.Exec(ctx, `
			UPDATE dialogs d SET messages = $2
			FROM users u
			WHERE u.id = $1 AND d.id = u.current_dialog_id AND d.user_id = $1`,
			userID, raw)
	} else {
		_, err = l.db.Exec(ctx,
			`UPDATE dialogs SET messages = $3 WHERE id = $1 AND user_id = $2`,
			dialogID, userID, raw)
	}
	if err != nil {
		return fmt.Errorf("set dialog messages: %w", err)
	}
	return nil
}

// AddUsedTokens bumps the per-model token counters in one statement.
// Last writer wins per model key; overlapping writes for the same user are
// prevented upstream by the single-flight gate.
func (l *Ledger) AddUsedTokens(ctx context.Context, userID int64, model string, inputTokens, outputTokens int) error {
	_, err := l.db.Exec(ctx, `
		UPDATE users SET used_tokens = jsonb_set(used_tokens, ARRAY[$2],
			jsonb_build_object(
				'n_input_tokens',
				COALESCE((used_tokens -> $2 ->> 'n_input_tokens')::bigint, 0) + $3,
				'n_output_tokens',
				COALESCE((used_tokens -> $2 ->> 'n_output_tokens')::bigint, 0) + $4
			), true)
		WHERE id = $1`,
		userID, model, inputTokens, outputTokens,
	)
	if err != nil {
		return fmt.Errorf("add used tokens: %w", err)
	}
	return nil
}

func (l *Ledger) AddGeneratedImages(ctx context.Context, userID int64, n int) error {
	_, err := l.db.Exec(ctx,
		`UPDATE users SET n_generated_images = n_generated_images + $2 WHERE id = $1`,
		userID, n)
	return err
}

func (l *Ledger) AddTranscribedSeconds(ctx context.Context, userID int64, seconds float64) error {
	_, err := l.db.Exec(ctx,
		`UPDATE users SET n_transcribed_seconds = n_transcribed_seconds + $2 WHERE id = $1`,
		userID, seconds)
	return err
}
