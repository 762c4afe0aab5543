package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

// Completer is the slice of the completion API the chat pipeline needs.
// *OpenAIService satisfies it.
type Completer interface {
	Complete(ctx context.Context, model string, messages []ChatMessage) (string, Usage, error)
	CompleteStream(ctx context.Context, model string, messages []ChatMessage, onDelta func(content string)) (string, error)
}

// AskRequest is one logical model request: the user's new message on top of
// the dialog history, framed by the chat mode's system prompt.
type AskRequest struct {
	Model    string
	ChatMode domain.ChatMode
	Message  string

	// ImageBase64, when set, is attached to the user message for
	// vision-capable models.
	ImageBase64 string

	History []domain.DialogMessage
	Stream  bool
}

// ChatService produces answer snapshots for a request, trimming dialog
// history when the model's context window overflows. Streaming and one-shot
// completions are unified behind the same snapshot sequence: a one-shot call
// simply yields its single finished snapshot.
type ChatService struct {
	completer Completer
}

func NewChatService(completer Completer) *ChatService {
	return &ChatService{completer: completer}
}

// Ask runs the request and returns its snapshot sequence. The channel is
// closed after exactly one terminal snapshot: either a finished answer or a
// snapshot carrying the request's fatal error. Trimmed on the terminal
// snapshot reports how many leading history messages were dropped.
func (c *ChatService) Ask(ctx context.Context, req AskRequest) <-chan domain.Snapshot {
	out := make(chan domain.Snapshot)
	go func() {
		defer close(out)
		c.ask(ctx, req, out)
	}()
	return out
}

func (c *ChatService) ask(ctx context.Context, req AskRequest, out chan<- domain.Snapshot) {
	history := req.History
	trimmed := 0

	// History strictly shrinks on every retry, so the loop terminates.
	for {
		messages := buildPromptMessages(req.ChatMode, history, req.Message, req.ImageBase64)

		var answer string
		var usage Usage
		var err error

		if req.Stream {
			inputTokens := EstimatePromptTokens(messages)
			var partial strings.Builder
			answer, err = c.completer.CompleteStream(ctx, req.Model, messages, func(delta string) {
				partial.WriteString(delta)
				emit(ctx, out, domain.Snapshot{
					Status:       domain.StatusStreaming,
					Text:         partial.String(),
					InputTokens:  inputTokens,
					OutputTokens: EstimateTokens(partial.String()),
					Trimmed:      trimmed,
				})
			})
			usage = Usage{PromptTokens: inputTokens, CompletionTokens: EstimateTokens(answer)}
		} else {
			answer, usage, err = c.completer.Complete(ctx, req.Model, messages)
		}

		if err != nil {
			if errors.Is(err, domain.ErrContextTooLong) {
				if len(history) == 0 {
					emit(ctx, out, domain.Snapshot{
						Status:  domain.StatusFinished,
						Trimmed: trimmed,
						Err:     fmt.Errorf("%w: %w", domain.ErrContextOverflow, err),
					})
					return
				}
				// Drop the oldest turn and retry with the shorter history.
				history = history[1:]
				trimmed++
				continue
			}
			emit(ctx, out, domain.Snapshot{Status: domain.StatusFinished, Trimmed: trimmed, Err: err})
			return
		}

		emit(ctx, out, domain.Snapshot{
			Status:       domain.StatusFinished,
			Text:         strings.TrimSpace(answer),
			InputTokens:  usage.PromptTokens,
			OutputTokens: usage.CompletionTokens,
			Trimmed:      trimmed,
		})
		return
	}
}

func emit(ctx context.Context, out chan<- domain.Snapshot, s domain.Snapshot) {
	select {
	case out <- s:
	case <-ctx.Done():
	}
}

// buildPromptMessages frames the dialog history for the completion API:
// the mode's system prompt, then alternating user/assistant turns, then the
// new user message (with the inline image for vision models).
func buildPromptMessages(mode domain.ChatMode, history []domain.DialogMessage, message, imageBase64 string) []ChatMessage {
	messages := make([]ChatMessage, 0, 2*len(history)+2)
	if mode.PromptStart != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: mode.PromptStart})
	}

	for _, m := range history {
		messages = append(messages, ChatMessage{Role: "user", Content: m.User})
		messages = append(messages, ChatMessage{Role: "assistant", Content: m.Bot})
	}

	if imageBase64 != "" {
		messages = append(messages, ChatMessage{
			Role: "user",
			Content: []ContentPart{
				{Type: "text", Text: message},
				{Type: "image_url", ImageURL: &ImageURL{
					URL:    "data:image/jpeg;base64," + imageBase64,
					Detail: "high",
				}},
			},
		})
	} else {
		messages = append(messages, ChatMessage{Role: "user", Content: message})
	}

	return messages
}
