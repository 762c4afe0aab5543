package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

// fakeCompleter fails with ErrContextTooLong until the prompt carries at most
// maxTurns history turn pairs, then answers.
type fakeCompleter struct {
	maxTurns int
	answer   string
	deltas   []string
	calls    int
}

func historyTurns(messages []ChatMessage) int {
	n := 0
	for _, m := range messages {
		if m.Role == "assistant" {
			n++
		}
	}
	return n
}

func (f *fakeCompleter) Complete(ctx context.Context, model string, messages []ChatMessage) (string, Usage, error) {
	f.calls++
	if historyTurns(messages) > f.maxTurns {
		return "", Usage{}, domain.ErrContextTooLong
	}
	return f.answer, Usage{PromptTokens: 10, CompletionTokens: 5}, nil
}

func (f *fakeCompleter) CompleteStream(ctx context.Context, model string, messages []ChatMessage, onDelta func(string)) (string, error) {
	f.calls++
	if historyTurns(messages) > f.maxTurns {
		return "", domain.ErrContextTooLong
	}
	full := ""
	for _, d := range f.deltas {
		full += d
		onDelta(d)
	}
	return full, nil
}

func history(n int) []domain.DialogMessage {
	msgs := make([]domain.DialogMessage, n)
	for i := range msgs {
		msgs[i] = domain.DialogMessage{User: "question", Bot: "answer"}
	}
	return msgs
}

func collect(ch <-chan domain.Snapshot) []domain.Snapshot {
	var out []domain.Snapshot
	for s := range ch {
		out = append(out, s)
	}
	return out
}

func TestAsk_TrimsOldestUntilFit(t *testing.T) {
	fc := &fakeCompleter{maxTurns: 2, answer: "fits now"}
	c := NewChatService(fc)

	snaps := collect(c.Ask(context.Background(), AskRequest{
		Model:    "gpt-3.5-turbo",
		ChatMode: domain.ChatModes["assistant"],
		Message:  "hello",
		History:  history(5),
	}))

	require.Len(t, snaps, 1)
	final := snaps[0]
	require.NoError(t, final.Err)
	assert.Equal(t, domain.StatusFinished, final.Status)
	assert.Equal(t, "fits now", final.Text)
	assert.Equal(t, 3, final.Trimmed, "5 turns must shrink to 2")
	assert.Equal(t, 4, fc.calls, "3 failures plus the success")
}

func TestAsk_OverflowAfterHistoryExhausted(t *testing.T) {
	fc := &fakeCompleter{maxTurns: -1}
	c := NewChatService(fc)

	snaps := collect(c.Ask(context.Background(), AskRequest{
		Model:    "gpt-3.5-turbo",
		ChatMode: domain.ChatModes["assistant"],
		Message:  "hello",
		History:  history(3),
	}))

	require.Len(t, snaps, 1)
	final := snaps[0]
	assert.Equal(t, domain.StatusFinished, final.Status)
	assert.True(t, errors.Is(final.Err, domain.ErrContextOverflow))
	assert.Equal(t, 3, final.Trimmed)
}

func TestAsk_StreamingSnapshotSequence(t *testing.T) {
	fc := &fakeCompleter{maxTurns: 10, deltas: []string{"Hel", "lo wo", "rld"}}
	c := NewChatService(fc)

	snaps := collect(c.Ask(context.Background(), AskRequest{
		Model:    "gpt-3.5-turbo",
		ChatMode: domain.ChatModes["assistant"],
		Message:  "hello",
		Stream:   true,
	}))

	require.Len(t, snaps, 4, "three deltas plus the terminal snapshot")

	finished := 0
	for i, s := range snaps {
		if s.Status == domain.StatusFinished {
			finished++
			assert.Equal(t, len(snaps)-1, i, "finished snapshot must be last")
		}
	}
	assert.Equal(t, 1, finished)

	assert.Equal(t, "Hel", snaps[0].Text)
	assert.Equal(t, "Hello wo", snaps[1].Text)
	assert.Equal(t, "Hello world", snaps[2].Text)
	assert.Equal(t, "Hello world", snaps[3].Text)
	require.NoError(t, snaps[3].Err)
	assert.Positive(t, snaps[3].OutputTokens)
}

func TestAsk_OneShotYieldsSingleFinishedSnapshot(t *testing.T) {
	fc := &fakeCompleter{maxTurns: 10, answer: "  padded answer\n"}
	c := NewChatService(fc)

	snaps := collect(c.Ask(context.Background(), AskRequest{
		Model:    "gpt-4",
		ChatMode: domain.ChatModes["assistant"],
		Message:  "hello",
	}))

	require.Len(t, snaps, 1)
	assert.Equal(t, "padded answer", snaps[0].Text)
	assert.Equal(t, 10, snaps[0].InputTokens)
	assert.Equal(t, 5, snaps[0].OutputTokens)
}

func TestBuildPromptMessages_VisionAttachment(t *testing.T) {
	messages := buildPromptMessages(domain.ChatModes["assistant"], history(1), "what is this?", "aGVsbG8=")

	require.Len(t, messages, 4) // system, user, assistant, new user
	parts, ok := messages[3].Content.([]ContentPart)
	require.True(t, ok)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, "image_url", parts[1].Type)
	assert.Contains(t, parts[1].ImageURL.URL, "base64,aGVsbG8=")
}
