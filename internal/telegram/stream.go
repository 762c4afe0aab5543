package telegram

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Timmn3/Chat-GPT-4/internal/config"
	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

// Editor pushes one incremental edit of the outbound answer message.
// formatted asks for the chat mode's parse mode; a plain-text push is the
// degrade path when formatting is rejected by the transport.
type Editor interface {
	Edit(ctx context.Context, text string, formatted bool) error
}

// Reconciler turns a snapshot sequence into a bounded series of message
// edits: snapshots are truncated to the platform ceiling, intermediate edits
// are suppressed until the answer grew by at least the threshold, and a short
// pause follows every pushed edit to stay under transport rate limits.
type Reconciler struct {
	editor   Editor
	maxLen   int
	minDelta int
	pause    time.Duration
}

func NewReconciler(editor Editor) *Reconciler {
	return &Reconciler{
		editor:   editor,
		maxLen:   config.MaxTelegramMessageLen,
		minDelta: config.StreamEditThreshold,
		pause:    config.StreamEditPause,
	}
}

// Run consumes snapshots until the terminal one and returns it. The terminal
// snapshot is always pushed (an identical-content push is swallowed by the
// not-modified check, keeping the terminal edit idempotent). Cancellation is
// observed at the channel receive and at the inter-edit pause; the last seen
// snapshot is returned alongside ctx.Err() so the caller can account partial
// usage.
func (r *Reconciler) Run(ctx context.Context, snapshots <-chan domain.Snapshot) (domain.Snapshot, error) {
	var last domain.Snapshot
	var pushed string

	for {
		var snap domain.Snapshot
		var ok bool
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case snap, ok = <-snapshots:
			if !ok {
				// Producer stopped without a terminal snapshot, which only
				// happens when its context was cancelled.
				return last, ctx.Err()
			}
		}
		last = snap

		if snap.Err != nil {
			return snap, snap.Err
		}

		text := truncateRunes(snap.Text, r.maxLen)
		final := snap.Status == domain.StatusFinished

		if !final && utf8.RuneCountInString(text)-utf8.RuneCountInString(pushed) < r.minDelta {
			continue
		}
		if text == "" {
			if final {
				return snap, nil
			}
			continue
		}

		if err := r.push(ctx, text); err != nil {
			return snap, err
		}
		pushed = text

		if final {
			return snap, nil
		}

		select {
		case <-time.After(r.pause):
		case <-ctx.Done():
			return last, ctx.Err()
		}
	}
}

// push attempts a formatted edit and degrades to plain text once if the
// transport rejects the formatting. Not-modified conflicts are no-ops.
func (r *Reconciler) push(ctx context.Context, text string) error {
	err := r.editor.Edit(ctx, text, true)
	if err == nil || IsNotModified(err) {
		return nil
	}

	err = r.editor.Edit(ctx, text, false)
	if err == nil || IsNotModified(err) {
		return nil
	}
	return err
}

// IsNotModified reports the Telegram "message is not modified" edit conflict,
// raised when the pushed content is identical to the current one.
func IsNotModified(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "message is not modified")
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
