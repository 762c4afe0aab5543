package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

type editCall struct {
	text      string
	formatted bool
}

// fakeEditor records pushed edits and can fail a configurable number of
// formatted pushes.
type fakeEditor struct {
	calls           []editCall
	failFormatted   bool
	notModifiedFrom string
}

func (e *fakeEditor) Edit(ctx context.Context, text string, formatted bool) error {
	e.calls = append(e.calls, editCall{text: text, formatted: formatted})
	if e.notModifiedFrom != "" && text == e.notModifiedFrom {
		return errors.New("Bad Request: message is not modified")
	}
	if formatted && e.failFormatted {
		return errors.New("Bad Request: can't parse entities")
	}
	return nil
}

func testReconciler(e Editor) *Reconciler {
	r := NewReconciler(e)
	r.pause = 0
	return r
}

func feed(snaps ...domain.Snapshot) <-chan domain.Snapshot {
	ch := make(chan domain.Snapshot, len(snaps))
	for _, s := range snaps {
		ch <- s
	}
	close(ch)
	return ch
}

func streaming(text string) domain.Snapshot {
	return domain.Snapshot{Status: domain.StatusStreaming, Text: text}
}

func finished(text string) domain.Snapshot {
	return domain.Snapshot{Status: domain.StatusFinished, Text: text, InputTokens: 10, OutputTokens: 7}
}

func TestRun_ThrottlesSmallGrowth(t *testing.T) {
	e := &fakeEditor{}
	r := testReconciler(e)

	// Growth below 100 runes per snapshot: only the terminal edit goes out.
	final, err := r.Run(context.Background(), feed(
		streaming(strings.Repeat("a", 20)),
		streaming(strings.Repeat("a", 50)),
		streaming(strings.Repeat("a", 90)),
		finished(strings.Repeat("a", 95)),
	))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinished, final.Status)
	require.Len(t, e.calls, 1, "strictly fewer edits than snapshots")
	assert.Equal(t, strings.Repeat("a", 95), e.calls[0].text)
}

func TestRun_PushesOnThresholdGrowthAndTerminal(t *testing.T) {
	e := &fakeEditor{}
	r := testReconciler(e)

	_, err := r.Run(context.Background(), feed(
		streaming(strings.Repeat("a", 120)), // pushed: grew past threshold
		streaming(strings.Repeat("a", 150)), // suppressed
		streaming(strings.Repeat("a", 260)), // pushed
		finished(strings.Repeat("a", 300)),  // terminal always pushed
	))
	require.NoError(t, err)
	require.Len(t, e.calls, 3)
}

func TestRun_TruncatesToPlatformCeiling(t *testing.T) {
	e := &fakeEditor{}
	r := testReconciler(e)

	long := strings.Repeat("x", 5000)
	final, err := r.Run(context.Background(), feed(finished(long)))
	require.NoError(t, err)
	require.Len(t, e.calls, 1)
	assert.Equal(t, 4096, utf8.RuneCountInString(e.calls[0].text))
	assert.Equal(t, long, final.Text, "snapshot text itself is not mutated")
}

func TestRun_SwallowsNotModifiedConflict(t *testing.T) {
	text := strings.Repeat("b", 150)
	e := &fakeEditor{notModifiedFrom: text}
	r := testReconciler(e)

	// Terminal push repeats already-pushed content; transport's
	// not-modified conflict must be invisible to the caller.
	_, err := r.Run(context.Background(), feed(streaming(text), finished(text)))
	require.NoError(t, err)
	require.Len(t, e.calls, 2)
}

func TestRun_DegradesToPlainTextOnEditError(t *testing.T) {
	e := &fakeEditor{failFormatted: true}
	r := testReconciler(e)

	_, err := r.Run(context.Background(), feed(finished("*broken markdown")))
	require.NoError(t, err)
	require.Len(t, e.calls, 2)
	assert.True(t, e.calls[0].formatted)
	assert.False(t, e.calls[1].formatted)
}

func TestRun_ReturnsTerminalError(t *testing.T) {
	e := &fakeEditor{}
	r := testReconciler(e)

	boom := domain.ErrContextOverflow
	_, err := r.Run(context.Background(), feed(domain.Snapshot{
		Status: domain.StatusFinished,
		Err:    boom,
	}))
	assert.True(t, errors.Is(err, domain.ErrContextOverflow))
	assert.Empty(t, e.calls)
}

// cancelingEditor cancels the request on its first push, simulating /cancel
// arriving mid-stream.
type cancelingEditor struct {
	cancel context.CancelFunc
}

func (e *cancelingEditor) Edit(ctx context.Context, text string, formatted bool) error {
	e.cancel()
	return nil
}

func TestRun_CancellationReturnsLastSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewReconciler(&cancelingEditor{cancel: cancel})

	ch := make(chan domain.Snapshot, 1)
	ch <- streaming(strings.Repeat("c", 200))

	// Cancellation lands during the first push and is observed at the
	// inter-edit pause, the next suspension point.
	last, err := r.Run(ctx, ch)
	assert.True(t, errors.Is(err, context.Canceled))
	// Partial usage from the last observed snapshot stays available.
	assert.Equal(t, strings.Repeat("c", 200), last.Text)
}

func TestIsNotModified(t *testing.T) {
	assert.True(t, IsNotModified(errors.New("Bad Request: message is not modified")))
	assert.False(t, IsNotModified(errors.New("Bad Request: chat not found")))
	assert.False(t, IsNotModified(nil))
}
