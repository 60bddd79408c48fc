package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/alexanderramin/taskhelper/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatDriver(t *testing.T, r Resolver) (*teatest.Driver, *chatView) {
	t.Helper()
	view := newChatView(context.Background(), r, false)
	d := teatest.New(t, view, teatest.WithSize(100, 40), teatest.WithCmdTimeout(50*time.Millisecond))
	d.DrainInit()
	return d, view
}

func TestChatView_AnswersEachQuestion(t *testing.T) {
	var asked []string
	r := resolverFunc(func(_ context.Context, q answer.Question) (answer.FinalAnswer, error) {
		asked = append(asked, q.Text)
		return answer.FinalAnswer{Text: "Answer to " + q.Text, Source: answer.SourcePrimaryModel}, nil
	})
	d, view := newChatDriver(t, r)

	d.Submit("first question")
	d.Submit("second question")

	out := stripANSI(d.View())
	assert.Contains(t, out, "You: first question")
	assert.Contains(t, out, "Answer to first question")
	assert.Contains(t, out, "Answer to second question")
	assert.Contains(t, out, "● PRIMARY MODEL")
	assert.Equal(t, []string{"first question", "second question"}, asked)
	assert.False(t, view.busy)
}

func TestChatView_IgnoresBlankInputAndBusyEnter(t *testing.T) {
	calls := 0
	r := resolverFunc(func(context.Context, answer.Question) (answer.FinalAnswer, error) {
		calls++
		return answer.FinalAnswer{Text: "ok answer", Source: answer.SourceKeywordRule}, nil
	})
	d, view := newChatDriver(t, r)

	d.Submit("   ")
	assert.Zero(t, calls)

	view.busy = true
	d.Submit("while busy")
	assert.Zero(t, calls)
	assert.Contains(t, stripANSI(d.View()), "Thinking...")
}

func TestChatView_ErrorsAndAbandonment(t *testing.T) {
	results := []error{errors.New("boom"), fmt.Errorf("%w: %w", answer.ErrAbandoned, context.Canceled)}
	r := resolverFunc(func(context.Context, answer.Question) (answer.FinalAnswer, error) {
		err := results[0]
		results = results[1:]
		return answer.FinalAnswer{}, err
	})
	d, view := newChatDriver(t, r)

	d.Submit("q1")
	assert.Contains(t, stripANSI(d.View()), "error: boom")

	before := len(view.messages)
	d.Submit("q2")
	assert.Equal(t, before+1, len(view.messages), "only the question is added")
}

func TestChatView_Clear(t *testing.T) {
	r := resolverFunc(func(_ context.Context, q answer.Question) (answer.FinalAnswer, error) {
		return answer.FinalAnswer{Text: "reply", Source: answer.SourceKeywordRule}, nil
	})
	d, view := newChatDriver(t, r)

	d.Submit("hello")
	require.Greater(t, len(view.messages), 1)

	d.Submit("/clear")
	assert.Len(t, view.messages, 1)
	assert.NotContains(t, stripANSI(d.View()), "hello")
}

func TestChatView_QuitCancelsContext(t *testing.T) {
	tests := []struct {
		name string
		quit func(d *teatest.Driver)
	}{
		{"slash", func(d *teatest.Driver) { d.Submit("/quit") }},
		{"esc", func(d *teatest.Driver) { d.PressEsc() }},
		{"ctrl+c", func(d *teatest.Driver) { d.PressCtrlC() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, view := newChatDriver(t, resolverFunc(func(context.Context, answer.Question) (answer.FinalAnswer, error) {
				return answer.FinalAnswer{}, nil
			}))

			tt.quit(d)

			assert.True(t, d.Quitting)
			assert.Empty(t, d.View())
			assert.ErrorIs(t, view.ctx.Err(), context.Canceled)
		})
	}
}

func TestChatView_ScrollbackIsBounded(t *testing.T) {
	view := newChatView(context.Background(), nil, false)
	for i := 0; i < maxChatMessages+25; i++ {
		view.appendMessage(fmt.Sprintf("line %d", i))
	}
	assert.Len(t, view.messages, maxChatMessages)
	assert.Equal(t, fmt.Sprintf("line %d", maxChatMessages+24), view.messages[maxChatMessages-1])
}
