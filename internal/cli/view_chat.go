package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/alexanderramin/taskhelper/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxChatMessages bounds the scrollback kept by the console.
const maxChatMessages = 200

// answerMsg carries a finished resolution back into the update loop.
type answerMsg struct {
	final answer.FinalAnswer
	err   error
}

// chatView is the interactive console. Each submitted question is resolved
// independently; the view keeps only rendered scrollback.
type chatView struct {
	ctx      context.Context
	cancel   context.CancelFunc
	resolver Resolver
	trace    bool

	input   textinput.Model
	spinner spinner.Model

	busy     bool
	quitting bool
	messages []string
}

func newChatView(ctx context.Context, resolver Resolver, trace bool) *chatView {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 500
	ti.Placeholder = "How do I get verified?"

	return &chatView{
		ctx:      ctx,
		cancel:   cancel,
		resolver: resolver,
		trace:    trace,
		input:    ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
		messages: []string{formatter.FormatChatWelcome()},
	}
}

func (v *chatView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return v.quit()
		case tea.KeyEnter:
			if v.busy {
				return v, nil
			}
			input := strings.TrimSpace(v.input.Value())
			v.input.Reset()
			if input == "" {
				return v, nil
			}
			return v.handleInput(input)
		}

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case answerMsg:
		v.busy = false
		switch {
		case errors.Is(msg.err, answer.ErrAbandoned):
		case msg.err != nil:
			v.appendMessage(formatter.StyleRed.Render("  error: " + msg.err.Error()))
		default:
			v.appendMessage(formatter.FormatAnswer(msg.final, v.trace))
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *chatView) View() string {
	if v.quitting {
		return ""
	}

	var b strings.Builder
	for _, msg := range v.messages {
		b.WriteString(msg)
		b.WriteString("\n")
	}

	if v.busy {
		b.WriteString("  " + v.spinner.View() + formatter.Dim(" Thinking..."))
		return b.String()
	}

	b.WriteString(formatter.StylePurple.Render("ask") + formatter.Dim("> "))
	b.WriteString(v.input.View())
	return b.String()
}

func (v *chatView) handleInput(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/quit", "/exit", "/q", "quit", "exit":
		return v.quit()
	case "/clear":
		v.messages = []string{formatter.FormatChatWelcome()}
		return v, nil
	}

	v.appendMessage(formatter.Dim("You: ") + input)
	v.busy = true
	return v, tea.Batch(v.spinner.Tick, v.resolve(input))
}

func (v *chatView) resolve(question string) tea.Cmd {
	ctx := v.ctx
	resolver := v.resolver
	return func() tea.Msg {
		final, err := resolver.Resolve(ctx, answer.NewQuestion(question, cliRequester))
		return answerMsg{final: final, err: err}
	}
}

func (v *chatView) quit() (tea.Model, tea.Cmd) {
	v.quitting = true
	v.cancel()
	return v, tea.Quit
}

func (v *chatView) appendMessage(msg string) {
	v.messages = append(v.messages, msg)
	if over := len(v.messages) - maxChatMessages; over > 0 {
		v.messages = append([]string(nil), v.messages[over:]...)
	}
}
