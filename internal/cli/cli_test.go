package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/alexanderramin/taskhelper/internal/bot"
	"github.com/alexanderramin/taskhelper/internal/config"
	"github.com/alexanderramin/taskhelper/internal/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testApp(t *testing.T) *App {
	t.Helper()
	contacts := knowledge.Contacts{SupportChannel: "<#support>", Moderators: []string{"<@mod>"}}
	doc, err := knowledge.New("# Rules\n## Verification\nPost your profile link.", contacts)
	require.NoError(t, err)
	keywords := answer.DefaultKeywordTable(contacts)
	logger := quietLogger()

	return &App{
		Config:   config.DefaultConfig(),
		Logger:   logger,
		Document: doc,
		Keywords: keywords,
		Resolver: answer.NewResolver(answer.ResolverConfig{Document: doc, Keywords: &keywords}, logger),
		Version:  "test",
	}
}

func execute(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(out.String()), err
}

func TestAsk_WithArgument(t *testing.T) {
	out, err := execute(t, testApp(t), "", "ask", "how do I verify?")
	require.NoError(t, err)

	assert.Contains(t, out, "Verification")
	assert.Contains(t, out, "● KEYWORD RULE")
	assert.NotContains(t, out, "SKIPPED STAGES")
}

func TestAsk_FromStdinWithTrace(t *testing.T) {
	out, err := execute(t, testApp(t), "what's the weather?\n", "ask", "--trace")
	require.NoError(t, err)

	assert.Contains(t, out, "● STATIC FALLBACK")
	assert.Contains(t, out, "<@mod>")
	assert.Contains(t, out, "SKIPPED STAGES")
	assert.Contains(t, out, "not_configured")
	assert.Contains(t, out, "no_match")
}

func TestAsk_EmptyQuestion(t *testing.T) {
	_, err := execute(t, testApp(t), "   \n", "ask")
	assert.ErrorIs(t, err, errEmptyQuestion)
}

func TestAsk_AbandonedReturnsError(t *testing.T) {
	app := testApp(t)
	app.Resolver = resolverFunc(func(context.Context, answer.Question) (answer.FinalAnswer, error) {
		return answer.FinalAnswer{}, answer.ErrAbandoned
	})

	out, err := execute(t, app, "", "ask", "anything")
	assert.ErrorIs(t, err, answer.ErrAbandoned)
	assert.Empty(t, out)
}

func TestRules(t *testing.T) {
	out, err := execute(t, testApp(t), "", "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "KNOWLEDGE")
	assert.Contains(t, out, "Verification")
	assert.Contains(t, out, "KEYWORD RULES")
	assert.Contains(t, out, "<#support>")

	out, err = execute(t, testApp(t), "", "rules", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "# Rules\n## Verification\nPost your profile link.\n", out)
}

func TestBootstrap_FromEnvFile(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "GEMINI_BACKUP_API_KEY", "TASKHELPER_LLM_PROVIDER", "TASKHELPER_KNOWLEDGE_FILE", "TASKHELPER_KEYWORDS_FILE", "TASKHELPER_MODERATORS"} {
		t.Setenv(k, "")
	}
	t.Setenv("TASKHELPER_SUPPORT_CHANNEL", "")
	require.NoError(t, os.Unsetenv("TASKHELPER_SUPPORT_CHANNEL"))

	envFile := filepath.Join(t.TempDir(), "bot.env")
	require.NoError(t, os.WriteFile(envFile, []byte("TASKHELPER_SUPPORT_CHANNEL=555\n"), 0o644))

	app := &App{LogOutput: io.Discard}
	out, err := execute(t, app, "", "--env-file="+envFile, "ask", "when is the payout?")
	require.NoError(t, err)

	assert.Contains(t, out, "● KEYWORD RULE")
	require.NotNil(t, app.Metrics)
	assert.Equal(t, "<#555>", app.Document.Contacts().SupportChannel)
	assert.Equal(t, "embedded", app.Document.Source())
}

func TestBootstrap_MissingEnvFile(t *testing.T) {
	app := &App{LogOutput: io.Discard}
	_, err := execute(t, app, "", "--env-file="+filepath.Join(t.TempDir(), "nope.env"), "rules")
	assert.Error(t, err)
}

func TestServe_MissingToken(t *testing.T) {
	_, err := execute(t, testApp(t), "", "serve")
	assert.ErrorIs(t, err, config.ErrMissingDiscordToken)
}

type resolverFunc func(ctx context.Context, q answer.Question) (answer.FinalAnswer, error)

func (f resolverFunc) Resolve(ctx context.Context, q answer.Question) (answer.FinalAnswer, error) {
	return f(ctx, q)
}

type fakeBot struct {
	started chan struct{}
	runErr  error
	opts    bot.Options
}

func newFakeBot(runErr error) *fakeBot {
	return &fakeBot{started: make(chan struct{}), runErr: runErr}
}

func (f *fakeBot) Run(ctx context.Context) error {
	close(f.started)
	if f.runErr != nil {
		return f.runErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeBot) Ready() bool            { return true }
func (f *fakeBot) GuildCount() int        { return 1 }
func (f *fakeBot) MemberCount() int       { return 10 }
func (f *fakeBot) Latency() time.Duration { return time.Millisecond }

func requireListener(t *testing.T) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listener unavailable: %v", err)
	}
	_ = ln.Close()
}

func TestServe_RunsUntilCancelled(t *testing.T) {
	requireListener(t)
	app := testApp(t)
	app.Config.Port = 0
	app.Config.DiscordToken = "token"
	app.Config.GuildID = "guild"
	fb := newFakeBot(nil)
	app.NewBot = func(opts bot.Options, _ bot.Resolver, _ *slog.Logger) (ChatBot, error) {
		fb.opts = opts
		return fb, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx) }()

	select {
	case <-fb.started:
	case <-time.After(2 * time.Second):
		t.Fatal("bot was not started")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
	assert.Equal(t, "token", fb.opts.Token)
	assert.Equal(t, "guild", fb.opts.GuildID)
	assert.Equal(t, "test", fb.opts.Identity.Version)
}

func TestServe_BotFailureStopsEverything(t *testing.T) {
	requireListener(t)
	app := testApp(t)
	app.Config.Port = 0
	boom := errors.New("gateway rejected token")
	app.NewBot = func(bot.Options, bot.Resolver, *slog.Logger) (ChatBot, error) {
		return newFakeBot(boom), nil
	}

	done := make(chan error, 1)
	go func() { done <- app.serve(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
}

func TestServe_BotConstructionError(t *testing.T) {
	app := testApp(t)
	boom := errors.New("bad token format")
	app.NewBot = func(bot.Options, bot.Resolver, *slog.Logger) (ChatBot, error) {
		return nil, boom
	}

	assert.ErrorIs(t, app.serve(context.Background()), boom)
}
