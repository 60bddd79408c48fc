package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/alexanderramin/taskhelper/internal/bot"
	"github.com/alexanderramin/taskhelper/internal/config"
	"github.com/alexanderramin/taskhelper/internal/health"
	"github.com/alexanderramin/taskhelper/internal/knowledge"
	"github.com/alexanderramin/taskhelper/internal/llm"
	"github.com/alexanderramin/taskhelper/internal/telemetry"
)

// Resolver answers a single question.
type Resolver interface {
	Resolve(ctx context.Context, q answer.Question) (answer.FinalAnswer, error)
}

// ChatBot is the chat platform adapter run by serve.
type ChatBot interface {
	health.StatusProvider
	Run(ctx context.Context) error
}

// BotFactory builds the chat adapter.
type BotFactory func(opts bot.Options, resolver bot.Resolver, logger *slog.Logger) (ChatBot, error)

// App holds the collaborators shared by all commands. Fields left nil are
// filled from the environment before the first command runs.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Document *knowledge.Document
	Keywords answer.KeywordTable
	Resolver Resolver
	Metrics  *telemetry.Metrics
	Version  string

	// LogOutput receives log lines; nil means stderr.
	LogOutput io.Writer

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	// NewBot builds the chat adapter; nil uses the Discord adapter.
	NewBot BotFactory
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// bootstrap loads configuration and wires the answer pipeline. It is a no-op
// once a Resolver is set.
func (a *App) bootstrap(ctx context.Context, envFile string) error {
	if a.Resolver != nil {
		return nil
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	a.Config = config.LoadConfig()

	if a.LogOutput == nil {
		a.LogOutput = os.Stderr
	}
	a.Logger = telemetry.NewLogger(a.LogOutput, a.Config.LogLevel, a.Config.LogFormat)

	doc, err := knowledge.Load(a.Config.KnowledgeFile, a.Config.Contacts)
	if err != nil {
		return fmt.Errorf("loading knowledge document: %w", err)
	}
	keywords, err := answer.LoadKeywordTable(a.Config.KeywordsFile, doc.Contacts())
	if err != nil {
		return fmt.Errorf("loading keyword rules: %w", err)
	}

	endpoints, err := llm.BuildEndpoints(ctx, a.Config.LLM)
	if err != nil {
		return fmt.Errorf("binding model endpoints: %w", err)
	}
	if endpoints.Primary == nil && endpoints.Backup == nil {
		a.Logger.Warn("no model credentials configured, answering from keyword rules only")
	} else if endpoints.Backup == nil {
		a.Logger.Info("no distinct backup credential configured")
	}

	a.Metrics = telemetry.NewMetrics()
	observers := llm.MultiObserver{a.Metrics}
	if a.Config.LLM.LogCalls {
		observers = append(observers, llm.NewLogObserver(a.Logger))
	}

	a.Document = doc
	a.Keywords = keywords
	a.Resolver = answer.NewResolver(answer.ResolverConfig{
		Document:  doc,
		Endpoints: endpoints,
		Querier:   llm.NewQuerier(a.Config.LLM.Timeout(), observers),
		Keywords:  &keywords,
		Observer:  a.Metrics,
	}, a.Logger)

	a.Logger.Debug("pipeline ready",
		"knowledge", doc.Source(),
		"keyword_rules", len(keywords.Rules()),
		"provider", string(a.Config.LLM.Provider),
		"model", a.Config.LLM.Model,
	)
	return nil
}

func discordBot(opts bot.Options, resolver bot.Resolver, logger *slog.Logger) (ChatBot, error) {
	b, err := bot.New(opts, resolver, logger)
	if err != nil {
		return nil, err
	}
	return b, nil
}
