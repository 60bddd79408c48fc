// Package bot connects the answer pipeline to Discord slash commands.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sethvargo/go-retry"
)

const (
	reconnectBase = time.Second
	reconnectCap  = time.Minute
)

// Options configures a Bot.
type Options struct {
	Token    string
	GuildID  string // empty registers commands globally
	Identity Identity
}

type gateway interface {
	Open() error
	Close() error
	HeartbeatLatency() time.Duration
}

type commandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Bot owns the Discord session. It implements health.StatusProvider.
type Bot struct {
	gateway   gateway
	registrar commandRegistrar
	client    InteractionClient
	handler   *Handler
	guildID   string
	retryBase time.Duration
	started   time.Time
	logger    *slog.Logger

	ready atomic.Bool

	mu       sync.RWMutex
	guilds   map[string]int // guild id -> member count
	lifetime context.Context
}

// New creates a Bot with a discordgo session. The session is not opened
// until Run.
func New(opts Options, resolver Resolver, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := newBot(session, session, session, opts, resolver, logger)

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) { b.onReady(r) })
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) { b.onResumed() })
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) { b.onDisconnect() })
	session.AddHandler(func(_ *discordgo.Session, g *discordgo.GuildCreate) { b.onGuildCreate(g.Guild) })
	session.AddHandler(func(_ *discordgo.Session, g *discordgo.GuildDelete) { b.onGuildDelete(g) })
	session.AddHandler(func(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
		b.handler.Handle(b.context(), b.client, ic.Interaction)
	})

	return b, nil
}

func newBot(gw gateway, reg commandRegistrar, client InteractionClient, opts Options, resolver Resolver, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bot{
		gateway:   gw,
		registrar: reg,
		client:    client,
		guildID:   opts.GuildID,
		retryBase: reconnectBase,
		started:   time.Now(),
		logger:    logger,
		guilds:    make(map[string]int),
		lifetime:  context.Background(),
	}
	b.handler = NewHandler(resolver, opts.Identity, b.infoStats, logger)
	return b
}

// Run opens the session, retrying with capped exponential backoff, and keeps
// it open until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.lifetime = ctx
	b.mu.Unlock()

	backoff := retry.NewExponential(b.retryBase)
	backoff = retry.WithCappedDuration(reconnectCap, backoff)
	backoff = retry.WithJitterPercent(10, backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := b.gateway.Open(); err != nil {
			b.logger.Warn("discord session open failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("opening discord session: %w", err)
	}
	b.logger.Info("discord session opened", "attempts", attempt)

	<-ctx.Done()
	b.ready.Store(false)
	if err := b.gateway.Close(); err != nil {
		return fmt.Errorf("closing discord session: %w", err)
	}
	b.logger.Info("discord session closed")
	return nil
}

func (b *Bot) context() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lifetime
}

func (b *Bot) onReady(r *discordgo.Ready) {
	b.mu.Lock()
	for _, g := range r.Guilds {
		if _, ok := b.guilds[g.ID]; !ok {
			b.guilds[g.ID] = g.MemberCount
		}
	}
	count := len(b.guilds)
	b.mu.Unlock()

	b.ready.Store(true)
	name := ""
	if r.User != nil {
		name = r.User.String()
	}
	b.logger.Info("connected to discord", "user", name, "servers", count)

	appID := ""
	switch {
	case r.Application != nil && r.Application.ID != "":
		appID = r.Application.ID
	case r.User != nil:
		appID = r.User.ID
	}
	synced, err := b.registrar.ApplicationCommandBulkOverwrite(appID, b.guildID, Commands(), discordgo.WithContext(b.context()))
	if err != nil {
		b.logger.Error("syncing commands failed", "error", err)
		return
	}
	b.logger.Info("synced commands", "count", len(synced), "guild_id", b.guildID)
}

func (b *Bot) onResumed() {
	b.ready.Store(true)
	b.logger.Info("discord session resumed")
}

func (b *Bot) onDisconnect() {
	b.ready.Store(false)
	b.logger.Warn("discord session disconnected")
}

func (b *Bot) onGuildCreate(g *discordgo.Guild) {
	if g == nil {
		return
	}
	b.mu.Lock()
	_, known := b.guilds[g.ID]
	b.guilds[g.ID] = g.MemberCount
	b.mu.Unlock()

	if known {
		b.logger.Debug("guild available", "guild", g.Name, "guild_id", g.ID)
		return
	}
	b.logger.Info("joined new server", "guild", g.Name, "guild_id", g.ID)
}

func (b *Bot) onGuildDelete(g *discordgo.GuildDelete) {
	if g == nil || g.Guild == nil {
		return
	}
	if g.Unavailable {
		b.logger.Warn("guild unavailable", "guild_id", g.ID)
		return
	}
	b.mu.Lock()
	delete(b.guilds, g.ID)
	b.mu.Unlock()

	name := g.Name
	if g.BeforeDelete != nil {
		name = g.BeforeDelete.Name
	}
	b.logger.Info("left server", "guild", name, "guild_id", g.ID)
}

func (b *Bot) infoStats() InfoStats {
	return InfoStats{
		Uptime:  b.Uptime(),
		Servers: b.GuildCount(),
		Ping:    b.Latency(),
	}
}

// Ready reports whether the session is connected.
func (b *Bot) Ready() bool { return b.ready.Load() }

// GuildCount is the number of servers the bot is in.
func (b *Bot) GuildCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.guilds)
}

// MemberCount sums the member counts of all known servers.
func (b *Bot) MemberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := 0
	for _, n := range b.guilds {
		total += n
	}
	return total
}

// Latency is the gateway heartbeat round trip.
func (b *Bot) Latency() time.Duration { return b.gateway.HeartbeatLatency() }

// Uptime is the time since the bot was created.
func (b *Bot) Uptime() time.Duration { return time.Since(b.started) }
