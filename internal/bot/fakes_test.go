package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/bwmarrin/discordgo"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClient struct {
	mu         sync.Mutex
	responses  []*discordgo.InteractionResponse
	followups  []*discordgo.WebhookParams
	respondErr error
}

func (c *fakeClient) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, resp)
	return c.respondErr
}

func (c *fakeClient) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followups = append(c.followups, data)
	return &discordgo.Message{}, nil
}

type resolverFunc func(ctx context.Context, q answer.Question) (answer.FinalAnswer, error)

func (f resolverFunc) Resolve(ctx context.Context, q answer.Question) (answer.FinalAnswer, error) {
	return f(ctx, q)
}

type fakeGateway struct {
	mu       sync.Mutex
	failures int
	opens    int
	closed   bool
	latency  time.Duration
}

func (g *fakeGateway) Open() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.opens++
	if g.opens <= g.failures {
		return errors.New("gateway unavailable")
	}
	return nil
}

func (g *fakeGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

func (g *fakeGateway) HeartbeatLatency() time.Duration { return g.latency }

func (g *fakeGateway) state() (opens int, closed bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.opens, g.closed
}

type fakeRegistrar struct {
	mu      sync.Mutex
	appID   string
	guildID string
	names   []string
	err     error
}

func (r *fakeRegistrar) ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appID = appID
	r.guildID = guildID
	r.names = nil
	for _, c := range cmds {
		r.names = append(r.names, c.Name)
	}
	return cmds, r.err
}

func askInteraction(question string) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Member: &discordgo.Member{
			Nick: "Ann",
			User: &discordgo.User{ID: "1001", Username: "ann"},
		},
		Data: discordgo.ApplicationCommandInteractionData{
			Name: CommandAsk,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: optionQuestion, Type: discordgo.ApplicationCommandOptionString, Value: question},
			},
		},
	}
}

func infoInteraction() *discordgo.Interaction {
	return &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		User: &discordgo.User{ID: "2002", Username: "bob"},
		Data: discordgo.ApplicationCommandInteractionData{Name: CommandInfo},
	}
}
