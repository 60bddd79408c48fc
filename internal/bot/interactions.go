package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/bwmarrin/discordgo"
)

// followupWindow stays inside the 15 minute interaction token lifetime.
const followupWindow = 14 * time.Minute

const (
	msgMissingQuestion = "❌ Please include a question."
	msgUnknownCommand  = "❌ An error occurred while processing your command."
)

// Resolver answers a single question.
type Resolver interface {
	Resolve(ctx context.Context, q answer.Question) (answer.FinalAnswer, error)
}

// InteractionClient is the part of *discordgo.Session used to reply to
// interactions.
type InteractionClient interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Handler dispatches slash commands. It keeps no per-interaction state, so
// concurrent interactions never share anything but read-only collaborators.
type Handler struct {
	resolver Resolver
	identity Identity
	stats    func() InfoStats
	now      func() time.Time
	logger   *slog.Logger
}

// NewHandler creates a Handler. stats supplies the numbers for /info.
func NewHandler(resolver Resolver, identity Identity, stats func() InfoStats, logger *slog.Logger) *Handler {
	if stats == nil {
		stats = func() InfoStats { return InfoStats{} }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		resolver: resolver,
		identity: identity,
		stats:    stats,
		now:      time.Now,
		logger:   logger,
	}
}

// Handle processes one interaction. ctx bounds the whole exchange.
func (h *Handler) Handle(ctx context.Context, client InteractionClient, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case CommandAsk:
		h.handleAsk(ctx, client, i, data)
	case CommandInfo:
		h.handleInfo(ctx, client, i)
	default:
		h.logger.Warn("unknown command", "command", data.Name)
		h.respondEphemeral(ctx, client, i, msgUnknownCommand)
	}
}

func (h *Handler) handleAsk(ctx context.Context, client InteractionClient, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) {
	text := questionText(data)
	if text == "" {
		h.respondEphemeral(ctx, client, i, msgMissingQuestion)
		return
	}

	err := client.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		h.logger.Error("deferring interaction failed", "command", CommandAsk, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, followupWindow)
	defer cancel()

	q := answer.NewQuestion(text, requesterID(i))
	final, err := h.resolver.Resolve(ctx, q)
	if err != nil {
		if errors.Is(err, answer.ErrAbandoned) {
			h.logger.Info("question abandoned", "question_id", q.ID)
		} else {
			h.logger.Error("resolving question failed", "question_id", q.ID, "error", err)
		}
		return
	}

	_, err = client.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{answerEmbed(final.Text, requesterName(i), h.now())},
	}, discordgo.WithContext(ctx))
	if err != nil {
		h.logger.Error("sending answer failed", "question_id", q.ID, "source", string(final.Source), "error", err)
	}
}

func (h *Handler) handleInfo(ctx context.Context, client InteractionClient, i *discordgo.Interaction) {
	embed := infoEmbed(h.identity, h.stats(), requesterName(i), h.now())
	err := client.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		h.logger.Error("responding to info failed", "error", err)
	}
}

func (h *Handler) respondEphemeral(ctx context.Context, client InteractionClient, i *discordgo.Interaction, content string) {
	err := client.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		h.logger.Error("responding to interaction failed", "error", err)
	}
}

func questionText(data discordgo.ApplicationCommandInteractionData) string {
	for _, opt := range data.Options {
		if opt.Name == optionQuestion && opt.Type == discordgo.ApplicationCommandOptionString {
			return strings.TrimSpace(opt.StringValue())
		}
	}
	return ""
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func requesterID(i *discordgo.Interaction) string {
	if u := interactionUser(i); u != nil {
		return u.ID
	}
	return ""
}

// requesterName prefers the server nickname over the account name.
func requesterName(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	if u := interactionUser(i); u != nil {
		return u.Username
	}
	return "unknown"
}
