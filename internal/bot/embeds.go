package bot

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/taskhelper/internal/health"
	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x58b9ff

// Identity describes the bot in the /info embed.
type Identity struct {
	Name    string
	Version string
	Creator string
}

// DefaultIdentity returns the stock bot identity.
func DefaultIdentity(version string) Identity {
	if version == "" {
		version = "dev"
	}
	return Identity{
		Name:    "Reddit Tasks - Helper",
		Version: version,
		Creator: "<@788580226401566791>",
	}
}

// InfoStats are the live numbers shown by /info.
type InfoStats struct {
	Uptime  time.Duration
	Servers int
	Ping    time.Duration
}

func answerEmbed(text, requester string, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📝 Your Answer",
		Description: text,
		Color:       embedColor,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Requested by " + requester},
	}
}

func infoEmbed(id Identity, stats InfoStats, requester string, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     "🤖 Bot Information",
		Color:     embedColor,
		Timestamp: now.UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bot Name", Value: id.Name, Inline: true},
			{Name: "Version", Value: id.Version, Inline: true},
			{Name: "Creator", Value: id.Creator, Inline: true},
			{Name: "Uptime", Value: health.FormatUptime(stats.Uptime), Inline: true},
			{Name: "Servers", Value: strconv.Itoa(stats.Servers), Inline: true},
			{Name: "Ping", Value: fmt.Sprintf("%dms", stats.Ping.Milliseconds()), Inline: true},
			{
				Name: "What I Do",
				Value: "• Answer your questions in simple terms\n" +
					"• Help you understand server rules\n" +
					"• Provide clear step-by-step guidance\n" +
					"• Available 24/7 to help!",
			},
			{
				Name: "Commands",
				Value: "`/info` - Show this information\n" +
					"`/askquestion` - Ask any question",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Requested by " + requester},
	}
}
