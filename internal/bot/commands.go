package bot

import "github.com/bwmarrin/discordgo"

const (
	CommandAsk  = "askquestion"
	CommandInfo = "info"

	optionQuestion = "question"
)

// Commands returns the slash commands the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandInfo,
			Description: "Get information about the bot",
		},
		{
			Name:        CommandAsk,
			Description: "Ask any question and get an AI-powered answer",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionQuestion,
					Description: "What do you want to know about the server?",
					Required:    true,
				},
			},
		},
	}
}
