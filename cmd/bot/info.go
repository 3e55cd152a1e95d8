package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ultrarealm/expressbot/pkg/entities"
)

// InfoCmdName is the command for stored informational replies.
const InfoCmdName = "info"

// infoCmd replays a stored informational reply.
var infoCmd = &discordgo.ApplicationCommand{
	Name:        InfoCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "Shows a stored info topic.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        "topic",
			Type:        discordgo.ApplicationCommandOptionString,
			Description: "The topic name. Leave empty to list topics.",
		},
	},
}

func infoCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	commands, err := a.Store().ListCustomCommands(ctx)
	if err != nil {
		return fmt.Errorf("error listing custom commands: %w", err)
	}

	var topic string
	if opts := i.ApplicationCommandData().Options; len(opts) > 0 {
		topic = strings.ToLower(opts[0].StringValue())
	}

	if topic == "" {
		if len(commands) == 0 {
			return respondEphemeral(a, i, "There are no info topics configured.")
		}
		names := make([]string, 0, len(commands))
		for _, c := range commands {
			names = append(names, "`"+c.Name+"`")
		}
		return respondEphemeral(a, i, "Available topics: "+strings.Join(names, ", "))
	}

	for _, c := range commands {
		if c.Name != topic {
			continue
		}

		embed := &discordgo.MessageEmbed{
			Title:       c.Name,
			Description: c.Text,
			Color:       entities.DefaultPanelColor,
		}
		if c.Image != "" {
			embed.Image = &discordgo.MessageEmbedImage{URL: c.Image}
		}

		return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
			},
		})
	}

	return respondEphemeral(a, i, fmt.Sprintf("No info topic named **%s**.", topic))
}
