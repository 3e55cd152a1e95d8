package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
)

// transcriptMessageLimit caps how much channel history goes into a
// transcript.
const transcriptMessageLimit = 100

// deliverTranscript posts a summary embed plus the channel history to the
// configured transcript channel. No transcript channel configured means no
// transcript; that is not an error.
func deliverTranscript(ctx context.Context, a IApp, ticket *entities.Ticket, closerID string) error {
	dest := new(entities.ChannelRef)
	if err := a.Store().LoadConfig(ctx, dataaccess.ConfigKeyTranscriptChannel, dest); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("error loading transcript channel: %w", err)
	}
	if dest.ID == "" {
		return nil
	}

	messages, err := a.Session().ChannelMessages(ticket.ChannelID, transcriptMessageLimit, "", "", "")
	if err != nil {
		return fmt.Errorf("error fetching channel history: %w", err)
	}

	// ChannelMessages returns newest first.
	var sb strings.Builder
	for n := len(messages) - 1; n >= 0; n-- {
		m := messages[n]
		ts := m.Timestamp.UTC().Format(time.RFC3339)
		fmt.Fprintf(&sb, "[%s] %s: %s\n", ts, m.Author.Username, m.Content)
	}

	helpers := ticket.OccupiedHelpers()
	helperList := "none"
	if len(helpers) > 0 {
		mentions := make([]string, 0, len(helpers))
		for _, h := range helpers {
			mentions = append(mentions, mention(h))
		}
		helperList = strings.Join(mentions, ", ")
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Requestor",
			Value:  mention(ticket.Requestor),
			Inline: true,
		},
		{
			Name:   "Closed by",
			Value:  mention(closerID),
			Inline: true,
		},
		{
			Name:   "Points per helper",
			Value:  fmt.Sprintf("%d", ticket.Points),
			Inline: true,
		},
		{
			Name:  "Helpers",
			Value: helperList,
		},
	}
	if ticket.Proof != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Proof",
			Value: ticket.Proof,
		})
	}

	send := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:  fmt.Sprintf("Transcript: %s #%d", ticket.Category, ticket.Number),
				Color:  entities.DefaultPanelColor,
				Fields: fields,
			},
		},
	}
	if sb.Len() > 0 {
		send.Files = []*discordgo.File{
			{
				Name:        fmt.Sprintf("transcript-%s-%d.txt", categoryPrefix(ticket.Category), ticket.Number),
				ContentType: "text/plain",
				Reader:      strings.NewReader(sb.String()),
			},
		}
	}

	if _, err := a.Session().ChannelMessageSendComplex(dest.ID, send); err != nil {
		return fmt.Errorf("error sending transcript: %w", err)
	}
	return nil
}
