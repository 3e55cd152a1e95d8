package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ultrarealm/expressbot/pkg/entities"
)

const (
	// LeaderboardCmdName is the command for showing the points leaderboard.
	LeaderboardCmdName = "leaderboard"

	// LeaderboardPrevID is the routing key for the previous page button. The
	// current page rides as the custom ID argument.
	LeaderboardPrevID = "lb_prev"

	// LeaderboardRefresh is the routing key for the refresh button.
	LeaderboardRefresh = "lb_refresh"

	// LeaderboardNextID is the routing key for the next page button.
	LeaderboardNextID = "lb_next"

	// leaderboardPerPage is the number of entries shown per page.
	leaderboardPerPage = 10
)

// leaderboardCmd shows the points leaderboard.
var leaderboardCmd = &discordgo.ApplicationCommand{
	Name:        LeaderboardCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "Shows the helper points leaderboard.",
}

// leaderboardCmdHandler posts the first leaderboard page.
func leaderboardCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	embed, components, err := renderLeaderboard(ctx, a, 0)
	if err != nil {
		return err
	}

	if err := a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	}); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	// Register the message so its buttons survive restarts.
	msg, err := a.Session().InteractionResponse(i.Interaction)
	if err != nil {
		return fmt.Errorf("error getting interaction response: %w", err)
	}
	return a.Panels().Register(ctx, msg.ChannelID, msg.ID, entities.PanelTypeLeaderboard,
		&entities.LeaderboardPanelData{Page: 0, PerPage: leaderboardPerPage})
}

// leaderboardPageHandler re-renders the leaderboard for the page implied by
// the pressed button.
func leaderboardPageHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	data := i.MessageComponentData()
	page, err := strconv.Atoi(customIDArg(data.CustomID))
	if err != nil {
		page = 0
	}

	switch customIDKey(data.CustomID) {
	case LeaderboardPrevID:
		page--
	case LeaderboardNextID:
		page++
	}
	if page < 0 {
		page = 0
	}

	embed, components, err := renderLeaderboard(ctx, a, page)
	if err != nil {
		return err
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// renderLeaderboard builds the embed and pagination controls for a page. The
// page is clamped to the data.
func renderLeaderboard(ctx context.Context, a IApp, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	entries, err := a.Ledger().Leaderboard(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting leaderboard: %w", err)
	}

	lastPage := 0
	if len(entries) > 0 {
		lastPage = (len(entries) - 1) / leaderboardPerPage
	}
	if page > lastPage {
		page = lastPage
	}

	// Medals for the podium, plain ranks below.
	medals := []string{"\U0001F947", "\U0001F948", "\U0001F949"}

	var sb strings.Builder
	start := page * leaderboardPerPage
	for n := start; n < len(entries) && n < start+leaderboardPerPage; n++ {
		rank := fmt.Sprintf("**%d.**", n+1)
		if n < len(medals) {
			rank = medals[n]
		}
		fmt.Fprintf(&sb, "%s %s - %d points\n", rank, mention(entries[n].UserID), entries[n].Points)
	}
	if sb.Len() == 0 {
		sb.WriteString("No points recorded yet.")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Helper Leaderboard",
		Description: sb.String(),
		Color:       entities.DefaultPanelColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", page+1, lastPage+1),
		},
	}

	pageArg := strconv.Itoa(page)
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Prev",
					Style:    discordgo.SecondaryButton,
					Disabled: page == 0,
					CustomID: customID(LeaderboardPrevID, pageArg),
				},
				discordgo.Button{
					Label:    "Refresh",
					Style:    discordgo.PrimaryButton,
					CustomID: customID(LeaderboardRefresh, pageArg),
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					Disabled: page >= lastPage,
					CustomID: customID(LeaderboardNextID, pageArg),
				},
			},
		},
	}
	return embed, components, nil
}
