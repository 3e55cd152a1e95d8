package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ultrarealm/expressbot/cmd/bot/monitoring"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
	"github.com/ultrarealm/expressbot/pkg/tickets"
)

const (
	// PanelCmdName is the command for posting the ticket panel.
	PanelCmdName = "panel"

	// TicketCmdName is the command for staff ticket operations.
	TicketCmdName = "ticket"

	// KickCmdName is the sub command for kicking a helper out of a ticket.
	KickCmdName = "kick"

	// DeleteCmdName is the sub command for deleting a ticket without rewards.
	DeleteCmdName = "delete"
)

const (
	// OpenTicketButtonID is the routing key for the open ticket buttons. The
	// category name rides as the custom ID argument.
	OpenTicketButtonID = "open_ticket"

	// JoinTicketButtonID is the ID for the join helper slot button.
	JoinTicketButtonID = "join_ticket"

	// SubmitProofButtonID is the ID for the submit proof button.
	SubmitProofButtonID = "submit_proof"

	// CloseTicketButtonID is the ID for the close ticket button.
	CloseTicketButtonID = "close_ticket"

	// DeleteTicketButtonID is the ID for the delete button on the closed
	// notice. Staff press it once the channel is no longer needed.
	DeleteTicketButtonID = "delete_ticket"

	// TicketModalID is the routing key for the intake modal.
	TicketModalID = "ticket_modal"

	// ProofModalID is the ID for the proof modal.
	ProofModalID = "proof_modal"
)

const (
	// TicketEmoji is the emoji for the open ticket buttons. (Envelope with arrow)
	TicketEmoji = "\U0001F4E9"

	// JoinEmoji is the emoji for the join button. (Raised hand)
	JoinEmoji = "✋"

	// ProofEmoji is the emoji for the proof button. (Camera)
	ProofEmoji = "\U0001F4F8"

	// CloseEmoji is the emoji for the close button. (Padlock)
	CloseEmoji = "\U0001F510"

	// DeleteEmoji is the emoji for the delete button. (Wastebasket)
	DeleteEmoji = "\U0001F5D1"
)

var (
	// panelCmd posts the ticket panel into the current channel.
	panelCmd = &discordgo.ApplicationCommand{
		Name:        PanelCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Posts the ticket panel in this channel.",
	}

	// ticketCmd is the command for staff operations on the current ticket.
	ticketCmd = &discordgo.ApplicationCommand{
		Name:        TicketCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Staff operations on the ticket in this channel.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        KickCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Removes a helper from this ticket, freeing their slot.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "helper",
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "The helper to remove.",
						Required:    true,
					},
				},
			},
			{
				Name:        DeleteCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Deletes this ticket without crediting any points.",
			},
		},
	}
)

// defaultCategories are seeded into an empty store so a fresh install has a
// working panel out of the box.
var defaultCategories = []*entities.Category{
	{Name: "UltraSpeaker Express", Slots: 3, Points: 8},
	{Name: "Ultra Gramiel Express", Slots: 3, Points: 7},
	{Name: "GrimChallenge Express", Slots: 6, Points: 10},
	{Name: "Daily Temple Express", Slots: 3, Points: 6},
	{Name: "Daily 4-Man Express", Slots: 3, Points: 4},
	{Name: "Daily 7-Man Express", Slots: 6, Points: 10},
	{Name: "Weekly Ultra Express", Slots: 6, Points: 12},
}

// defaultQuestions are the intake questions for seeded categories.
var defaultQuestions = []string{
	"What is your in-game name?",
	"How many runs do you need?",
}

func (a *App) seedCategories(ctx context.Context) error {
	existing, err := a.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("error listing categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	a.Info("No categories configured, seeding defaults")
	for _, c := range defaultCategories {
		c.Questions = defaultQuestions
		if err := a.store.SaveCategory(ctx, c); err != nil {
			return fmt.Errorf("error saving category %s: %w", c.Name, err)
		}
	}
	return nil
}

// categoryPrefix derives the channel name fragment for a category.
func categoryPrefix(name string) string {
	prefix := strings.ToLower(name)
	prefix = strings.TrimSuffix(prefix, " express")
	return strings.ReplaceAll(prefix, " ", "-")
}

// panelCmdController posts the ticket panel into the current channel and
// registers it for reattachment. Admin only.
func panelCmdController(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}
	if !isAdmin(i.Member, roles) {
		return respondEphemeral(a, i, "You need the admin role to post panels.")
	}

	categories, err := a.Store().ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("error listing categories: %w", err)
	}
	if len(categories) == 0 {
		return respondEphemeral(a, i, "There are no categories configured yet.")
	}

	style := new(entities.PanelStyle)
	if err := a.Store().LoadConfig(ctx, dataaccess.ConfigKeyPanelStyle, style); err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
		return fmt.Errorf("error loading panel style: %w", err)
	}
	if style.Text == "" {
		style.Text = entities.DefaultPanelText
	}
	if style.Color == 0 {
		style.Color = entities.DefaultPanelColor
	}

	names := make([]string, 0, len(categories))
	rows := make([]discordgo.MessageComponent, 0)
	row := discordgo.ActionsRow{}
	for _, c := range categories {
		names = append(names, c.Name)
		row.Components = append(row.Components, discordgo.Button{
			Label:    fmt.Sprintf("%s %s", TicketEmoji, c.Name),
			Style:    discordgo.PrimaryButton,
			CustomID: customID(OpenTicketButtonID, c.Name),
		})
		// Discord caps a row at five buttons.
		if len(row.Components) == 5 {
			rows = append(rows, row)
			row = discordgo.ActionsRow{}
		}
	}
	if len(row.Components) > 0 {
		rows = append(rows, row)
	}

	msg, err := a.Session().ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Express Tickets",
				Description: style.Text,
				Color:       style.Color,
			},
		},
		Components: rows,
	})
	if err != nil {
		return fmt.Errorf("error sending panel message: %w", err)
	}

	if err := a.Panels().Register(ctx, msg.ChannelID, msg.ID, entities.PanelTypeTicket, &entities.TicketPanelData{Categories: names}); err != nil {
		return fmt.Errorf("error registering panel: %w", err)
	}

	return respondEphemeral(a, i, "Panel posted.")
}

// openTicketButtonHandler presents the intake modal for the chosen category.
func openTicketButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	blocked, err := maintenanceBlocked(ctx, a, i)
	if err != nil || blocked {
		return err
	}

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}
	if isRestricted(i.Member, roles) {
		return respondEphemeral(a, i, "You are not allowed to open tickets.")
	}

	user := interactionUser(i)
	if !a.AllowTicketOpen(user.ID) {
		return respondEphemeral(a, i, "You are opening tickets too quickly. Please wait a moment.")
	}

	categoryName := customIDArg(i.MessageComponentData().CustomID)
	category, err := a.Store().GetCategory(ctx, categoryName)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return respondEphemeral(a, i, "That category no longer exists.")
	} else if err != nil {
		return fmt.Errorf("error getting category: %w", err)
	}

	questions := category.Questions
	if len(questions) == 0 {
		questions = defaultQuestions
	}
	// A modal fits at most five inputs.
	if len(questions) > 5 {
		questions = questions[:5]
	}

	inputs := make([]discordgo.MessageComponent, 0, len(questions))
	for n, q := range questions {
		inputs = append(inputs, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  fmt.Sprintf("question_%d", n),
					Label:     q,
					Style:     discordgo.TextInputShort,
					Required:  true,
					MaxLength: 100,
				},
			},
		})
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   customID(TicketModalID, category.Name),
			Title:      category.Name,
			Components: inputs,
		},
	})
}

// ticketModalHandler creates the ticket channel and registers the ticket.
func ticketModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	data := i.ModalSubmitData()
	user := interactionUser(i)

	categoryName := customIDArg(data.CustomID)
	category, err := a.Store().GetCategory(ctx, categoryName)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return respondEphemeral(a, i, "That category no longer exists.")
	} else if err != nil {
		return fmt.Errorf("error getting category: %w", err)
	}

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}

	// The panel channel's parent keeps ticket channels grouped together.
	panelChannel, err := a.Session().Channel(i.ChannelID)
	if err != nil {
		return fmt.Errorf("error getting panel channel: %w", err)
	}

	tag := 1000 + rand.Intn(9000)
	name := fmt.Sprintf("join-%s-%d", categoryPrefix(category.Name), tag)

	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   i.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The requestor can see the ticket.
		{
			ID:    user.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory | discordgo.PermissionAttachFiles,
		},
	}
	for _, roleID := range []string{roles.Helper, roles.Staff, roles.Admin} {
		if roleID == "" {
			continue
		}
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory | discordgo.PermissionAttachFiles,
		})
	}

	channel, err := a.Session().GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket for %s", category.Name, user.Username),
		ParentID:             panelChannel.ParentID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return fmt.Errorf("error creating ticket channel: %w", err)
	}

	ticket, err := a.Tracker().Create(ctx, category.Name, user.ID, channel.ID, tag)
	if err != nil {
		// The channel is orphaned without a tracked ticket.
		if _, derr := a.Session().ChannelDelete(channel.ID); derr != nil {
			a.Log().Warn("Error deleting orphaned ticket channel", slog.String(logging.KeyError, derr.Error()))
		}
		if errors.Is(err, tickets.ErrUnknownCategory) {
			return respondEphemeral(a, i, "That category no longer exists.")
		}
		return fmt.Errorf("error creating ticket: %w", err)
	}

	monitoring.TicketsOpened.WithLabelValues(ticket.Category).Inc()
	monitoring.ActiveTickets.Set(float64(a.Tracker().Active()))

	if err := sendTicketIntakeMessage(a, ticket, data, category); err != nil {
		a.Log().Error("Error sending ticket intake message", slog.String(logging.KeyError, err.Error()))
	}

	return respondEphemeral(a, i, fmt.Sprintf("Your ticket has been created: <#%s>", channel.ID))
}

// sendTicketIntakeMessage posts the pinned ticket summary with its controls.
func sendTicketIntakeMessage(a IApp, ticket *entities.Ticket, data discordgo.ModalSubmitInteractionData, category *entities.Category) error {
	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Requestor",
			Value:  mention(ticket.Requestor),
			Inline: true,
		},
		{
			Name:   "Helper slots",
			Value:  fmt.Sprintf("0/%d", len(ticket.Helpers)),
			Inline: true,
		},
		{
			Name:   "In-game command",
			Value:  fmt.Sprintf("`/join %d`", ticket.Tag),
			Inline: true,
		},
	}

	questions := category.Questions
	if len(questions) == 0 {
		questions = defaultQuestions
	}
	for n, q := range questions {
		answer := modalInput(data, fmt.Sprintf("question_%d", n))
		if answer == "" {
			continue
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  q,
			Value: answer,
		})
	}

	msg, err := a.Session().ChannelMessageSendComplex(ticket.ChannelID, &discordgo.MessageSend{
		Content: mention(ticket.Requestor),
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       fmt.Sprintf("%s #%d", ticket.Category, ticket.Number),
				Description: fmt.Sprintf("Helpers, press %s Join to take a slot. Each helper is rewarded **%d points** when the ticket closes.", JoinEmoji, ticket.Points),
				Color:       entities.DefaultPanelColor,
				Fields:      fields,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Join", JoinEmoji),
						Style:    discordgo.PrimaryButton,
						CustomID: JoinTicketButtonID,
					},
					discordgo.Button{
						Label:    fmt.Sprintf("%s Submit Proof", ProofEmoji),
						Style:    discordgo.SecondaryButton,
						CustomID: SubmitProofButtonID,
					},
					discordgo.Button{
						Label:    fmt.Sprintf("%s Close", CloseEmoji),
						Style:    discordgo.DangerButton,
						CustomID: CloseTicketButtonID,
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}

	if err := a.Session().ChannelMessagePin(ticket.ChannelID, msg.ID); err != nil {
		return fmt.Errorf("error pinning message: %w", err)
	}
	return nil
}

// joinTicketHandler claims the first free helper slot for the presser.
func joinTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)

	slot, err := a.Tracker().Join(i.ChannelID, user.ID)
	switch {
	case errors.Is(err, tickets.ErrNoTicket):
		return respondEphemeral(a, i, "There is no open ticket in this channel.")
	case errors.Is(err, tickets.ErrSelfJoin):
		return respondEphemeral(a, i, "You cannot join your own ticket.")
	case errors.Is(err, tickets.ErrAlreadyJoined):
		return respondEphemeral(a, i, "You already hold a helper slot on this ticket.")
	case errors.Is(err, tickets.ErrSlotsFull):
		return respondEphemeral(a, i, "All helper slots on this ticket are taken.")
	case err != nil:
		return fmt.Errorf("error joining ticket: %w", err)
	}

	ticket, ok := a.Tracker().Get(i.ChannelID)
	if !ok {
		return tickets.ErrNoTicket
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("%s took helper slot %d (%d/%d). In-game: `/join %d`",
				mention(user.ID), slot+1, ticket.HelperCount(), len(ticket.Helpers), ticket.Tag),
		},
	})
}

// submitProofButtonHandler presents the proof modal to the requestor.
func submitProofButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)

	ticket, ok := a.Tracker().Get(i.ChannelID)
	if !ok {
		return respondEphemeral(a, i, "There is no open ticket in this channel.")
	}
	if user.ID != ticket.Requestor {
		return respondEphemeral(a, i, "Only the ticket requestor can submit proof.")
	}
	if ticket.ProofSubmitted {
		return respondEphemeral(a, i, "Proof has already been submitted for this ticket.")
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: ProofModalID,
			Title:    "Submit completion proof",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  "proof",
							Label:     "Proof (screenshot link or description)",
							Style:     discordgo.TextInputParagraph,
							Required:  true,
							MaxLength: 1000,
						},
					},
				},
			},
		},
	})
}

func proofModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	proof := modalInput(i.ModalSubmitData(), "proof")

	err := a.Tracker().SubmitProof(i.ChannelID, user.ID, proof)
	switch {
	case errors.Is(err, tickets.ErrNoTicket):
		return respondEphemeral(a, i, "There is no open ticket in this channel.")
	case errors.Is(err, tickets.ErrNotRequestor):
		return respondEphemeral(a, i, "Only the ticket requestor can submit proof.")
	case errors.Is(err, tickets.ErrProofAlreadySubmitted):
		return respondEphemeral(a, i, "Proof has already been submitted for this ticket.")
	case err != nil:
		return fmt.Errorf("error submitting proof: %w", err)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("%s submitted proof. The ticket can now be closed.", mention(user.ID)),
		},
	})
}

// closeTicketHandler closes the ticket, rewarding every occupied helper slot.
func closeTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	user := interactionUser(i)

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}

	fx := tickets.SideEffects{
		RevokeAccess: func(userID string) error {
			return a.Session().ChannelPermissionDelete(i.ChannelID, userID)
		},
		Transcript: func(t *entities.Ticket, closerID string) error {
			return deliverTranscript(ctx, a, t, closerID)
		},
		Notify: func(t *entities.Ticket) error {
			_, err := a.Session().ChannelMessageSendComplex(t.ChannelID, &discordgo.MessageSend{
				Content: fmt.Sprintf("Ticket **%s #%d** closed. Each helper received **%d points**.",
					t.Category, t.Number, t.Points),
				Components: []discordgo.MessageComponent{
					discordgo.ActionsRow{
						Components: []discordgo.MessageComponent{
							discordgo.Button{
								Label:    fmt.Sprintf("%s Delete", DeleteEmoji),
								Style:    discordgo.DangerButton,
								CustomID: DeleteTicketButtonID,
							},
						},
					},
				},
			})
			return err
		},
	}

	ticket, err := a.Tracker().Close(ctx, i.ChannelID, user.ID, isStaff(i.Member, roles), fx)
	switch {
	case errors.Is(err, tickets.ErrNoTicket):
		return respondEphemeral(a, i, "There is no open ticket in this channel.")
	case errors.Is(err, tickets.ErrProofRequired):
		return respondEphemeral(a, i, "Submit completion proof before closing the ticket.")
	case errors.Is(err, tickets.ErrNotAuthorized):
		return respondEphemeral(a, i, "Only the requestor or staff can close this ticket.")
	case err != nil:
		return fmt.Errorf("error closing ticket: %w", err)
	}

	monitoring.TicketsClosed.WithLabelValues(ticket.Category).Inc()
	monitoring.PointsAwarded.Add(float64(ticket.Points * ticket.HelperCount()))
	monitoring.ActiveTickets.Set(float64(a.Tracker().Active()))

	return respondEphemeral(a, i, "Ticket closed.")
}

// deleteTicketButtonHandler removes a closed ticket channel once staff press
// the delete button on the closed notice.
func deleteTicketButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}
	if !isStaff(i.Member, roles) {
		return respondEphemeral(a, i, "Only staff can delete this channel.")
	}

	if err := respondEphemeral(a, i, "This channel will be removed shortly."); err != nil {
		a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}

	go deleteTicketChannel(a, i.ChannelID)
	return nil
}

// deleteTicketChannel removes the channel after a grace period so members see
// the closed notice.
func deleteTicketChannel(a IApp, channelID string) {
	time.Sleep(10 * time.Second)
	if _, err := a.Session().ChannelDelete(channelID); err != nil {
		a.Log().Error("Error deleting ticket channel",
			slog.String("channel_id", channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}

// ticketCmdController routes the staff ticket subcommands.
func ticketCmdController(a IApp, i *discordgo.InteractionCreate) error {
	switch subCommand(i) {
	case KickCmdName:
		return kickHelperHandler(a, i)
	case DeleteCmdName:
		return deleteTicketHandler(a, i)
	default:
		return fmt.Errorf("unknown subcommand %q", subCommand(i))
	}
}

func kickHelperHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}

	target := i.ApplicationCommandData().Options[0].Options[0].UserValue(nil)

	err = a.Tracker().Kick(i.ChannelID, target.ID, isStaff(i.Member, roles), func(userID string) error {
		return a.Session().ChannelPermissionDelete(i.ChannelID, userID)
	})
	switch {
	case errors.Is(err, tickets.ErrNotAuthorized):
		return respondEphemeral(a, i, "Only staff can kick helpers.")
	case errors.Is(err, tickets.ErrNoTicket):
		return respondEphemeral(a, i, "There is no open ticket in this channel.")
	case errors.Is(err, tickets.ErrNotAHelper):
		return respondEphemeral(a, i, "That user does not hold a helper slot on this ticket.")
	case err != nil:
		return fmt.Errorf("error kicking helper: %w", err)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("%s was removed from this ticket. Their slot is free again.", mention(target.ID)),
		},
	})
}

func deleteTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	user := interactionUser(i)

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}

	ticket, err := a.Tracker().Discard(i.ChannelID, isStaff(i.Member, roles))
	switch {
	case errors.Is(err, tickets.ErrNotAuthorized):
		return respondEphemeral(a, i, "Only staff can delete tickets.")
	case errors.Is(err, tickets.ErrNoTicket):
		return respondEphemeral(a, i, "There is no open ticket in this channel.")
	case err != nil:
		return fmt.Errorf("error discarding ticket: %w", err)
	}

	a.Log().Info("Ticket deleted without rewards",
		slog.String("category", ticket.Category),
		slog.Int("number", ticket.Number),
		slog.String("deleted_by", user.ID),
	)
	monitoring.ActiveTickets.Set(float64(a.Tracker().Active()))

	if err := respondEphemeral(a, i, "Ticket deleted. No points were credited."); err != nil {
		a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}

	go deleteTicketChannel(a, ticket.ChannelID)
	return nil
}
