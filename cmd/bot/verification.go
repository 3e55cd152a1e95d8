package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

const (
	// VerifyOpenButtonID is the ID for the start verification button.
	VerifyOpenButtonID = "verify_open"

	// VerifyCloseButtonID is the ID for the finish verification button.
	VerifyCloseButtonID = "verify_close"

	// VerifyModalID is the ID for the verification intake modal.
	VerifyModalID = "verify_modal"

	// VerifyEmoji is the emoji for the verification button. (Check mark)
	VerifyEmoji = "✅"
)

// postVerificationPanel posts the verification panel into the given channel
// and registers it for reattachment.
func postVerificationPanel(ctx context.Context, a IApp, channelID string) error {
	msg, err := a.Session().ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Verification",
				Description: "Press the button below to verify your in-game identity with the staff team.",
				Color:       entities.DefaultPanelColor,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Verify", VerifyEmoji),
						Style:    discordgo.SuccessButton,
						CustomID: VerifyOpenButtonID,
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error sending verification panel: %w", err)
	}

	category := new(entities.ChannelRef)
	if err := a.Store().LoadConfig(ctx, dataaccess.ConfigKeyVerificationCategory, category); err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
		return fmt.Errorf("error loading verification category: %w", err)
	}

	return a.Panels().Register(ctx, msg.ChannelID, msg.ID, entities.PanelTypeVerification,
		&entities.VerificationPanelData{CategoryID: category.ID})
}

// verifyOpenHandler presents the verification intake modal.
func verifyOpenHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	blocked, err := maintenanceBlocked(ctx, a, i)
	if err != nil || blocked {
		return err
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: VerifyModalID,
			Title:    "Verification",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  "ign",
							Label:     "What is your in-game name?",
							Style:     discordgo.TextInputShort,
							Required:  true,
							MaxLength: 50,
						},
					},
				},
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  "invited",
							Label:     "Who invited you?",
							Style:     discordgo.TextInputShort,
							Required:  false,
							MaxLength: 50,
						},
					},
				},
			},
		},
	})
}

// verifyModalHandler opens a private verification channel for the user.
func verifyModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	user := interactionUser(i)
	data := i.ModalSubmitData()
	ign := modalInput(data, "ign")
	invitedBy := modalInput(data, "invited")
	if invitedBy == "" {
		invitedBy = "-"
	}

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}

	category := new(entities.ChannelRef)
	if err := a.Store().LoadConfig(ctx, dataaccess.ConfigKeyVerificationCategory, category); err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
		return fmt.Errorf("error loading verification category: %w", err)
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   i.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    user.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory | discordgo.PermissionAttachFiles,
		},
	}
	for _, roleID := range []string{roles.Staff, roles.Admin} {
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
		Name:                 fmt.Sprintf("verify-%s", strings.ToLower(user.Username)),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Verification for %s", user.Username),
		ParentID:             category.ID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return fmt.Errorf("error creating verification channel: %w", err)
	}

	if _, err := a.Session().ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: mention(user.ID),
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Verification request",
				Description: "A staff member will review your details shortly. Please post a screenshot of your in-game profile.",
				Color:       entities.DefaultPanelColor,
				Fields: []*discordgo.MessageEmbedField{
					{
						Name:   "User",
						Value:  mention(user.ID),
						Inline: true,
					},
					{
						Name:   "In-game name",
						Value:  ign,
						Inline: true,
					},
					{
						Name:   "Invited by",
						Value:  invitedBy,
						Inline: true,
					},
				},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Finish", VerifyEmoji),
						Style:    discordgo.DangerButton,
						CustomID: VerifyCloseButtonID,
					},
				},
			},
		},
	}); err != nil {
		a.Log().Error("Error sending verification message", slog.String(logging.KeyError, err.Error()))
	}

	return respondEphemeral(a, i, fmt.Sprintf("Your verification channel is ready: <#%s>", channel.ID))
}

// verifyCloseHandler removes the verification channel. Staff only.
func verifyCloseHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}
	if !isStaff(i.Member, roles) {
		return respondEphemeral(a, i, "Only staff can finish verification.")
	}

	if err := respondEphemeral(a, i, "Verification finished. This channel will be removed shortly."); err != nil {
		a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}

	go deleteTicketChannel(a, i.ChannelID)
	return nil
}
