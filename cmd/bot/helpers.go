package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
)

// customIDSeparator joins a component routing key and its argument.
const customIDSeparator = "::"

// customID builds a component custom ID carrying an argument.
func customID(key, arg string) string {
	return key + customIDSeparator + arg
}

func respondError(a IApp, i *discordgo.InteractionCreate) error {
	return respondEphemeral(a, i, "Something went wrong processing that. Please try again.")
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// rolesConfig loads the configured role IDs. A missing document is not an
// error; it yields the zero config.
func rolesConfig(ctx context.Context, a IApp) (*entities.RolesConfig, error) {
	roles := new(entities.RolesConfig)
	if err := a.Store().LoadConfig(ctx, dataaccess.ConfigKeyRoles, roles); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return roles, nil
		}
		return nil, fmt.Errorf("error loading roles config: %w", err)
	}
	return roles, nil
}

func hasRole(member *discordgo.Member, roleID string) bool {
	if roleID == "" {
		return false
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// isAdmin reports whether the member holds the configured admin role or has
// the Administrator permission.
func isAdmin(member *discordgo.Member, roles *entities.RolesConfig) bool {
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return hasRole(member, roles.Admin)
}

// isStaff reports whether the member is staff or better.
func isStaff(member *discordgo.Member, roles *entities.RolesConfig) bool {
	return isAdmin(member, roles) || hasRole(member, roles.Staff)
}

// isRestricted reports whether the member holds any role barred from opening
// tickets.
func isRestricted(member *discordgo.Member, roles *entities.RolesConfig) bool {
	for _, r := range roles.Restricted {
		if hasRole(member, r) {
			return true
		}
	}
	return false
}

// maintenanceBlocked responds to the interaction with the maintenance message
// when maintenance mode is on. Admins are never blocked.
func maintenanceBlocked(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (bool, error) {
	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return false, err
	}
	if isAdmin(i.Member, roles) {
		return false, nil
	}

	maint := new(entities.Maintenance)
	if err := a.Store().LoadConfig(ctx, dataaccess.ConfigKeyMaintenance, maint); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error loading maintenance config: %w", err)
	}
	if !maint.Enabled {
		return false, nil
	}

	msg := maint.Message
	if msg == "" {
		msg = entities.DefaultMaintenanceMessage
	}
	if err := respondEphemeral(a, i, msg); err != nil {
		return true, fmt.Errorf("error responding to interaction: %w", err)
	}
	return true, nil
}

// subCommand returns the name of the invoked subcommand, or "".
func subCommand(i *discordgo.InteractionCreate) string {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		return ""
	}
	return opts[0].Name
}

// modalInput pulls the value of a text input from a modal submission by its
// custom ID.
func modalInput(data discordgo.ModalSubmitInteractionData, inputID string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			input, ok := comp.(*discordgo.TextInput)
			if !ok {
				continue
			}
			if input.CustomID == inputID {
				return input.Value
			}
		}
	}
	return ""
}

// interactionUser returns the invoking user for guild and DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}
