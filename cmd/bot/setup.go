package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
)

// SetupCmdName is the command for configuring the bot.
const SetupCmdName = "setup"

const (
	rolesSubCmd          = "roles"
	restrictSubCmd       = "restrict"
	unrestrictSubCmd     = "unrestrict"
	transcriptSubCmd     = "transcript"
	verificationSubCmd   = "verification"
	maintenanceSubCmd    = "maintenance"
	prefixSubCmd         = "prefix"
	styleSubCmd          = "style"
	addCategorySubCmd    = "addcategory"
	removeCategorySubCmd = "removecategory"
	addCommandSubCmd     = "addcommand"
	removeCommandSubCmd  = "removecommand"
)

// setupCmd is the command for configuring the bot. Every subcommand is admin
// gated.
var setupCmd = &discordgo.ApplicationCommand{
	Name:        SetupCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "Configures the bot. Admin only.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        rolesSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Sets the permission tier roles.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "admin",
					Type:        discordgo.ApplicationCommandOptionRole,
					Description: "The admin role.",
				},
				{
					Name:        "staff",
					Type:        discordgo.ApplicationCommandOptionRole,
					Description: "The staff role.",
				},
				{
					Name:        "helper",
					Type:        discordgo.ApplicationCommandOptionRole,
					Description: "The helper role.",
				},
			},
		},
		{
			Name:        restrictSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Bars a role from opening tickets.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "role",
					Type:        discordgo.ApplicationCommandOptionRole,
					Description: "The role to restrict.",
					Required:    true,
				},
			},
		},
		{
			Name:        unrestrictSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Lifts a ticket restriction from a role.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "role",
					Type:        discordgo.ApplicationCommandOptionRole,
					Description: "The role to unrestrict.",
					Required:    true,
				},
			},
		},
		{
			Name:        transcriptSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Sets the channel transcripts are delivered to.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "channel",
					Type:        discordgo.ApplicationCommandOptionChannel,
					Description: "The transcript channel.",
					Required:    true,
				},
			},
		},
		{
			Name:        verificationSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Posts the verification panel in this channel.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "category",
					Type:        discordgo.ApplicationCommandOptionChannel,
					Description: "The category verification channels are created under.",
				},
			},
		},
		{
			Name:        maintenanceSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Toggles maintenance mode.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "enabled",
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Description: "Whether ticket creation is disabled.",
					Required:    true,
				},
				{
					Name:        "message",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "The message shown while disabled.",
				},
			},
		},
		{
			Name:        prefixSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Sets the legacy text-command prefix.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "value",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "The prefix characters.",
					Required:    true,
				},
			},
		},
		{
			Name:        styleSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Sets the ticket panel text and colour.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "text",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "The panel body text.",
				},
				{
					Name:        "color",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Description: "The embed colour as a decimal RGB value.",
				},
			},
		},
		{
			Name:        addCategorySubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Creates or updates a ticket category.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "The category name.",
					Required:    true,
				},
				{
					Name:        "slots",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Description: "Helper slots per ticket.",
				},
				{
					Name:        "points",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Description: "Points per helper on close.",
				},
				{
					Name:        "questions",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "Intake questions, separated by semicolons.",
				},
			},
		},
		{
			Name:        removeCategorySubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Removes a ticket category.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "The category name.",
					Required:    true,
				},
			},
		},
		{
			Name:        addCommandSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Creates or updates a custom info command.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "The command name.",
					Required:    true,
				},
				{
					Name:        "text",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "The reply body.",
					Required:    true,
				},
				{
					Name:        "image",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "An optional image URL.",
				},
			},
		},
		{
			Name:        removeCommandSubCmd,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Removes a custom info command.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "The command name.",
					Required:    true,
				},
			},
		},
	},
}

// setupCmdController routes the setup subcommands. Every branch is admin
// gated up front.
func setupCmdController(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}
	if !isAdmin(i.Member, roles) {
		return respondEphemeral(a, i, "You need the admin role to configure the bot.")
	}

	switch subCommand(i) {
	case rolesSubCmd:
		return setupRolesHandler(ctx, a, i, roles)
	case restrictSubCmd:
		return setupRestrictHandler(ctx, a, i, roles, true)
	case unrestrictSubCmd:
		return setupRestrictHandler(ctx, a, i, roles, false)
	case transcriptSubCmd:
		return setupTranscriptHandler(ctx, a, i)
	case verificationSubCmd:
		return setupVerificationHandler(ctx, a, i)
	case maintenanceSubCmd:
		return setupMaintenanceHandler(ctx, a, i)
	case prefixSubCmd:
		return setupPrefixHandler(ctx, a, i)
	case styleSubCmd:
		return setupStyleHandler(ctx, a, i)
	case addCategorySubCmd:
		return setupAddCategoryHandler(ctx, a, i)
	case removeCategorySubCmd:
		return setupRemoveCategoryHandler(ctx, a, i)
	case addCommandSubCmd:
		return setupAddCommandHandler(ctx, a, i)
	case removeCommandSubCmd:
		return setupRemoveCommandHandler(ctx, a, i)
	default:
		return fmt.Errorf("unknown subcommand %q", subCommand(i))
	}
}

// subOptions returns the invoked subcommand's options keyed by name.
func subOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		out[opt.Name] = opt
	}
	return out
}

func setupRolesHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate, roles *entities.RolesConfig) error {
	opts := subOptions(i)
	if opt, ok := opts["admin"]; ok {
		roles.Admin = opt.RoleValue(nil, "").ID
	}
	if opt, ok := opts["staff"]; ok {
		roles.Staff = opt.RoleValue(nil, "").ID
	}
	if opt, ok := opts["helper"]; ok {
		roles.Helper = opt.RoleValue(nil, "").ID
	}

	if err := a.Store().SaveConfig(ctx, dataaccess.ConfigKeyRoles, roles); err != nil {
		return fmt.Errorf("error saving roles config: %w", err)
	}
	return respondEphemeral(a, i, "Roles updated.")
}

func setupRestrictHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate, roles *entities.RolesConfig, restrict bool) error {
	roleID := subOptions(i)["role"].RoleValue(nil, "").ID

	kept := make([]string, 0, len(roles.Restricted))
	for _, r := range roles.Restricted {
		if r != roleID {
			kept = append(kept, r)
		}
	}
	if restrict {
		kept = append(kept, roleID)
	}
	roles.Restricted = kept

	if err := a.Store().SaveConfig(ctx, dataaccess.ConfigKeyRoles, roles); err != nil {
		return fmt.Errorf("error saving roles config: %w", err)
	}

	if restrict {
		return respondEphemeral(a, i, fmt.Sprintf("<@&%s> can no longer open tickets.", roleID))
	}
	return respondEphemeral(a, i, fmt.Sprintf("<@&%s> can open tickets again.", roleID))
}

func setupTranscriptHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	channel := subOptions(i)["channel"].ChannelValue(nil)

	if err := a.Store().SaveConfig(ctx, dataaccess.ConfigKeyTranscriptChannel, &entities.ChannelRef{ID: channel.ID}); err != nil {
		return fmt.Errorf("error saving transcript channel: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Transcripts will be delivered to <#%s>.", channel.ID))
}

func setupVerificationHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	if opt, ok := subOptions(i)["category"]; ok {
		category := opt.ChannelValue(nil)
		if err := a.Store().SaveConfig(ctx, dataaccess.ConfigKeyVerificationCategory, &entities.ChannelRef{ID: category.ID}); err != nil {
			return fmt.Errorf("error saving verification category: %w", err)
		}
	}

	if err := postVerificationPanel(ctx, a, i.ChannelID); err != nil {
		return err
	}
	return respondEphemeral(a, i, "Verification panel posted.")
}

func setupMaintenanceHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	opts := subOptions(i)

	maint := &entities.Maintenance{Enabled: opts["enabled"].BoolValue()}
	if opt, ok := opts["message"]; ok {
		maint.Message = opt.StringValue()
	}

	if err := a.Store().SaveConfig(ctx, dataaccess.ConfigKeyMaintenance, maint); err != nil {
		return fmt.Errorf("error saving maintenance config: %w", err)
	}

	if maint.Enabled {
		return respondEphemeral(a, i, "Maintenance mode enabled. Ticket creation is disabled.")
	}
	return respondEphemeral(a, i, "Maintenance mode disabled.")
}

func setupPrefixHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	value := subOptions(i)["value"].StringValue()

	if err := a.Store().SaveConfig(ctx, dataaccess.ConfigKeyPrefix, &entities.Prefix{Value: value}); err != nil {
		return fmt.Errorf("error saving prefix: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Prefix set to `%s`.", value))
}

func setupStyleHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	opts := subOptions(i)

	style := new(entities.PanelStyle)
	if err := a.Store().LoadConfig(ctx, dataaccess.ConfigKeyPanelStyle, style); err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
		return fmt.Errorf("error loading panel style: %w", err)
	}
	if opt, ok := opts["text"]; ok {
		style.Text = opt.StringValue()
	}
	if opt, ok := opts["color"]; ok {
		style.Color = int(opt.IntValue())
	}

	if err := a.Store().SaveConfig(ctx, dataaccess.ConfigKeyPanelStyle, style); err != nil {
		return fmt.Errorf("error saving panel style: %w", err)
	}
	return respondEphemeral(a, i, "Panel style updated. Repost the panel to apply it.")
}

func setupAddCategoryHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	opts := subOptions(i)

	category := &entities.Category{Name: opts["name"].StringValue()}
	if opt, ok := opts["slots"]; ok {
		category.Slots = int(opt.IntValue())
	}
	if opt, ok := opts["points"]; ok {
		category.Points = int(opt.IntValue())
	}
	if opt, ok := opts["questions"]; ok {
		for _, q := range strings.Split(opt.StringValue(), ";") {
			if q = strings.TrimSpace(q); q != "" {
				category.Questions = append(category.Questions, q)
			}
		}
	}

	if err := a.Store().SaveCategory(ctx, category); err != nil {
		return fmt.Errorf("error saving category: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Category **%s** saved: %d slots, %d points per helper.",
		category.Name, category.SlotCount(), category.PointValue()))
}

func setupRemoveCategoryHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	name := subOptions(i)["name"].StringValue()

	if err := a.Store().DeleteCategory(ctx, name); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return respondEphemeral(a, i, "No such category.")
		}
		return fmt.Errorf("error deleting category: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Category **%s** removed. Repost the panel to apply it.", name))
}

func setupAddCommandHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	opts := subOptions(i)

	cmd := &entities.CustomCommand{
		Name: strings.ToLower(opts["name"].StringValue()),
		Text: opts["text"].StringValue(),
	}
	if opt, ok := opts["image"]; ok {
		cmd.Image = opt.StringValue()
	}

	if err := a.Store().SaveCustomCommand(ctx, cmd); err != nil {
		return fmt.Errorf("error saving custom command: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Custom command **%s** saved.", cmd.Name))
}

func setupRemoveCommandHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	name := strings.ToLower(subOptions(i)["name"].StringValue())

	if err := a.Store().DeleteCustomCommand(ctx, name); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return respondEphemeral(a, i, "No such custom command.")
		}
		return fmt.Errorf("error deleting custom command: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Custom command **%s** removed.", name))
}
