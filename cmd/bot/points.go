package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/ultrarealm/expressbot/pkg/points"
)

const (
	// PointsCmdName is the command for managing helper points.
	PointsCmdName = "points"

	// CheckCmdName shows a user's balance.
	CheckCmdName = "check"

	// AddCmdName credits points to a user.
	AddCmdName = "add"

	// SetCmdName overwrites a user's balance.
	SetCmdName = "set"

	// ClearCmdName removes a user from the ledger.
	ClearCmdName = "clear"

	// ResetCmdName wipes the whole ledger.
	ResetCmdName = "reset"
)

// pointsCmd is the command for managing helper points.
var pointsCmd = &discordgo.ApplicationCommand{
	Name:        PointsCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "Manage helper points.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        CheckCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Shows a helper's point balance.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "helper",
					Type:        discordgo.ApplicationCommandOptionUser,
					Description: "The helper to check. Defaults to you.",
				},
			},
		},
		{
			Name:        AddCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Credits points to a helper. Staff only.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "helper",
					Type:        discordgo.ApplicationCommandOptionUser,
					Description: "The helper to credit.",
					Required:    true,
				},
				{
					Name:        "amount",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Description: "The number of points. Negative values deduct.",
					Required:    true,
				},
			},
		},
		{
			Name:        SetCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Overwrites a helper's balance. Staff only.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "helper",
					Type:        discordgo.ApplicationCommandOptionUser,
					Description: "The helper to set.",
					Required:    true,
				},
				{
					Name:        "amount",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Description: "The new balance.",
					Required:    true,
				},
			},
		},
		{
			Name:        ClearCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Removes a helper from the ledger. Staff only.",
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
			Name:        ResetCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "Wipes the entire ledger. Admin only.",
		},
	},
}

// pointsCmdController routes the points subcommands.
func pointsCmdController(a IApp, i *discordgo.InteractionCreate) error {
	switch subCommand(i) {
	case CheckCmdName:
		return checkPointsHandler(a, i)
	case AddCmdName:
		return addPointsHandler(a, i)
	case SetCmdName:
		return setPointsHandler(a, i)
	case ClearCmdName:
		return clearPointsHandler(a, i)
	case ResetCmdName:
		return resetPointsHandler(a, i)
	default:
		return fmt.Errorf("unknown subcommand %q", subCommand(i))
	}
}

func checkPointsHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	target := interactionUser(i)
	opts := i.ApplicationCommandData().Options[0].Options
	if len(opts) > 0 {
		target = opts[0].UserValue(nil)
	}

	balance, err := a.Ledger().Get(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("error getting points: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("%s has **%d points**.", mention(target.ID), balance))
}

func addPointsHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}
	if !isStaff(i.Member, roles) {
		return respondEphemeral(a, i, "Only staff can adjust points.")
	}

	opts := i.ApplicationCommandData().Options[0].Options
	target := opts[0].UserValue(nil)
	amount := opts[1].IntValue()

	total, err := a.Ledger().Add(ctx, target.ID, amount)
	if err != nil {
		return fmt.Errorf("error adjusting points: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("%s now has **%d points**.", mention(target.ID), total))
}

func setPointsHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}
	if !isStaff(i.Member, roles) {
		return respondEphemeral(a, i, "Only staff can adjust points.")
	}

	opts := i.ApplicationCommandData().Options[0].Options
	target := opts[0].UserValue(nil)
	amount := opts[1].IntValue()

	if err := a.Ledger().Set(ctx, target.ID, amount); err != nil {
		if errors.Is(err, points.ErrNegativeValue) {
			return respondEphemeral(a, i, "Balances cannot be negative.")
		}
		return fmt.Errorf("error setting points: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("%s now has **%d points**.", mention(target.ID), amount))
}

func clearPointsHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}
	if !isStaff(i.Member, roles) {
		return respondEphemeral(a, i, "Only staff can adjust points.")
	}

	target := i.ApplicationCommandData().Options[0].Options[0].UserValue(nil)

	if err := a.Ledger().Remove(ctx, target.ID); err != nil {
		return fmt.Errorf("error removing points: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("%s was removed from the ledger.", mention(target.ID)))
}

func resetPointsHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	roles, err := rolesConfig(ctx, a)
	if err != nil {
		return err
	}
	if !isAdmin(i.Member, roles) {
		return respondEphemeral(a, i, "Only admins can reset the ledger.")
	}

	if err := a.Ledger().ResetAll(ctx); err != nil {
		return fmt.Errorf("error resetting ledger: %w", err)
	}

	return respondEphemeral(a, i, "The points ledger has been wiped.")
}
