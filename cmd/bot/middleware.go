package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/ultrarealm/expressbot/cmd/bot/monitoring"
	"github.com/ultrarealm/expressbot/pkg/logging"
	"github.com/ultrarealm/expressbot/pkg/request"
)

// commandController is the handler for a top-level slash command. Commands
// with subcommands route them internally.
type commandController func(a IApp, i *discordgo.InteractionCreate) error

// commandProcessor is the handler for a component or modal interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage("Internal server error")); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler dispatches slash commands, message components and modal
// submissions to their registered processors. Component and modal custom IDs
// may carry an argument after a "::" separator; the map key is the part
// before it.
func interactionHandler(
	a IApp,
	commands map[string]commandController,
	components map[string]commandProcessor,
	modals map[string]commandProcessor,
) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name := i.ApplicationCommandData().Name
			a.Log().Debug("Handling command interaction", slog.String("command", name))

			controller, ok := commands[name]
			if !ok {
				a.Log().Error("No controller found for command", slog.String("command", name))
				respondErr(a, i)
				return
			}

			t := time.Now().UTC()
			err := controller(a, i)
			monitoring.DiscordCommandDuration.WithLabelValues(name).Observe(time.Since(t).Seconds())
			if err != nil {
				a.Log().Error(fmt.Sprintf("Error processing command %s", name),
					slog.String(logging.KeyError, err.Error()))
				respondErr(a, i)
			}
		case discordgo.InteractionMessageComponent:
			customID := i.MessageComponentData().CustomID
			a.Log().Debug("Handling component interaction", slog.String("custom_id", customID))

			processor, ok := components[customIDKey(customID)]
			if !ok {
				a.Log().Error("No processor found for component", slog.String("custom_id", customID))
				respondErr(a, i)
				return
			}

			if err := processor(a, i); err != nil {
				a.Log().Error(fmt.Sprintf("Error processing component %s", customID),
					slog.String(logging.KeyError, err.Error()))
				respondErr(a, i)
			}
		case discordgo.InteractionModalSubmit:
			customID := i.ModalSubmitData().CustomID
			a.Log().Debug("Handling modal interaction", slog.String("custom_id", customID))

			processor, ok := modals[customIDKey(customID)]
			if !ok {
				a.Log().Error("No processor found for modal", slog.String("custom_id", customID))
				respondErr(a, i)
				return
			}

			if err := processor(a, i); err != nil {
				a.Log().Error(fmt.Sprintf("Error processing modal %s", customID),
					slog.String(logging.KeyError, err.Error()))
				respondErr(a, i)
			}
		}
	}
}

// customIDKey strips the argument from a custom ID, leaving the routing key.
func customIDKey(customID string) string {
	if idx := strings.Index(customID, customIDSeparator); idx >= 0 {
		return customID[:idx]
	}
	return customID
}

// customIDArg returns the argument carried by a custom ID, or "".
func customIDArg(customID string) string {
	if idx := strings.Index(customID, customIDSeparator); idx >= 0 {
		return customID[idx+len(customIDSeparator):]
	}
	return ""
}

func respondErr(a IApp, i *discordgo.InteractionCreate) {
	if err := respondError(a, i); err != nil {
		a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
}
