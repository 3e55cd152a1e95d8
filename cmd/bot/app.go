package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ultrarealm/expressbot/cmd/bot/config"
	"github.com/ultrarealm/expressbot/cmd/bot/monitoring"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/dataaccess/connection"
	"github.com/ultrarealm/expressbot/pkg/logging"
	"github.com/ultrarealm/expressbot/pkg/panels"
	"github.com/ultrarealm/expressbot/pkg/points"
	"github.com/ultrarealm/expressbot/pkg/request"
	"github.com/ultrarealm/expressbot/pkg/tickets"
	"golang.org/x/time/rate"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for health check.
	PathHealth = "/health"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the application logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Store returns the storage layer.
	Store() *dataaccess.Store

	// Tracker returns the ticket tracker.
	Tracker() *tickets.Tracker

	// Ledger returns the points ledger.
	Ledger() *points.Ledger

	// Panels returns the persistent panel registry.
	Panels() *panels.Registry

	// AllowTicketOpen reports whether the user is within the ticket open
	// rate limit.
	AllowTicketOpen(userID string) bool
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// store is the storage layer with fallback.
	store *dataaccess.Store

	// tracker is the in-memory ticket tracker.
	tracker *tickets.Tracker

	// ledger is the points ledger.
	ledger *points.Ledger

	// panels is the persistent panel registry.
	panels *panels.Registry

	// openLimiters rate limits ticket opens per user.
	openLimiters   map[string]*rate.Limiter
	openLimitersMu sync.Mutex
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger:       l,
		r:            r,
		openLimiters: make(map[string]*rate.Limiter),
	}
}

func (a *App) Run() error {
	ctx := context.Background()

	// Connect storage before anything touches the data layer.
	if err := a.connectStorage(ctx); err != nil {
		return fmt.Errorf("error connecting storage: %w", err)
	}

	a.ledger = points.NewLedger(a.Logger, a.store)
	a.tracker = tickets.NewTracker(a.Logger, a.store, a.ledger)
	a.panels = panels.NewRegistry(a.Logger, a.store)

	if err := a.seedCategories(ctx); err != nil {
		return fmt.Errorf("error seeding categories: %w", err)
	}

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	// Re-validate persisted panels now that the session is live. The scan
	// completes before the bot reports ready.
	a.reattachPanels(ctx)

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Process shutdown signal.
	for sig := range c {
		a.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

// connectStorage builds the storage layer. The document store is preferred
// when a Mongo URI is configured and reachable; the relational store is the
// fallback and, when no URI is configured, the only backend.
func (a *App) connectStorage(ctx context.Context) error {
	sqliteFn := func(ctx context.Context) (dataaccess.Backend, error) {
		conn := &connection.SQLite{Path: config.DBFile}
		db, err := conn.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("error connecting to sqlite: %w", err)
		}
		return dataaccess.NewSQLiteBackend(a.Logger, db), nil
	}

	if config.MongoUri == "" && config.MongoUriFile == "" {
		a.Info("No MongoDB URI configured, using sqlite only")
		backend, err := sqliteFn(ctx)
		if err != nil {
			return err
		}
		a.store = dataaccess.NewStore(a.Logger, backend, nil)
		return nil
	}

	mongoConn := &connection.MongoDB{
		ConnectionString: config.MongoUri,
		CredentialsFile:  config.MongoUriFile,
	}

	if err := mongoConn.Ping(ctx); err != nil {
		a.Warn("MongoDB unreachable at startup, starting on sqlite",
			slog.String(logging.KeyError, err.Error()))
		backend, err := sqliteFn(ctx)
		if err != nil {
			return err
		}
		a.store = dataaccess.NewStore(a.Logger, backend, nil)
		return nil
	}

	client, err := mongoConn.Connect(ctx)
	if err != nil {
		return fmt.Errorf("error connecting to mongo: %w", err)
	}

	a.store = dataaccess.NewStore(a.Logger, dataaccess.NewMongoBackend(a.Logger, client), sqliteFn)
	a.Info("Connected to MongoDB", slog.String(logging.KeyBackend, dataaccess.BackendNameMongo))
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}

	// Close the storage layer.
	if err := a.store.Close(context.Background()); err != nil {
		return fmt.Errorf("error closing storage: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentsGuildMembers

	a.s = dg
	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Count every gateway event.
	a.s.AddHandler(func(_ *discordgo.Session, e *discordgo.Event) {
		if e.Type != "" {
			monitoring.TotalDiscordEvents.WithLabelValues(e.Type).Inc()
		} else {
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	})

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]commandController{
			SetupCmdName:       setupCmdController,
			PanelCmdName:       panelCmdController,
			TicketCmdName:      ticketCmdController,
			PointsCmdName:      pointsCmdController,
			LeaderboardCmdName: leaderboardCmdHandler,
			InfoCmdName:        infoCmdHandler,
		},
		// Component Controllers
		map[string]commandProcessor{
			OpenTicketButtonID:   openTicketButtonHandler,
			JoinTicketButtonID:   joinTicketHandler,
			SubmitProofButtonID:  submitProofButtonHandler,
			CloseTicketButtonID:  closeTicketHandler,
			DeleteTicketButtonID: deleteTicketButtonHandler,
			LeaderboardPrevID:    leaderboardPageHandler,
			LeaderboardRefresh:   leaderboardPageHandler,
			LeaderboardNextID:    leaderboardPageHandler,
			VerifyOpenButtonID:   verifyOpenHandler,
			VerifyCloseButtonID:  verifyCloseHandler,
		},
		// Modal Controllers
		map[string]commandProcessor{
			TicketModalID: ticketModalHandler,
			ProofModalID:  proofModalHandler,
			VerifyModalID: verifyModalHandler,
		}))
	return nil
}

// allCommands is every application command the bot registers.
func allCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		setupCmd,
		panelCmd,
		ticketCmd,
		pointsCmd,
		leaderboardCmd,
		infoCmd,
	}
}

func (a *App) registerSlashCommands() error {
	// Commands are registered globally; every guild the bot joins gets them
	// without a per-guild round trip.
	for _, cmd := range allCommands() {
		if _, err := a.s.ApplicationCommandCreate(config.ApplicationId, "", cmd); err != nil {
			return fmt.Errorf("error creating command %s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	registered, err := a.s.ApplicationCommands(config.ApplicationId, "")
	if err != nil {
		return fmt.Errorf("error getting registered commands: %w", err)
	}

	for _, cmd := range registered {
		if err := a.s.ApplicationCommandDelete(config.ApplicationId, "", cmd.ID); err != nil {
			return fmt.Errorf("error deleting command %s: %w", cmd.Name, err)
		}
	}
	return nil
}

// AllowTicketOpen enforces one ticket open per user every 30 seconds, with a
// burst of 2.
func (a *App) AllowTicketOpen(userID string) bool {
	a.openLimitersMu.Lock()
	defer a.openLimitersMu.Unlock()

	lim, ok := a.openLimiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(1.0/30.0), 2)
		a.openLimiters[userID] = lim
	}
	return lim.Allow()
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Store() *dataaccess.Store {
	return a.store
}

func (a *App) Tracker() *tickets.Tracker {
	return a.tracker
}

func (a *App) Ledger() *points.Ledger {
	return a.ledger
}

func (a *App) Panels() *panels.Registry {
	return a.panels
}
