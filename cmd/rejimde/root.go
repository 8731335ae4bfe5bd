package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/app"
	"github.com/rejimde/terminal/internal/auth"
	"github.com/rejimde/terminal/internal/feed"
	"github.com/rejimde/terminal/internal/guard"
	"github.com/rejimde/terminal/internal/logging"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/session"
	"github.com/rejimde/terminal/internal/store"
)

// env bundles the collaborators shared by every command.
type env struct {
	cfg      *model.AppConfig
	logger   *zap.Logger
	sessions *session.Store
	client   *api.Client
	auth     *auth.Service
}

// setup loads config, logging, and the session for a command run.
func setup(configPath string) (*env, error) {
	if configPath == "" {
		configPath = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	sessions, err := session.Open()
	if err != nil {
		// A broken keyring means a logged-out start, not a dead app.
		logger.Warn("loading persisted session", zap.Error(err))
	}

	client := api.NewClient(
		cfg.API.BaseURL,
		sessions,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
		logger,
	)

	return &env{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		client:   client,
		auth:     auth.New(client, sessions),
	}, nil
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rejimde",
		Short: "Terminal client for the Rejimde platform",
		Long: "rejimde is a terminal client for the Rejimde health and fitness\n" +
			"platform: notifications, tasks, badges, activity, leagues and clans.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(configPath)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			cache, err := store.NewSQLiteStore(e.cfg.CachePath)
			if err != nil {
				e.logger.Warn("opening snapshot cache", zap.Error(err))
				cache = nil
			}
			if cache != nil {
				defer cache.Close()
			}

			interval := time.Duration(e.cfg.Feed.PollIntervalSec) * time.Second
			var feedCache feed.Cache
			if cache != nil {
				feedCache = cache
			}

			deps := app.Deps{
				Config:   e.cfg,
				Client:   e.client,
				Sessions: e.sessions,
				Auth:     e.auth,
				Guard: guard.New(
					guard.Policy{
						ReconcileTimeout:  time.Duration(e.cfg.Guard.ReconcileTimeoutSec) * time.Second,
						TrustCacheOnError: true,
					},
					e.client, e.sessions, e.logger,
				),
				Cache:      feedCache,
				Logger:     e.logger,
				Feed:       feed.NewNotificationFeed(e.client, e.sessions, feedCache, interval, e.logger),
				ExpertFeed: feed.NewExpertNotificationFeed(e.client, e.sessions, feedCache, interval, e.logger),
			}

			program := tea.NewProgram(app.New(deps), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("running app: %w", err)
			}

			deps.Feed.Stop()
			deps.ExpertFeed.Stop()
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	cmd.AddCommand(
		newLoginCmd(&configPath),
		newLogoutCmd(&configPath),
		newWhoamiCmd(&configPath),
		newNotificationsCmd(&configPath),
		newVersionCmd(),
	)
	return cmd
}
