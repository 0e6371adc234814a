package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"listwise/internal/api"
	"listwise/internal/config"
	"listwise/internal/listing"
	"listwise/internal/logging"
	"listwise/internal/services"
	"listwise/internal/session"
	"listwise/internal/wizard"
)

type commandContext struct {
	configFlag  *string
	sessionFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, sessionFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		sessionFlag: sessionFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// loggerValue falls back to a no-op logger when the configured sink cannot
// be opened; command output never depends on logging.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) sessionRef() string {
	if c.sessionFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.sessionFlag)
}

func (c *commandContext) apiClient() *api.Client {
	return api.New(c.configValue(), c.loggerValue())
}

// withStore opens the session database for the duration of fn.
func (c *commandContext) withStore(fn func(*session.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := session.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withSession resolves the session selected by --session and hands it to fn
// with a context carrying the session id, the active step and a fresh
// correlation id.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(ctx context.Context, store *session.Store, sess *session.Session) error) error {
	return c.withStore(func(store *session.Store) error {
		sess, err := store.Resolve(cmd.Context(), c.sessionRef())
		if err != nil {
			return err
		}
		return fn(sessionContext(cmd.Context(), sess), store, sess)
	})
}

// rulesFor returns the draft event rules of the session's flow.
func (c *commandContext) rulesFor(sess *session.Session) listing.Rules {
	return listing.Rules{Editing: sess.Editing(), MaxImages: c.configValue().MaxImagesFor(sess.Editing())}
}

// sequencerFor returns a step sequencer using the session's image limits.
func (c *commandContext) sequencerFor(sess *session.Session) wizard.Sequencer {
	cfg := c.configValue()
	return wizard.Sequencer{Limits: wizard.Limits{
		MaxImages:     cfg.MaxImagesFor(sess.Editing()),
		MaxImageBytes: cfg.MaxTotalImageBytes(),
	}.WithDefaults()}
}

func sessionContext(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithSessionID(ctx, sess.ID)
	ctx = services.WithStep(ctx, int(sess.Step))
	return services.WithRequestID(ctx, uuid.NewString())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
