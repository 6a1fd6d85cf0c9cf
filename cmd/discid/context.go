package main

import (
	"log/slog"
	"strings"
	"sync"

	"discid/internal/config"
	"discid/internal/discid"
	"discid/internal/drive"
	"discid/internal/logging"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
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
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// JSONMode reports whether --json was requested.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// newSession builds a disc session backed by the platform drive reader.
func (c *commandContext) newSession() (*discid.Session, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return discid.NewSession(drive.NewReader(logger), discid.WithLogger(logger))
}

// deviceFor resolves the device to read: flag, then config, then the
// reader default (empty string).
func (c *commandContext) deviceFor(flagValue string) string {
	if device := strings.TrimSpace(flagValue); device != "" {
		return device
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		return cfg.Drive.Device
	}
	return ""
}
