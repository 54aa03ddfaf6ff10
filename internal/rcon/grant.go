package rcon

import (
	"context"
	"fmt"
	"time"

	"github.com/gorcon/rcon"

	"github.com/sunvm/unik-registration-tg/internal/common/config"
	"github.com/sunvm/unik-registration-tg/internal/common/logger"
)

// Grant executes whitelist commands on the game server over RCON. Each
// command uses a fresh connection: grants are rare and a held connection
// would go stale between them.
type Grant struct {
	address  string
	password string
	timeout  time.Duration
	logger   logger.Logger
}

func NewGrant(cfg config.RCONConfig, log logger.Logger) *Grant {
	return &Grant{
		address:  cfg.Address(),
		password: cfg.Password,
		timeout:  time.Duration(cfg.Timeout) * time.Millisecond,
		logger:   log.WithFields(map[string]interface{}{"component": "rcon"}),
	}
}

func (g *Grant) Execute(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	conn, err := rcon.Dial(g.address, g.password,
		rcon.SetDialTimeout(g.timeout),
		rcon.SetDeadline(g.timeout),
	)
	if err != nil {
		return "", fmt.Errorf("rcon dial %s: %w", g.address, err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			g.logger.Warn("rcon close failed", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	response, err := conn.Execute(command)
	if err != nil {
		return "", fmt.Errorf("rcon execute: %w", err)
	}
	g.logger.Debug("rcon command executed", map[string]interface{}{
		"command":  command,
		"response": response,
	})
	return response, nil
}
