// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
	"github.com/anteroom-foundation/anteroom/gateway"
	"github.com/anteroom-foundation/anteroom/lib/config"
)

// gatewaySession carries the flags shared by every command that talks
// to a gateway: which config file, which gateway profile, and how long
// to wait for the connection to come up.
type gatewaySession struct {
	configPath  string
	gatewayName string
	timeout     time.Duration
}

func (s *gatewaySession) registerFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&s.configPath, "config", "", "path to anteroom.yaml (default $ANTEROOM_CONFIG)")
	flagSet.StringVar(&s.gatewayName, "gateway", "", "gateway profile name from the config file")
	flagSet.DurationVar(&s.timeout, "timeout", 15*time.Second, "how long to wait for the gateway connection")
}

// loadConfig resolves the config file from --config or ANTEROOM_CONFIG
// and validates it.
func (s *gatewaySession) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if s.configPath != "" {
		cfg, err = config.LoadFile(s.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// liveConsole bundles a connected gateway client with the console API
// and the resolved configuration, for the duration of one command.
type liveConsole struct {
	Config  *config.Config
	Profile config.GatewayConfig
	Client  *gateway.Client
	Console *console.Console
	Logger  *slog.Logger
}

// Close stops the gateway client, failing any requests still in
// flight.
func (l *liveConsole) Close() {
	l.Client.Stop()
}

// open connects to the selected gateway and blocks until the
// handshake completes or the session timeout elapses. The onEvent
// hook, when non-nil, receives every event frame for the life of the
// connection; the handshake snapshot is cached on every successful
// hello regardless.
func (s *gatewaySession) open(command string, onEvent func(gateway.Event)) (*liveConsole, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, err
	}

	profile, err := cfg.Gateway(s.gatewayName)
	if err != nil {
		return nil, err
	}

	logger := cli.NewCommandLogger().With("command", command)
	snapshots := console.OpenSnapshotCache(filepath.Join(cfg.Paths.State, "snapshots"))

	connected := make(chan struct{}, 1)
	client, err := gateway.New(gateway.Config{
		URL:            profile.URL,
		Token:          profile.Token,
		Role:           profile.Role,
		Scopes:         profile.Scopes,
		HandshakeDelay: profile.HandshakeDelay,
		ReconnectBase:  profile.ReconnectBase,
		ReconnectMax:   profile.ReconnectMax,
		Logger:         logger,
		OnHello: func(hello *gateway.Hello) {
			if len(hello.Snapshot) == 0 {
				return
			}
			digest, changed, err := snapshots.Store(profile.URL, hello.Snapshot)
			if err != nil {
				logger.Warn("snapshot cache write failed", "error", err)
				return
			}
			if changed {
				logger.Info("gateway snapshot updated", "digest", digest)
			}
		},
		OnConnect: func() {
			select {
			case connected <- struct{}{}:
			default:
			}
		},
		OnEvent: onEvent,
	})
	if err != nil {
		return nil, err
	}

	client.Start()
	select {
	case <-connected:
	case <-time.After(s.timeout):
		client.Stop()
		return nil, fmt.Errorf("gateway %s: no connection after %s", profile.URL, s.timeout)
	}

	return &liveConsole{
		Config:  cfg,
		Profile: profile,
		Client:  client,
		Console: console.New(client, logger),
		Logger:  logger,
	}, nil
}

// run opens the session, invokes fn with an interrupt-cancelled
// context, and tears the connection down afterwards. Most gateway
// commands are a single fn body over this.
func (s *gatewaySession) run(command string, fn func(ctx context.Context, c *console.Console) error) error {
	live, err := s.open(command, nil)
	if err != nil {
		return err
	}
	defer live.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return fn(ctx, live.Console)
}

// localState is the flag set for commands that only touch local
// console state (contacts, notes, cached snapshots) and never dial.
type localState struct {
	configPath string
}

func (s *localState) registerFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&s.configPath, "config", "", "path to anteroom.yaml (default $ANTEROOM_CONFIG)")
}

func (s *localState) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if s.configPath != "" {
		cfg, err = config.LoadFile(s.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}
