package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/feltworks/holdemd/internal/server"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`

	Config    string `kong:"default='holdemd.hcl',help='Path to HCL configuration file'"`
	Addr      string `kong:"help='Listen address, overrides the config file'"`
	Port      int    `kong:"help='Listen port, overrides the config file'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
	GodSecret string `kong:"env='HOLDEMD_GOD_SECRET',help='Privileged-mode shared secret, overrides the config file'"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdemd"),
		kong.Description("Multi-room No-Limit Texas Hold'em server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func (c *CLI) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.GodSecret != "" {
		cfg.Server.GodSecret = c.GodSecret
	}
	if c.Debug {
		cfg.Server.LogLevel = "debug"
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "holdemd",
	})
	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	logger.Info("starting",
		"version", version,
		"addr", cfg.Server.Address,
		"port", cfg.Server.Port,
		"small_blind", cfg.Rooms.SmallBlind,
		"big_blind", cfg.Rooms.BigBlind,
		"max_seats", cfg.Rooms.MaxSeats,
	)

	srv := server.New(cfg, logger, quartz.NewReal())

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return nil
	})
	return g.Wait()
}
