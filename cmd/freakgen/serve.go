package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/freakgen/freakgen/generate"
	"github.com/freakgen/freakgen/server"
	"github.com/freakgen/freakgen/session"
	"github.com/freakgen/freakgen/version"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP API around one generation session: generate, undo,
redo and lock modules, browse and maintain the library and send patches
to the instrument.

Example:
  freakgen serve --addr localhost:8080 --virtual`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from preferences)")
}

func runServe(c *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	sender, closer, err := openSender(c)
	if err != nil {
		logger.Warn("MIDI dispatch disabled", "err", err)
		sender, closer = nil, func() error { return nil }
	}
	defer closer()

	sess := session.New(generate.NewRand(rand.Uint64()), prefs.History.Depth)
	cfg := server.Config{Addr: orDefault(serveAddr, prefs.Server.Addr), AppVersion: version.VersionOrHash}
	srv, err := server.New(cfg, sess, lib, sender, logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
