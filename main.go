package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/PixPMusic/gopher-mixxx/internal/config"
	"github.com/PixPMusic/gopher-mixxx/internal/generate"
	"github.com/PixPMusic/gopher-mixxx/internal/mappings"
)

var logger *slog.Logger

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config file] [-debug] <script>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Regenerates the [auto-generated] entries of <presets_dir>/<script>.midi.xml.\n")
	fmt.Fprintf(os.Stderr, "Built-in mappings: %s\n\n", strings.Join(mappings.Names(), ", "))
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "config file (default: user config dir)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	initLogger(*debug)

	name := flag.Arg(0)
	if flag.NArg() != 1 || name == "" || name == os.Args[0] {
		usage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("generating preset", "mapping", name, "preset", cfg.PresetPath(name))
	if err := generate.New(cfg, logger).Run(name); err != nil {
		logger.Error("failed to generate preset",
			"error", err,
			"kind", ftag.Get(err),
			"issue", fmsg.GetIssue(err))
		os.Exit(1)
	}
}
