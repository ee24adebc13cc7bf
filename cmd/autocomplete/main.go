// Copyright 2025 The AutoComplete Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the autocomplete widget in one of three hosts.

# Usage

Open the widget in a full-screen terminal page:

	autocomplete run

Drive the widget over MessagePack on stdin/stdout:

	autocomplete serve

Type queries line by line for debugging:

	autocomplete cli -d

All commands accept a candidate list and a config file:

	autocomplete --data fruits.txt --config ./config.toml run

The candidate list may be JSON (an array of strings), plain text (one entry
per line, '#' starts a comment) or MessagePack. Without --data the built-in
fruit list is used.

# Configuration

The config file is created with defaults under the user config dir when
missing:

	[app]
	title = "AutoComplete Component"

	[widget]
	placeholder = "Search..."
	width = 40

	[data]
	path = ""
	unique = false

	[theme]
	match = "#eb6f92"
	error = "#eb6f92"
	muted = "#6e6a86"
	border = "#31748f"

# IPC Protocol

serve writes a ready message, then answers every request with the widget
state. Filter results arrive later as extra state messages carrying the id of
the keystroke that caused them:

	{"id": "1", "ev": "mount", "x": 0, "y": 0, "w": 40, "h": 8}
	{"id": "2", "ev": "key", "t": "ap"}
	{"id": "2", "in": "ap", "open": true, "items": [{"b": "", "m": "Ap", "a": "ple"}], "seq": 1}

See package server for the full message set.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/autocomplete/internal/cli"
	"github.com/bastiangx/autocomplete/internal/logger"
	"github.com/bastiangx/autocomplete/internal/tui"
	"github.com/bastiangx/autocomplete/internal/utils"
	"github.com/bastiangx/autocomplete/pkg/candidates"
	"github.com/bastiangx/autocomplete/pkg/config"
	"github.com/bastiangx/autocomplete/pkg/filter"
	"github.com/bastiangx/autocomplete/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	Version = "0.3.0"
	AppName = "autocomplete"
	gh      = "https://github.com/bastiangx/autocomplete"
)

type options struct {
	configPath string
	dataPath   string
	logFile    string
	debug      bool
}

// session is everything a host needs, built once per command.
type session struct {
	cfg    *config.Config
	engine *filter.Engine
}

// sigContext returns a context cancelled on interrupt or SIGTERM.
func sigContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var showVersion bool

	root := &cobra.Command{
		Use:           AppName,
		Short:         "A filterable autocomplete input",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion()
				return nil
			}
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a TOML config file")
	flags.StringVar(&opts.dataPath, "data", "", "Candidate list file (.json, .txt, .msgpack)")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "Toggle debug mode")
	root.Flags().BoolVar(&showVersion, "version", false, "Show current version")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the widget in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	runCmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file while the UI is open")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Drive the widget over MessagePack on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(opts)
		},
	}

	cliCmd := &cobra.Command{
		Use:   "cli",
		Short: "Type queries line by line, useful for testing and debugging",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCLI(opts)
		},
	}

	root.AddCommand(runCmd, serveCmd, cliCmd)
	return root
}

// setup configures logging, then loads config and candidates.
func setup(opts *options) (*session, error) {
	if opts.debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
		pathResolver = nil
	}

	cfg, cfgPath, err := config.LoadConfigWithPriority(opts.configPath, pathResolver)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfgPath != "" {
		log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(cfgPath))
	}

	dataPath := opts.dataPath
	if dataPath == "" {
		dataPath = cfg.Data.Path
	}
	if dataPath != "" && pathResolver != nil {
		dataPath, err = pathResolver.ResolveDataFile(dataPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve candidate file: %w", err)
		}
	}

	list, err := candidates.Load(dataPath, candidates.Options{Unique: cfg.Data.Unique})
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	engine := filter.NewEngine(list)
	log.Debug("Filter ready", "stats", engine.Stats())
	return &session{cfg: cfg, engine: engine}, nil
}

func runTUI(opts *options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Error("run needs a terminal; use serve or cli when piping")
		return errors.New("stdout is not a terminal")
	}

	s, err := setup(opts)
	if err != nil {
		log.Errorf("%v", err)
		return err
	}

	// stdout and stderr belong to the UI from here on
	if opts.logFile != "" {
		closeLog, err := logger.RedirectToFile(opts.logFile)
		if err != nil {
			log.Errorf("Failed to open log file: %v", err)
			return err
		}
		defer closeLog()
	} else {
		logger.Discard()
	}

	ctx, stop := sigContext()
	defer stop()
	return tui.Run(ctx, s.cfg, s.engine)
}

func runServer(opts *options) error {
	s, err := setup(opts)
	if err != nil {
		log.Errorf("%v", err)
		return err
	}

	ctx, stop := sigContext()
	defer stop()

	showStartupInfo(len(s.engine.Candidates()))

	srv := server.NewServer(s.engine, len(s.engine.Candidates()), os.Stdin, os.Stdout)
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(ctx) }()

	select {
	case err = <-errc:
	case <-ctx.Done():
		// a blocking stdin read may never see the cancellation
		select {
		case err = <-errc:
		case <-time.After(time.Second):
			fmt.Fprintf(os.Stderr, "\nExiting...\n")
			return nil
		}
	}
	if err != nil {
		log.Errorf("Server stopped: %v", err)
		return err
	}
	return nil
}

func runCLI(opts *options) error {
	s, err := setup(opts)
	if err != nil {
		log.Errorf("%v", err)
		return err
	}
	log.SetReportTimestamp(false)

	ctx, stop := sigContext()
	defer stop()

	match := tui.NewStyles(s.cfg.Theme).Match
	handler := cli.NewInputHandler(s.engine, os.Stdin, os.Stdout, match)
	if err := handler.Start(ctx); err != nil {
		log.Errorf("CLI error: %v", err)
		return err
	}
	return nil
}

func printVersion() {
	banner := logger.NewWithConfig(os.Stderr, "", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ AutoComplete ] A filterable input with a dropdown")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available commands")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo goes to stderr; stdout carries the protocol.
func showStartupInfo(count int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("candidates: %d", count)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
