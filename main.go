package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tabdeck/tabdeck/core"
	"github.com/tabdeck/tabdeck/internal/config"
	"github.com/tabdeck/tabdeck/state"
	"github.com/tabdeck/tabdeck/tmpl"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logFile string
		feedURL string
		noDemo  bool
	)
	cmd := &cobra.Command{
		Use:   "tabdeck [dashboard.yaml]",
		Short: "Conditionally-visible dashboard tabs for the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logFile == "" {
				logFile = cfg.Log.File
			}
			if feedURL == "" {
				feedURL = cfg.Feed.URL
			}
			path := cfg.Dashboard.Path
			if len(args) == 1 {
				path = args[0]
			}
			return run(path, feedURL, logFile, cfg.Log.Level, !noDemo)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	cmd.Flags().StringVar(&feedURL, "feed", "", "websocket entity-state feed URL")
	cmd.Flags().BoolVar(&noDemo, "no-demo", false, "do not drive the built-in demo entities")
	return cmd
}

func run(dashboardPath, feedURL, logFile, logLevel string, demo bool) error {
	// The terminal is the UI; logs go to a file or nowhere.
	log := logrus.New()
	log.SetOutput(io.Discard)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	if lvl, err := logrus.ParseLevel(logLevel); err == nil {
		log.SetLevel(lvl)
	}

	store := state.NewStore()
	engine := tmpl.NewEngine(store, log)
	defer engine.Close()

	deck := core.NewDeck(cardFactory{}, engine)
	deck.SetLogger(log)
	deck.Attach()
	defer deck.Detach()

	raw, err := loadDashboard(dashboardPath)
	if err != nil {
		return err
	}
	if err := deck.Apply(raw); err != nil {
		return err
	}

	var df *demoFeed
	if demo && feedURL == "" {
		df = newDemoFeed(store)
		df.Start()
		defer df.Stop()
	}
	if feedURL != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		feed := state.NewFeed(feedURL, store, log)
		go func() { _ = feed.Run(ctx) }()
		defer feed.Close()
	}

	store.Subscribe(func(snap core.Snapshot) { deck.SetStates(snap) })
	deck.SetStates(store.Snapshot())

	m := newApp(deck, store, df, dashboardPath)
	deck.SetOnDirty(m.notifyDirty)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
