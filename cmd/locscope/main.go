// CLAUDE:SUMMARY CLI entry point for locscope: one-shot report/tree/aria/emit commands plus the HTTP and MCP servers.
// Command locscope ranks stable locators for DOM elements.
//
// Usage:
//
//	locscope report --html page.html --target 'form button'
//	locscope report --url https://example.com --target '#login' --framework selenium
//	locscope tree --html page.html
//	locscope aria --url https://example.com
//	locscope emit --html page.html --target '//input[@name="q"]'
//	locscope serve --config locscope.yaml
//	locscope mcp
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/locscope/inspector"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath   string
	logLevel     string
	addrOverride string

	// local marks one-shot runs, where the operator may capture private hosts.
	local bool
}

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "locscope",
		Short: "Generate, score and rank stable locators for DOM elements",
		Long: `locscope inspects an HTML document or a live page and proposes
locators for one element, ranked by how likely they are to survive
page changes, with ready-to-paste Playwright or Selenium code.

Configuration is read from --config, else $LOCSCOPE_CONFIG, else built-in
defaults. A .env file in the working directory is loaded first.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "path to locscope.yaml (default $LOCSCOPE_CONFIG)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newReportCmd(g),
		newTreeCmd(g),
		newAriaCmd(g),
		newEmitCmd(g),
		newServeCmd(g),
		newMCPCmd(g),
	)
	return root
}

// setup loads configuration, builds the logger and the inspector.
func (g *globals) setup() (*inspector.Inspector, *slog.Logger, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if g.addrOverride != "" {
		cfg.HTTP.Addr = g.addrOverride
	}
	if g.local {
		cfg.Browser.AllowPrivate = true
	}
	levelName := cfg.LogLevel
	if g.logLevel != "" {
		levelName = g.logLevel
	}
	level, err := inspector.ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	in, err := inspector.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return in, logger, nil
}

func (g *globals) loadConfig() (*inspector.Config, error) {
	path := g.configPath
	if path == "" {
		path = os.Getenv("LOCSCOPE_CONFIG")
	}
	if path == "" {
		return inspector.DefaultConfig(), nil
	}
	cfg, err := inspector.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("locscope: %w", err)
	}
	return cfg, nil
}
