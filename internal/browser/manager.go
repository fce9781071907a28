// CLAUDE:SUMMARY Manages the Chrome lifecycle for live captures: lazy launch or remote connect, relaunch after a crash, shutdown.
// Package browser drives a Chrome instance through Rod to capture live
// documents: DOM tree, computed style and layout boxes in one evaluation.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// ErrClosed is returned once the manager has been closed.
var ErrClosed = errors.New("browser: manager is closed")

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local headless Chrome via launcher.
	RemoteURL string

	// Stealth opens tabs through go-rod/stealth.
	Stealth bool

	// NavigateTimeout bounds navigation plus load. Default: 30s.
	NavigateTimeout time.Duration

	// ResourceBlocking lists resource types to block (images, fonts, media, stylesheets).
	ResourceBlocking []string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager owns one Chrome connection shared by every tab.
type Manager struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// NewManager creates a Manager. Chrome is started on first use.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Browser returns the Rod browser, launching or connecting first if needed.
// A browser that no longer answers is replaced.
func (m *Manager) Browser(ctx context.Context) (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.browser != nil {
		if _, err := m.browser.Version(); err == nil {
			return m.browser, nil
		}
		m.cfg.Logger.Warn("browser: connection lost, relaunching")
		m.cleanup()
	}

	b, err := m.launch(ctx)
	if err != nil {
		return nil, err
	}
	m.browser = b
	return b, nil
}

// Close shuts down Chrome.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cleanup()
	return nil
}

func (m *Manager) launch(ctx context.Context) (*rod.Browser, error) {
	log := m.cfg.Logger

	var wsURL string
	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Context(ctx).Headless(true)
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "stealth", m.cfg.Stealth)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}
	return b, nil
}

func (m *Manager) cleanup() {
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			m.cfg.Logger.Debug("browser: close", "error", err)
		}
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
}
