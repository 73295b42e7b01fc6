package catalog

import (
	"crypto/subtle"
	"fmt"
	"time"
)

// Defaults for the hidden admin trigger.
const (
	DefaultTriggerKey     = "9"
	DefaultTriggerPresses = 7
	DefaultTriggerWindow  = 5 * time.Second
)

// GateConfig configures the admin trigger and the shared secret.
type GateConfig struct {
	Secret  string
	Key     string
	Presses int
	Window  time.Duration
}

// Gate decides when a session may reach the editor: a run of Presses
// presses of Key inside Window opens admin mode, and the shared secret
// authenticates the session.
type Gate struct {
	cfg    GateConfig
	logger Logger
}

// NewGate creates a gate, filling zero fields with the defaults.
func NewGate(cfg GateConfig, logger Logger) *Gate {
	if cfg.Key == "" {
		cfg.Key = DefaultTriggerKey
	}
	if cfg.Presses <= 0 {
		cfg.Presses = DefaultTriggerPresses
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultTriggerWindow
	}
	return &Gate{cfg: cfg, logger: logger}
}

// triggerRun counts consecutive trigger presses.
type triggerRun struct {
	count int
	last  time.Time
}

// press feeds one key. Any other key resets the run to zero. A matching key
// window or more after the previous matching key begins a new run of one. It
// reports true, and resets, when the run reaches presses.
func (r *triggerRun) press(matches bool, now time.Time, presses int, window time.Duration) bool {
	if !matches {
		r.count = 0
		return false
	}
	if r.count == 0 || now.Sub(r.last) >= window {
		r.count = 1
	} else {
		r.count++
	}
	r.last = now
	if r.count >= presses {
		r.count = 0
		return true
	}
	return false
}

// KeyPress feeds a key press at now. It reports whether this press opened
// admin mode.
func (g *Gate) KeyPress(s *Session, key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.trigger.press(key == g.cfg.Key, now, g.cfg.Presses, g.cfg.Window) {
		return false
	}
	s.adminMode = true
	g.logger.Info("admin mode opened", "session", s.ID)
	return true
}

// Login checks password against the shared secret and marks the session
// authenticated. Later loads within the session skip the check.
func (g *Gate) Login(s *Session, password string) error {
	if err := g.CheckSecret(password); err != nil {
		g.logger.Warn("admin login rejected", "session", s.ID)
		return err
	}
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
	g.logger.Info("admin login", "session", s.ID)
	return nil
}

// Logout clears the authentication flag, leaves admin mode and discards any
// open editor draft.
func (g *Gate) Logout(s *Session) {
	s.mu.Lock()
	s.authenticated = false
	s.adminMode = false
	s.editor = nil
	s.mu.Unlock()
	g.logger.Info("admin logout", "session", s.ID)
}

// CheckSecret compares password with the shared secret. An empty secret
// rejects everything.
func (g *Gate) CheckSecret(password string) error {
	if g.cfg.Secret == "" || subtle.ConstantTimeCompare([]byte(password), []byte(g.cfg.Secret)) != 1 {
		return fmt.Errorf("admin secret: %w", ErrUnauthorized)
	}
	return nil
}
