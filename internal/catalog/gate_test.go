package catalog_test

import (
	"errors"
	"testing"
	"time"

	"catalog-go/internal/catalog"
	"catalog-go/internal/testutil"
)

func newGate() *catalog.Gate {
	return catalog.NewGate(catalog.GateConfig{Secret: "SARKSARK"}, catalog.NewNopLogger())
}

func pressRun(g *catalog.Gate, s *catalog.Session, start time.Time, n int, spacing time.Duration) bool {
	opened := false
	for i := 0; i < n; i++ {
		if g.KeyPress(s, "9", start.Add(time.Duration(i)*spacing)) {
			opened = true
		}
	}
	return opened
}

func even(n int, d time.Duration) []time.Duration {
	gaps := make([]time.Duration, n)
	for i := range gaps {
		gaps[i] = d
	}
	return gaps
}

func TestGate_Trigger(t *testing.T) {
	start := testutil.FixedClock().Now()
	quick := 10 * time.Millisecond

	tests := []struct {
		name string
		gaps []time.Duration // between consecutive presses
		want bool
	}{
		{name: "seven presses within 4.9s", gaps: even(6, 4900*time.Millisecond/6), want: true},
		{name: "seven presses one second apart", gaps: even(6, time.Second), want: true},
		{name: "5.1s gap before the seventh press", gaps: append(even(5, quick), 5100*time.Millisecond), want: false},
		{name: "gap of exactly the window", gaps: append(even(5, quick), 5*time.Second), want: false},
		{name: "six quick presses", gaps: even(5, quick), want: false},
		{name: "seven quick presses", gaps: even(6, quick), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGate()
			s := catalog.NewSession("s", start)
			now := start
			opened := g.KeyPress(s, "9", now)
			for _, gap := range tt.gaps {
				now = now.Add(gap)
				if g.KeyPress(s, "9", now) {
					opened = true
				}
			}
			if opened != tt.want {
				t.Errorf("admin mode opened = %v, want %v", opened, tt.want)
			}
			if s.AdminMode() != tt.want {
				t.Errorf("AdminMode() = %v, want %v", s.AdminMode(), tt.want)
			}
		})
	}
}

func TestGate_GapRestartsRunAtOne(t *testing.T) {
	g := newGate()
	start := testutil.FixedClock().Now()
	s := catalog.NewSession("s", start)

	pressRun(g, s, start, 6, 10*time.Millisecond)
	later := start.Add(50*time.Millisecond + 5100*time.Millisecond)
	if pressRun(g, s, later, 6, 10*time.Millisecond) {
		t.Fatal("run survived a 5.1s gap")
	}
	if !g.KeyPress(s, "9", later.Add(60*time.Millisecond)) {
		t.Error("seventh press after the gap did not open admin mode")
	}
}

func TestGate_OtherKeyResetsRun(t *testing.T) {
	g := newGate()
	start := testutil.FixedClock().Now()
	s := catalog.NewSession("s", start)

	pressRun(g, s, start, 6, 10*time.Millisecond)
	g.KeyPress(s, "8", start.Add(70*time.Millisecond))
	if pressRun(g, s, start.Add(80*time.Millisecond), 6, 10*time.Millisecond) {
		t.Fatal("run survived a different key")
	}
	if !g.KeyPress(s, "9", start.Add(200*time.Millisecond)) {
		t.Error("seventh fresh press did not open admin mode")
	}
}

func TestGate_StaleRunStartsOver(t *testing.T) {
	g := newGate()
	start := testutil.FixedClock().Now()
	s := catalog.NewSession("s", start)

	pressRun(g, s, start, 5, 10*time.Millisecond)
	later := start.Add(10 * time.Second)
	if pressRun(g, s, later, 6, 10*time.Millisecond) {
		t.Fatal("stale presses counted toward the new run")
	}
	if !g.KeyPress(s, "9", later.Add(time.Second)) {
		t.Error("seventh press of the new run did not open admin mode")
	}
}

func TestGate_CustomTrigger(t *testing.T) {
	g := catalog.NewGate(catalog.GateConfig{Secret: "x", Key: "a", Presses: 3, Window: time.Second}, catalog.NewNopLogger())
	now := testutil.FixedClock().Now()
	s := catalog.NewSession("s", now)
	g.KeyPress(s, "a", now)
	g.KeyPress(s, "a", now.Add(100*time.Millisecond))
	if !g.KeyPress(s, "a", now.Add(200*time.Millisecond)) {
		t.Error("custom trigger did not fire")
	}
}

func TestGate_Login(t *testing.T) {
	t.Run("correct secret", func(t *testing.T) {
		g := newGate()
		s := catalog.NewSession("s", time.Time{})
		if err := g.Login(s, "SARKSARK"); err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if !s.Authenticated() {
			t.Error("Authenticated() = false after login")
		}
		if s.IsAdmin() {
			t.Error("IsAdmin() = true without admin mode")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		g := newGate()
		s := catalog.NewSession("s", time.Time{})
		if err := g.Login(s, "sarksark"); !errors.Is(err, catalog.ErrUnauthorized) {
			t.Errorf("Login() error = %v, want ErrUnauthorized", err)
		}
		if s.Authenticated() {
			t.Error("Authenticated() = true after rejected login")
		}
	})

	t.Run("empty secret rejects everything", func(t *testing.T) {
		g := catalog.NewGate(catalog.GateConfig{}, catalog.NewNopLogger())
		if err := g.CheckSecret(""); !errors.Is(err, catalog.ErrUnauthorized) {
			t.Errorf("CheckSecret(\"\") error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestGate_Logout(t *testing.T) {
	g := newGate()
	now := testutil.FixedClock().Now()
	s := catalog.NewSession("s", now)
	pressRun(g, s, now, 7, time.Millisecond)
	if err := g.Login(s, "SARKSARK"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !s.IsAdmin() {
		t.Fatal("IsAdmin() = false after trigger and login")
	}
	es := s.Editor()

	g.Logout(s)
	if s.IsAdmin() || s.Authenticated() || s.AdminMode() {
		t.Error("admin flags survived logout")
	}
	if s.Editor() == es {
		t.Error("edit session survived logout")
	}
}

func TestSession_LeaveAdminModeKeepsLogin(t *testing.T) {
	g := newGate()
	now := testutil.FixedClock().Now()
	s := catalog.NewSession("s", now)
	pressRun(g, s, now, 7, time.Millisecond)
	_ = g.Login(s, "SARKSARK")

	s.LeaveAdminMode()
	if s.AdminMode() {
		t.Error("AdminMode() = true after leaving")
	}
	if !s.Authenticated() {
		t.Error("Authenticated() = false after leaving admin mode")
	}
	pressRun(g, s, now.Add(time.Minute), 7, time.Millisecond)
	if !s.IsAdmin() {
		t.Error("re-entering admin mode asked for the secret again")
	}
}

func TestSessions_Registry(t *testing.T) {
	r := catalog.NewSessions(testutil.NewPrefixedIDGenerator("sess"), testutil.FixedClock())
	a := r.Create()
	b := r.Create()
	if a.ID == b.ID {
		t.Fatal("sessions share an id")
	}
	if got, ok := r.Get(a.ID); !ok || got != a {
		t.Error("Get() did not return created session")
	}
	r.Delete(a.ID)
	if _, ok := r.Get(a.ID); ok {
		t.Error("session still present after Delete")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}
