//go:build !dev

package rod

import (
	"bytes"
	"strings"
	"testing"

	"islandquest/internal/engine"
)

func TestLostAttachPointSkipsTick(t *testing.T) {
	var buf bytes.Buffer
	prev := engine.Logger.Writer()
	engine.Logger.SetOutput(&buf)
	defer engine.Logger.SetOutput(prev)

	g := newRig(t, testConfig())
	g.rod.RequestActivate()
	g.step(5)
	before := g.magnet.Position()

	g.rod.attachPoint = nil
	g.step(5)

	if !strings.Contains(buf.String(), "ASSERT Rod: attach point lost") {
		t.Errorf("Expected an assertion log, got %q", buf.String())
	}
	if g.magnet.Position() != before {
		t.Error("Magnet should not move while the attach point is missing")
	}
	if g.rod.State() != CastingOut {
		t.Errorf("Expected state unchanged, got %v", g.rod.State())
	}
}
