package puzzle

import (
	"bytes"
	"strings"
	"testing"

	"islandquest/internal/components"
	"islandquest/internal/engine"
	"islandquest/internal/tether"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const dt = float32(1.0 / 60)

type fakeRod struct {
	cast, reel engine.Event
	current    *tether.Attachable
}

func (f *fakeRod) Events() (cast, reel *engine.Event) { return &f.cast, &f.reel }

func (f *fakeRod) CurrentObject() *tether.Attachable { return f.current }

func newObject(name string, pos rl.Vector3, magnetic bool) *tether.Attachable {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	rb := components.NewRigidbody()
	g.AddComponent(rb)
	a := tether.NewAttachable(rb, magnetic)
	g.AddComponent(a)
	return a
}

// tethered returns a magnet already out on the line, as the rod leaves it.
func tethered(pos rl.Vector3) *tether.Attachable {
	m := newObject("Magnet", pos, true)
	if err := m.Claim(tether.OwnerRod, tether.Tethered); err != nil {
		panic(err)
	}
	return m
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := engine.Logger.Writer()
	engine.Logger.SetOutput(&buf)
	t.Cleanup(func() { engine.Logger.SetOutput(prev) })
	return &buf
}

func newReveal(t *testing.T) (*KeyReveal, *fakeRod, *tether.Attachable, *engine.GameObject) {
	t.Helper()
	rod := &fakeRod{current: tethered(rl.Vector3{Y: 1, Z: 10})}
	key := newObject("Key", rl.Vector3{Y: -5, Z: 20}, false)
	landing := engine.NewGameObject("KeyLanding")
	landing.Transform.Position = rl.Vector3{X: 2, Y: 0.5}
	landing.Transform.Rotation = rl.Vector3{Y: 45}

	cfg := DefaultKeyRevealConfig()
	cfg.LocalOffset = rl.Vector3{Y: 0.2}
	k := NewKeyReveal(cfg, rod, key, landing)
	return k, rod, key, landing
}

func TestKeyHiddenUntilRevealed(t *testing.T) {
	_, _, key, _ := newReveal(t)
	if key.GetGameObject().Active {
		t.Error("Key should start inactive")
	}
}

func TestKeyRevealedOnThirdCast(t *testing.T) {
	k, rod, key, _ := newReveal(t)
	revealed := 0
	k.Revealed.AddListener(func() { revealed++ })

	rod.cast.Invoke()
	rod.cast.Invoke()
	if k.State() != Dormant {
		t.Fatalf("Expected Dormant after 2 casts, got %v", k.State())
	}

	rod.cast.Invoke()
	if k.State() != Attached {
		t.Fatalf("Expected Attached after 3 casts, got %v", k.State())
	}
	if revealed != 1 {
		t.Errorf("Expected 1 Revealed event, got %d", revealed)
	}

	g := key.GetGameObject()
	if !g.Active {
		t.Error("Key should be active once revealed")
	}
	if g.Parent != rod.current.GetGameObject() {
		t.Error("Key should be parented under the magnet")
	}
	if key.Owner() != tether.OwnerReveal || key.Mode() != tether.Docked {
		t.Errorf("Expected Docked/puzzle, got %s/%s", key.Mode(), key.Owner())
	}
	if key.Body().IsSimulated() {
		t.Error("Key physics should be off while stuck to the magnet")
	}
	want := rl.Vector3{Y: 1.2, Z: 10}
	if got := key.Position(); rl.Vector3Distance(got, want) > 1e-5 {
		t.Errorf("Expected key at %v, got %v", want, got)
	}

	rod.cast.Invoke()
	if revealed != 1 || k.Casts() != 4 {
		t.Errorf("Expected reveal once and 4 casts counted, got %d and %d", revealed, k.Casts())
	}
}

func TestReelBeforeRevealDoesNothing(t *testing.T) {
	k, rod, _, _ := newReveal(t)
	rod.cast.Invoke()
	rod.reel.Invoke()
	if k.Hopping() || k.State() != Dormant {
		t.Errorf("Expected Dormant and no hop, got %v", k.State())
	}
}

func TestKeyDeliveredAfterReel(t *testing.T) {
	k, rod, key, landing := newReveal(t)
	delivered := 0
	k.Delivered.AddListener(func() { delivered++ })

	for i := 0; i < 3; i++ {
		rod.cast.Invoke()
	}
	rod.reel.Invoke()

	if !k.Hopping() {
		t.Fatal("Expected the key to start hopping")
	}
	if key.GetGameObject().Parent != nil {
		t.Error("Key should be unparented for the hop")
	}
	if key.Mode() != tether.InFlight {
		t.Errorf("Expected InFlight, got %s", key.Mode())
	}

	for i := 0; i < 41; i++ {
		k.Update(dt)
	}
	if k.State() != Attached {
		t.Fatalf("Expected hop still running after 41 ticks, got %v", k.State())
	}

	k.Update(dt)
	if k.State() != Delivered {
		t.Fatalf("Expected Delivered after 42 ticks, got %v", k.State())
	}
	if got := key.Position(); got != landing.WorldPosition() {
		t.Errorf("Expected key exactly at landing %v, got %v", landing.WorldPosition(), got)
	}
	if got := key.GetGameObject().WorldRotation(); got != landing.WorldRotation() {
		t.Errorf("Expected landing rotation %v, got %v", landing.WorldRotation(), got)
	}
	if key.Mode() != tether.Free || key.Owner() != tether.OwnerNone {
		t.Errorf("Expected key released to physics, got %s/%s", key.Mode(), key.Owner())
	}
	if !key.Body().IsSimulated() {
		t.Error("Key physics should be back on")
	}

	rod.reel.Invoke()
	k.Update(dt)
	if delivered != 1 || k.State() != Delivered {
		t.Errorf("Expected exactly one delivery, got %d", delivered)
	}
}

func TestRevealAttemptedOnceWhenMagnetMissing(t *testing.T) {
	buf := captureLog(t)
	k, rod, key, _ := newReveal(t)
	magnet := rod.current
	rod.current = nil

	for i := 0; i < 3; i++ {
		rod.cast.Invoke()
	}
	if k.State() != Dormant {
		t.Fatalf("Expected Dormant without a magnet, got %v", k.State())
	}
	if !strings.Contains(buf.String(), "magnet not available") {
		t.Errorf("Expected a warning, got %q", buf.String())
	}

	rod.current = magnet
	rod.cast.Invoke()
	if k.State() != Dormant {
		t.Errorf("Expected the reward to stay Dormant after the threshold cast, got %v", k.State())
	}
	if key.GetGameObject().Active {
		t.Error("Key should stay hidden")
	}
	if key.Owner() != tether.OwnerNone || key.Mode() != tether.Free {
		t.Errorf("Expected key left with physics, got %s/%s", key.Mode(), key.Owner())
	}
	if k.Casts() != 4 {
		t.Errorf("Expected 4 casts counted, got %d", k.Casts())
	}
}

func TestRevealKeepsKeyHiddenWhenClaimFails(t *testing.T) {
	captureLog(t)
	k, rod, key, _ := newReveal(t)
	if err := key.Claim(tether.OwnerAttachment, tether.Docked); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		rod.cast.Invoke()
	}
	if k.State() != Dormant {
		t.Errorf("Expected Dormant when the key cannot be claimed, got %v", k.State())
	}
	if key.GetGameObject().Active {
		t.Error("Key should stay hidden when the claim fails")
	}
	if key.Owner() != tether.OwnerAttachment {
		t.Errorf("Expected the other owner to keep the key, got %s", key.Owner())
	}
}

func TestPopupAndRevealOwnersDiffer(t *testing.T) {
	if tether.OwnerPopup == tether.OwnerReveal || tether.OwnerPopup.String() == tether.OwnerReveal.String() {
		t.Errorf("Expected distinct owner tags, got %s and %s", tether.OwnerPopup, tether.OwnerReveal)
	}
}

func TestMissingLandingSkipsHop(t *testing.T) {
	buf := captureLog(t)
	rod := &fakeRod{current: tethered(rl.Vector3{Z: 5})}
	key := newObject("Key", rl.Vector3{}, false)
	cfg := DefaultKeyRevealConfig()
	cfg.Threshold = 1
	k := NewKeyReveal(cfg, rod, key, nil)

	rod.cast.Invoke()
	rod.reel.Invoke()

	if k.Hopping() || k.State() != Attached {
		t.Errorf("Expected to stay Attached without a landing spot, got %v", k.State())
	}
	if !strings.Contains(buf.String(), "no landing spot") {
		t.Errorf("Expected a warning, got %q", buf.String())
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	k, rod, _, _ := newReveal(t)
	if rod.cast.GetListenerCount() != 1 || rod.reel.GetListenerCount() != 1 {
		t.Fatal("Expected one listener on each event")
	}
	k.Close()
	if rod.cast.GetListenerCount() != 0 || rod.reel.GetListenerCount() != 0 {
		t.Error("Expected listeners removed after Close")
	}
	for i := 0; i < 5; i++ {
		rod.cast.Invoke()
	}
	if k.Casts() != 0 {
		t.Errorf("Closed listener still counting: %d", k.Casts())
	}
	k.Close()
}

func TestKeyRevealConfigValidate(t *testing.T) {
	if err := DefaultKeyRevealConfig().Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
	cfg := DefaultKeyRevealConfig()
	cfg.Threshold = 0
	if cfg.Validate() == nil {
		t.Error("Expected error for zero threshold")
	}
}
