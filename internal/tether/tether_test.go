package tether

import (
	"errors"
	"testing"

	"islandquest/internal/components"
	"islandquest/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func newMagnet(name string, pos rl.Vector3, magnetic bool) (*Attachable, *components.Rigidbody) {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	rb := components.NewRigidbody()
	g.AddComponent(rb)
	a := NewAttachable(rb, magnetic)
	g.AddComponent(a)
	return a, rb
}

func newAttachPoint(pos rl.Vector3) *engine.GameObject {
	g := engine.NewGameObject("AttachPoint")
	g.Transform.Position = pos
	return g
}

func TestNewAttachableIsFree(t *testing.T) {
	a, rb := newMagnet("Magnet", rl.Vector3{}, true)
	if a.Mode() != Free || a.Owner() != OwnerNone {
		t.Errorf("Expected Free/physics, got %s/%s", a.Mode(), a.Owner())
	}
	if !rb.Simulated {
		t.Error("Free object should be simulated")
	}
	if !a.PhysicsOwned() {
		t.Error("Free unowned object should be physics owned")
	}
}

func TestSimulatedOnlyWhenFree(t *testing.T) {
	a, rb := newMagnet("Magnet", rl.Vector3{}, true)
	rb.Velocity = rl.Vector3{X: 3}

	for _, m := range []Mode{Docked, Tethered, InFlight} {
		if err := a.Claim(OwnerPopup, m); err != nil {
			t.Fatalf("Claim(%s): %v", m, err)
		}
		if rb.Simulated {
			t.Errorf("Mode %s should not be simulated", m)
		}
		if rb.Velocity != (rl.Vector3{}) {
			t.Errorf("Mode %s should zero velocity", m)
		}
		if err := a.Release(OwnerPopup); err != nil {
			t.Fatalf("Release: %v", err)
		}
		if !rb.Simulated {
			t.Error("Released object should be simulated again")
		}
	}
}

func TestClaimRequiresFree(t *testing.T) {
	a, _ := newMagnet("Magnet", rl.Vector3{}, true)
	if err := a.Claim(OwnerAttachment, Docked); err != nil {
		t.Fatal(err)
	}
	if err := a.Claim(OwnerPopup, InFlight); !errors.Is(err, ErrNotFree) {
		t.Errorf("Expected ErrNotFree, got %v", err)
	}
}

func TestWritesRequireOwnership(t *testing.T) {
	a, _ := newMagnet("Magnet", rl.Vector3{}, true)
	if err := a.Claim(OwnerRod, Tethered); err != nil {
		t.Fatal(err)
	}

	if err := a.SetPosition(OwnerAttachment, rl.Vector3{X: 1}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner for foreign write, got %v", err)
	}
	if a.Position() != (rl.Vector3{}) {
		t.Error("Rejected write should not move the object")
	}
	if err := a.SetPosition(OwnerRod, rl.Vector3{X: 1}); err != nil {
		t.Errorf("Owner write failed: %v", err)
	}
	if a.Position().X != 1 {
		t.Error("Owner write should move the object")
	}
	if err := a.Handoff(OwnerHolder, OwnerPopup, InFlight); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner for foreign handoff, got %v", err)
	}
	if err := a.Release(OwnerPopup); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner for foreign release, got %v", err)
	}
}

func TestPopupAndRevealAreSeparateWriters(t *testing.T) {
	a, _ := newMagnet("Magnet", rl.Vector3{}, true)
	if err := a.Claim(OwnerPopup, InFlight); err != nil {
		t.Fatal(err)
	}
	if err := a.SetPosition(OwnerReveal, rl.Vector3{X: 1}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner for the reveal writing the popup's object, got %v", err)
	}
	if a.Owner().String() != "popup" {
		t.Errorf("Expected owner popup, got %s", a.Owner())
	}
}

func TestTryAttachSuccess(t *testing.T) {
	scene := engine.NewScene("Test")
	point := newAttachPoint(rl.Vector3{X: 1, Y: 2, Z: 1.5})
	scene.AddGameObject(point)
	magnet, rb := newMagnet("Magnet", rl.Vector3{X: 0.3, Y: 1.2, Z: 0.6}, true)
	scene.AddGameObject(magnet.GetGameObject())

	att := NewAttachment(DefaultAttachmentConfig(), point, scene)
	docked := 0
	att.Docked.AddListener(func(*Attachable) { docked++ })

	if err := att.TryAttach(magnet); err != nil {
		t.Fatalf("TryAttach failed: %v", err)
	}

	if magnet.Mode() != Docked || magnet.Owner() != OwnerAttachment {
		t.Errorf("Expected Docked/attachment, got %s/%s", magnet.Mode(), magnet.Owner())
	}
	if rb.Simulated || rb.DetectCollisions {
		t.Error("Attached object must not be simulated or collide")
	}
	if magnet.Position() != point.WorldPosition() {
		t.Errorf("Expected immediate snap to %v, got %v", point.WorldPosition(), magnet.Position())
	}
	if magnet.GetGameObject().Parent != nil {
		t.Error("Re-parent should be deferred by one tick")
	}

	scene.Update(1.0 / 60)

	if magnet.GetGameObject().Parent != point {
		t.Error("Expected object parented under attach point after one tick")
	}
	if docked != 1 {
		t.Errorf("Expected one Docked notification, got %d", docked)
	}
	if !att.Ready() {
		t.Error("Attachment should be ready to lend")
	}
}

func TestTryAttachNoSchedulerParentsImmediately(t *testing.T) {
	point := newAttachPoint(rl.Vector3{})
	magnet, _ := newMagnet("Magnet", rl.Vector3{X: 1}, true)
	att := NewAttachment(DefaultAttachmentConfig(), point, nil)

	if err := att.TryAttach(magnet); err != nil {
		t.Fatal(err)
	}
	if magnet.GetGameObject().Parent != point {
		t.Error("Without a scheduler the re-parent should happen at once")
	}
}

func TestTryAttachFailures(t *testing.T) {
	point := newAttachPoint(rl.Vector3{})
	cfg := DefaultAttachmentConfig()

	tests := []struct {
		name     string
		pos      rl.Vector3
		magnetic bool
		prep     func(a *Attachable)
		want     error
	}{
		{"too far", rl.Vector3{X: 3.5}, true, nil, ErrTooFar},
		{"too far and not magnetic", rl.Vector3{X: 30}, false, nil, ErrNotAttachable},
		{"missing capability", rl.Vector3{X: 1}, false, nil, ErrNotAttachable},
		{"wrong mode", rl.Vector3{X: 1}, true, func(a *Attachable) { a.Claim(OwnerPopup, InFlight) }, ErrWrongMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			magnet, rb := newMagnet("Magnet", tt.pos, tt.magnetic)
			if tt.prep != nil {
				tt.prep(magnet)
			}
			att := NewAttachment(cfg, point, nil)

			err := att.TryAttach(magnet)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if magnet.Mode() == Docked {
				t.Error("Failed attach must not dock")
			}
			if att.HasAttached() {
				t.Error("Failed attach must not record the object")
			}
			if tt.prep == nil && !rb.Simulated {
				t.Error("Failed attach must leave physics alone")
			}
		})
	}
}

func TestTryAttachBeyondCaptureNeverDocks(t *testing.T) {
	point := newAttachPoint(rl.Vector3{})
	cfg := AttachmentConfig{CaptureDistance: 2}
	for _, d := range []float32{2.01, 2.5, 10, 100} {
		for _, magnetic := range []bool{true, false} {
			magnet, _ := newMagnet("Magnet", rl.Vector3{Z: d}, magnetic)
			att := NewAttachment(cfg, point, nil)
			if err := att.TryAttach(magnet); err == nil {
				t.Errorf("d=%v magnetic=%v: attach should fail", d, magnetic)
			}
			if magnet.Mode() == Docked {
				t.Errorf("d=%v magnetic=%v: object docked", d, magnetic)
			}
		}
	}
}

func TestTryAttachMissingCollaborators(t *testing.T) {
	magnet, _ := newMagnet("Magnet", rl.Vector3{}, true)

	att := NewAttachment(DefaultAttachmentConfig(), nil, nil)
	if err := att.TryAttach(magnet); !errors.Is(err, ErrNoAttachPoint) {
		t.Errorf("Expected ErrNoAttachPoint, got %v", err)
	}

	att = NewAttachment(DefaultAttachmentConfig(), newAttachPoint(rl.Vector3{}), nil)
	if err := att.TryAttach(nil); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("Expected ErrNoCandidate, got %v", err)
	}
}

func TestTryAttachOccupied(t *testing.T) {
	point := newAttachPoint(rl.Vector3{})
	att := NewAttachment(DefaultAttachmentConfig(), point, nil)
	first, _ := newMagnet("First", rl.Vector3{X: 1}, true)
	second, _ := newMagnet("Second", rl.Vector3{X: 1}, true)

	if err := att.TryAttach(first); err != nil {
		t.Fatal(err)
	}
	if err := att.TryAttach(second); !errors.Is(err, ErrOccupied) {
		t.Errorf("Expected ErrOccupied, got %v", err)
	}
}

func TestAttachmentEnforcesParentAndPosition(t *testing.T) {
	point := newAttachPoint(rl.Vector3{X: 1, Y: 2, Z: 3})
	att := NewAttachment(DefaultAttachmentConfig(), point, nil)
	magnet, _ := newMagnet("Magnet", rl.Vector3{X: 1, Y: 2, Z: 2}, true)
	if err := att.TryAttach(magnet); err != nil {
		t.Fatal(err)
	}

	// An unrelated system yanks the object away.
	g := magnet.GetGameObject()
	g.SetParent(nil, true)
	g.Transform.Position = rl.Vector3{X: 9, Y: 9, Z: 9}

	att.Update(1.0 / 60)

	if g.Parent != point {
		t.Error("Expected the object re-parented under the attach point")
	}
	if got := magnet.Position(); got != point.WorldPosition() {
		t.Errorf("Expected object snapped to %v, got %v", point.WorldPosition(), got)
	}

	point.Transform.Position.X = 4
	att.Update(1.0 / 60)
	if got := magnet.Position(); got.X != 4 {
		t.Errorf("Expected object to follow the attach point, got %v", got)
	}
}

func TestLendAndReturn(t *testing.T) {
	point := newAttachPoint(rl.Vector3{Y: 2})
	att := NewAttachment(DefaultAttachmentConfig(), point, nil)
	magnet, rb := newMagnet("Magnet", rl.Vector3{Y: 1}, true)
	if err := att.TryAttach(magnet); err != nil {
		t.Fatal(err)
	}

	got, err := att.Lend(OwnerRod)
	if err != nil {
		t.Fatalf("Lend: %v", err)
	}
	if got != magnet || magnet.Mode() != Tethered || magnet.Owner() != OwnerRod {
		t.Errorf("Expected Tethered/rod, got %s/%s", magnet.Mode(), magnet.Owner())
	}
	if magnet.GetGameObject().Parent != nil {
		t.Error("Lent object should be detached")
	}
	if rb.Simulated {
		t.Error("Lent object must stay unsimulated")
	}
	if att.Ready() {
		t.Error("Attachment should not be ready while lent")
	}
	if _, err := att.Lend(OwnerRod); err == nil {
		t.Error("Lending twice should fail")
	}

	// While lent the attachment does not touch the object.
	magnet.SetPosition(OwnerRod, rl.Vector3{Z: 10})
	att.Update(1.0 / 60)
	if magnet.Position().Z != 10 {
		t.Error("Attachment wrote a lent object")
	}

	if err := att.Return(magnet, OwnerHolder); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Return from non-owner should fail with ErrNotOwner, got %v", err)
	}
	if err := att.Return(magnet, OwnerRod); err != nil {
		t.Fatalf("Return: %v", err)
	}
	if magnet.Mode() != Docked || magnet.Owner() != OwnerAttachment {
		t.Errorf("Expected Docked/attachment after return, got %s/%s", magnet.Mode(), magnet.Owner())
	}
	if magnet.GetGameObject().Parent != point {
		t.Error("Returned object should be parented at once")
	}
	if magnet.Position() != point.WorldPosition() {
		t.Errorf("Returned object at %v, want %v", magnet.Position(), point.WorldPosition())
	}
	if err := att.Return(magnet, OwnerAttachment); !errors.Is(err, ErrNotLent) {
		t.Errorf("Expected ErrNotLent, got %v", err)
	}
}

func TestDeferredParentSkippedWhenLentFirst(t *testing.T) {
	scene := engine.NewScene("Test")
	point := newAttachPoint(rl.Vector3{})
	att := NewAttachment(AttachmentConfig{CaptureDistance: 3, ReparentDelayTicks: 2}, point, scene)
	magnet, _ := newMagnet("Magnet", rl.Vector3{X: 1}, true)
	if err := att.TryAttach(magnet); err != nil {
		t.Fatal(err)
	}
	if _, err := att.Lend(OwnerRod); err != nil {
		t.Fatal(err)
	}

	scene.Update(1.0 / 60)
	scene.Update(1.0 / 60)

	if magnet.GetGameObject().Parent != nil {
		t.Error("Deferred re-parent must not grab a lent object")
	}
}
