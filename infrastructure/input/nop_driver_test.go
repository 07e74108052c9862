package input

import (
	"context"
	"image"
	"testing"
)

func TestNopDriverLifecycle(t *testing.T) {
	d := NewNopDriver()
	ctx := context.Background()

	if d.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
	if _, err := d.CaptureScreen(ctx); err == nil {
		t.Error("CaptureScreen before Start = nil error, want error")
	}

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !d.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if err := d.Start(ctx); err == nil {
		t.Error("double Start() = nil error, want error")
	}

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if d.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}

func TestNopDriverTracksCursor(t *testing.T) {
	d := NewNopDriver()
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatal(err)
	}

	pos, err := d.CursorPosition(ctx)
	if err != nil {
		t.Fatalf("CursorPosition() error: %v", err)
	}
	if pos != (image.Point{}) {
		t.Errorf("initial cursor = %v, want origin", pos)
	}

	if err := d.MoveCursor(ctx, image.Pt(40, 25)); err != nil {
		t.Fatalf("MoveCursor() error: %v", err)
	}
	pos, _ = d.CursorPosition(ctx)
	if pos != image.Pt(40, 25) {
		t.Errorf("cursor = %v, want (40,25)", pos)
	}
}

func TestNopDriverPrimitives(t *testing.T) {
	d := NewNopDriver()
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatal(err)
	}

	frame, err := d.CaptureScreen(ctx)
	if err != nil {
		t.Fatalf("CaptureScreen() error: %v", err)
	}
	if frame.Bounds().Empty() {
		t.Error("CaptureScreen() returned an empty frame")
	}

	if err := d.Click(ctx, ButtonLeft); err != nil {
		t.Errorf("Click() error: %v", err)
	}
	if err := d.KeyDown(ctx, "a"); err != nil {
		t.Errorf("KeyDown() error: %v", err)
	}
	if err := d.KeyUp(ctx, "a"); err != nil {
		t.Errorf("KeyUp() error: %v", err)
	}
}

func TestDomKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ctrl", "Control"},
		{"shift", "Shift"},
		{"cmd", "Meta"},
		{"esc", "Escape"},
		{"space", " "},
		{"f5", "F5"},
		{"f12", "F12"},
		{"a", "a"},
		{"7", "7"},
	}
	for _, tt := range tests {
		if got := domKey(tt.in); got != tt.want {
			t.Errorf("domKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
