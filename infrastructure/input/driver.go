// Package input provides screen capture and input injection drivers.
package input

import (
	"context"
	"image"
)

// Button identifies a mouse button.
type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// Driver is the collaborator surface the engine drives: screen capture
// plus the raw input injection primitives. The engine issues one action
// at a time; implementations serialize any internal state themselves.
type Driver interface {
	// Start acquires the underlying capture/injection resources.
	Start(ctx context.Context) error

	// Stop releases resources.
	Stop() error

	// IsRunning returns true if the driver is usable.
	IsRunning() bool

	// CaptureScreen returns a fresh frame of the playable screen region.
	CaptureScreen(ctx context.Context) (image.Image, error)

	// CursorPosition returns the current cursor location.
	CursorPosition(ctx context.Context) (image.Point, error)

	// MoveCursor warps the cursor to p.
	MoveCursor(ctx context.Context, p image.Point) error

	// Click presses and releases the given button at the current cursor
	// position.
	Click(ctx context.Context, b Button) error

	// KeyDown presses and holds a key.
	KeyDown(ctx context.Context, key string) error

	// KeyUp releases a previously pressed key.
	KeyUp(ctx context.Context, key string) error
}
