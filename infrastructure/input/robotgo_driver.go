package input

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/go-vgo/robotgo"
)

// RobotgoDriver captures the primary display and injects input at the OS
// level. It is the default driver for native game clients.
type RobotgoDriver struct {
	mu      sync.Mutex
	running bool
}

// NewRobotgoDriver creates an OS-level input driver.
func NewRobotgoDriver() *RobotgoDriver {
	return &RobotgoDriver{}
}

// Start marks the driver ready. The OS primitives need no setup.
func (d *RobotgoDriver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return fmt.Errorf("driver already running")
	}
	d.running = true
	return nil
}

// Stop releases the driver.
func (d *RobotgoDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	return nil
}

// IsRunning returns true if the driver is usable.
func (d *RobotgoDriver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *RobotgoDriver) check() error {
	if !d.IsRunning() {
		return fmt.Errorf("driver not running")
	}
	return nil
}

// CaptureScreen grabs a fresh frame of the primary display.
func (d *RobotgoDriver) CaptureScreen(ctx context.Context) (image.Image, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	img, err := robotgo.CaptureImg()
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}
	return img, nil
}

// CursorPosition returns the OS cursor location.
func (d *RobotgoDriver) CursorPosition(ctx context.Context) (image.Point, error) {
	if err := d.check(); err != nil {
		return image.Point{}, err
	}
	x, y := robotgo.Location()
	return image.Pt(x, y), nil
}

// MoveCursor warps the OS cursor to p.
func (d *RobotgoDriver) MoveCursor(ctx context.Context, p image.Point) error {
	if err := d.check(); err != nil {
		return err
	}
	robotgo.Move(p.X, p.Y)
	return nil
}

// Click presses and releases the given button at the current position.
func (d *RobotgoDriver) Click(ctx context.Context, b Button) error {
	if err := d.check(); err != nil {
		return err
	}
	robotgo.Click(string(b))
	return nil
}

// KeyDown presses and holds a key.
func (d *RobotgoDriver) KeyDown(ctx context.Context, key string) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := robotgo.KeyToggle(key, "down"); err != nil {
		return fmt.Errorf("key %q down failed: %w", key, err)
	}
	return nil
}

// KeyUp releases a previously pressed key.
func (d *RobotgoDriver) KeyUp(ctx context.Context, key string) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := robotgo.KeyToggle(key, "up"); err != nil {
		return fmt.Errorf("key %q up failed: %w", key, err)
	}
	return nil
}

// Ensure RobotgoDriver implements Driver
var _ Driver = (*RobotgoDriver)(nil)
