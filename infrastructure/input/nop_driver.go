package input

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
)

// NopDriver satisfies Driver without touching the host: primitives are
// recorded to the log only and capture returns a fixed blank frame.
// Selected with --driver nop to dry-run a script's control flow.
type NopDriver struct {
	mu      sync.Mutex
	running bool
	cursor  image.Point
	logger  *slog.Logger
	frame   image.Image
}

// NewNopDriver creates a dry-run driver.
func NewNopDriver() *NopDriver {
	return &NopDriver{
		logger: slog.Default(),
		frame:  image.NewRGBA(image.Rect(0, 0, 64, 64)),
	}
}

func (d *NopDriver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return fmt.Errorf("driver already running")
	}
	d.running = true
	return nil
}

func (d *NopDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	return nil
}

func (d *NopDriver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *NopDriver) check() error {
	if !d.IsRunning() {
		return fmt.Errorf("driver not running")
	}
	return nil
}

func (d *NopDriver) CaptureScreen(ctx context.Context) (image.Image, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.frame, nil
}

func (d *NopDriver) CursorPosition(ctx context.Context) (image.Point, error) {
	if err := d.check(); err != nil {
		return image.Point{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor, nil
}

func (d *NopDriver) MoveCursor(ctx context.Context, p image.Point) error {
	if err := d.check(); err != nil {
		return err
	}
	d.mu.Lock()
	d.cursor = p
	d.mu.Unlock()
	d.logger.Debug("nop: move cursor", "x", p.X, "y", p.Y)
	return nil
}

func (d *NopDriver) Click(ctx context.Context, b Button) error {
	if err := d.check(); err != nil {
		return err
	}
	d.logger.Debug("nop: click", "button", string(b))
	return nil
}

func (d *NopDriver) KeyDown(ctx context.Context, key string) error {
	if err := d.check(); err != nil {
		return err
	}
	d.logger.Debug("nop: key down", "key", key)
	return nil
}

func (d *NopDriver) KeyUp(ctx context.Context, key string) error {
	if err := d.check(); err != nil {
		return err
	}
	d.logger.Debug("nop: key up", "key", key)
	return nil
}

// Ensure NopDriver implements Driver
var _ Driver = (*NopDriver)(nil)
