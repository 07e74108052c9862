package run

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"chromabot/domain/script"
	"chromabot/infrastructure/input"
)

// frameInterval paces waypoint traversal at ~60 moves per second, the
// rate game clients sample cursor movement at.
const frameInterval = time.Second / 60

// Dispatcher turns planned actions into driver primitives. Dispatch
// failures are fatal to the run.
type Dispatcher struct {
	driver input.Driver
	logger *slog.Logger
	pace   time.Duration
}

// NewDispatcher creates a dispatcher over the given driver.
func NewDispatcher(driver input.Driver, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{driver: driver, logger: logger, pace: frameInterval}
}

// Traverse moves the cursor through each waypoint in order with
// frame-based pacing.
func (d *Dispatcher) Traverse(ctx context.Context, waypoints []image.Point) error {
	for i, wp := range waypoints {
		if err := d.driver.MoveCursor(ctx, wp); err != nil {
			return fmt.Errorf("move to waypoint %d (%d,%d): %w", i, wp.X, wp.Y, err)
		}
		if i < len(waypoints)-1 {
			time.Sleep(d.pace)
		}
	}
	return nil
}

// Click performs the scripted click at the current cursor position.
// shift_click holds the shift modifier for the duration of the click.
func (d *Dispatcher) Click(ctx context.Context, action script.MouseAction) error {
	switch action {
	case script.MouseActionLeftClick:
		return d.driver.Click(ctx, input.ButtonLeft)
	case script.MouseActionRightClick:
		return d.driver.Click(ctx, input.ButtonRight)
	case script.MouseActionShiftClick:
		if err := d.driver.KeyDown(ctx, "shift"); err != nil {
			return fmt.Errorf("shift down: %w", err)
		}
		clickErr := d.driver.Click(ctx, input.ButtonLeft)
		if err := d.driver.KeyUp(ctx, "shift"); err != nil && clickErr == nil {
			return fmt.Errorf("shift up: %w", err)
		}
		return clickErr
	default:
		return fmt.Errorf("unknown mouse action %q", action)
	}
}

// PressCombo dispatches a key combo as one atomic press-and-release:
// modifiers down in order, then the key, then modifiers up in reverse.
func (d *Dispatcher) PressCombo(ctx context.Context, combo script.KeyCombo) error {
	for i, mod := range combo.Modifiers {
		if err := d.driver.KeyDown(ctx, mod); err != nil {
			d.releaseModifiers(ctx, combo.Modifiers[:i])
			return fmt.Errorf("modifier %q down: %w", mod, err)
		}
	}
	err := d.tapKey(ctx, combo.Key)
	d.releaseModifiers(ctx, combo.Modifiers)
	return err
}

func (d *Dispatcher) tapKey(ctx context.Context, key string) error {
	if err := d.driver.KeyDown(ctx, key); err != nil {
		return fmt.Errorf("key %q down: %w", key, err)
	}
	if err := d.driver.KeyUp(ctx, key); err != nil {
		return fmt.Errorf("key %q up: %w", key, err)
	}
	return nil
}

// releaseModifiers releases in reverse order. Release failures are
// logged, not returned: the keyboard must not be left with a stuck
// modifier while an earlier dispatch error propagates.
func (d *Dispatcher) releaseModifiers(ctx context.Context, mods []string) {
	for i := len(mods) - 1; i >= 0; i-- {
		if err := d.driver.KeyUp(ctx, mods[i]); err != nil {
			d.logger.Warn("Failed to release modifier", "key", mods[i], "error", err)
		}
	}
}
