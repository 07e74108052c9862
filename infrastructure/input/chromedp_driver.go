package input

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"
	"time"

	cdpinput "github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
)

// DriverConfig holds configuration for the chromedp driver.
type DriverConfig struct {
	// TargetURL is the page hosting the game client. Navigated to on
	// Start when non-empty.
	TargetURL string

	// Headless runs the browser without a visible window.
	Headless bool

	// WindowWidth is the browser window width.
	WindowWidth int

	// WindowHeight is the browser window height.
	WindowHeight int

	// ViewportWidth is the viewport width.
	ViewportWidth int

	// ViewportHeight is the viewport height.
	ViewportHeight int

	// UserDataDir specifies a custom browser profile directory, letting a
	// logged-in game session survive restarts.
	UserDataDir string
}

// DefaultDriverConfig returns default browser configuration.
func DefaultDriverConfig() *DriverConfig {
	return &DriverConfig{
		Headless:       false,
		WindowWidth:    1080,
		WindowHeight:   840,
		ViewportWidth:  1080,
		ViewportHeight: 720,
	}
}

// ChromeDPDriver drives a browser-hosted game client over the DevTools
// protocol: screenshots for capture, synthesized input events for
// injection. The cursor position is tracked locally since the protocol
// has no query for it.
type ChromeDPDriver struct {
	config      *DriverConfig
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.Mutex
	running     bool
	cursor      image.Point
	mods        cdpinput.Modifier
}

// NewChromeDPDriver creates a new chromedp-based input driver.
func NewChromeDPDriver(config *DriverConfig) *ChromeDPDriver {
	if config == nil {
		config = DefaultDriverConfig()
	}
	return &ChromeDPDriver{
		config: config,
	}
}

// buildExecAllocatorOptions builds chromedp options from config.
func (d *ChromeDPDriver) buildExecAllocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.config.Headless),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(d.config.WindowWidth, d.config.WindowHeight),
	)

	if d.config.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(d.config.UserDataDir))
	}

	return opts
}

// Start launches the browser, sizes the viewport, and navigates to the
// target page if one is configured.
func (d *ChromeDPDriver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("browser already running")
	}

	// The allocator derives from context.Background() so the browser
	// lifecycle is independent of the caller's context.
	d.allocCtx, d.allocCancel = chromedp.NewExecAllocator(
		context.Background(),
		d.buildExecAllocatorOptions()...,
	)
	d.ctx, d.cancel = chromedp.NewContext(d.allocCtx)

	actions := []chromedp.Action{
		chromedp.EmulateViewport(int64(d.config.ViewportWidth), int64(d.config.ViewportHeight)),
	}
	if d.config.TargetURL != "" {
		actions = append(actions, chromedp.Navigate(d.config.TargetURL))
	}
	if err := chromedp.Run(d.ctx, actions...); err != nil {
		d.cleanup()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	d.running = true
	return nil
}

// Stop closes the browser and releases resources.
func (d *ChromeDPDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}

	d.cleanup()
	return nil
}

func (d *ChromeDPDriver) cleanup() {
	d.running = false
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.allocCancel != nil {
		d.allocCancel()
		d.allocCancel = nil
	}
	d.ctx = nil
	d.allocCtx = nil
}

// IsRunning returns true if the browser is active.
func (d *ChromeDPDriver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *ChromeDPDriver) browserContext() (context.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running || d.ctx == nil {
		return nil, fmt.Errorf("browser not running")
	}
	return d.ctx, nil
}

// Navigate navigates the browser to the specified URL.
func (d *ChromeDPDriver) Navigate(ctx context.Context, url string) error {
	browserCtx, err := d.browserContext()
	if err != nil {
		return err
	}
	return chromedp.Run(browserCtx, chromedp.Navigate(url))
}

// CaptureScreen captures the current browser viewport.
func (d *ChromeDPDriver) CaptureScreen(ctx context.Context) (image.Image, error) {
	browserCtx, err := d.browserContext()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(browserCtx, 3*time.Second)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(timeoutCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	return img, nil
}

// CursorPosition returns the locally tracked cursor location.
func (d *ChromeDPDriver) CursorPosition(ctx context.Context) (image.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return image.Point{}, fmt.Errorf("browser not running")
	}
	return d.cursor, nil
}

// MoveCursor dispatches a mouse-move to p and updates the tracked cursor.
func (d *ChromeDPDriver) MoveCursor(ctx context.Context, p image.Point) error {
	browserCtx, err := d.browserContext()
	if err != nil {
		return err
	}

	params := &cdpinput.DispatchMouseEventParams{
		Type: cdpinput.MouseMoved,
		X:    float64(p.X),
		Y:    float64(p.Y),
	}
	err = chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return params.Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("mouse move failed: %w", err)
	}

	d.mu.Lock()
	d.cursor = p
	d.mu.Unlock()
	return nil
}

// Click performs a mouse click at the tracked cursor position. The click
// is dispatched as a raw press/release pair so held modifier keys are
// carried on the mouse event itself: CDP mouse events take a Modifiers
// bitfield and do not inherit synthesized key state, so shift_click would
// otherwise reach the page without shiftKey set.
func (d *ChromeDPDriver) Click(ctx context.Context, b Button) error {
	browserCtx, err := d.browserContext()
	if err != nil {
		return err
	}

	d.mu.Lock()
	cursor := d.cursor
	mods := d.mods
	d.mu.Unlock()

	timeoutCtx, cancel := context.WithTimeout(browserCtx, 5*time.Second)
	defer cancel()

	button := cdpinput.Left
	if b == ButtonRight {
		button = cdpinput.Right
	}

	press := cdpinput.DispatchMouseEvent(cdpinput.MousePressed, float64(cursor.X), float64(cursor.Y)).
		WithButton(button).
		WithClickCount(1).
		WithModifiers(mods)
	release := cdpinput.DispatchMouseEvent(cdpinput.MouseReleased, float64(cursor.X), float64(cursor.Y)).
		WithButton(button).
		WithClickCount(1).
		WithModifiers(mods)

	err = chromedp.Run(timeoutCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := press.Do(ctx); err != nil {
			return err
		}
		return release.Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// KeyDown dispatches a keyDown event for the given key name.
func (d *ChromeDPDriver) KeyDown(ctx context.Context, key string) error {
	return d.dispatchKey(cdpinput.KeyDown, key)
}

// KeyUp dispatches a keyUp event for the given key name.
func (d *ChromeDPDriver) KeyUp(ctx context.Context, key string) error {
	return d.dispatchKey(cdpinput.KeyUp, key)
}

func (d *ChromeDPDriver) dispatchKey(kind cdpinput.KeyType, key string) error {
	browserCtx, err := d.browserContext()
	if err != nil {
		return err
	}

	params := cdpinput.DispatchKeyEvent(kind).WithKey(domKey(key))
	err = chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return params.Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("key %q dispatch failed: %w", key, err)
	}

	if bit := modifierBit(key); bit != cdpinput.ModifierNone {
		d.mu.Lock()
		if kind == cdpinput.KeyDown {
			d.mods |= bit
		} else {
			d.mods &^= bit
		}
		d.mu.Unlock()
	}
	return nil
}

// modifierBit maps a script modifier key name to its CDP Modifiers bit.
func modifierBit(key string) cdpinput.Modifier {
	switch key {
	case "ctrl":
		return cdpinput.ModifierCtrl
	case "alt":
		return cdpinput.ModifierAlt
	case "shift":
		return cdpinput.ModifierShift
	case "cmd":
		return cdpinput.ModifierMeta
	default:
		return cdpinput.ModifierNone
	}
}

// domKeys maps script key names to DOM KeyboardEvent key values.
var domKeys = map[string]string{
	"ctrl":      "Control",
	"alt":       "Alt",
	"shift":     "Shift",
	"cmd":       "Meta",
	"enter":     "Enter",
	"esc":       "Escape",
	"space":     " ",
	"tab":       "Tab",
	"backspace": "Backspace",
	"delete":    "Delete",
	"insert":    "Insert",
	"up":        "ArrowUp",
	"down":      "ArrowDown",
	"left":      "ArrowLeft",
	"right":     "ArrowRight",
	"home":      "Home",
	"end":       "End",
	"pageup":    "PageUp",
	"pagedown":  "PageDown",
}

func domKey(key string) string {
	if v, ok := domKeys[key]; ok {
		return v
	}
	// f1..f12 become F1..F12; letters and digits pass through.
	if len(key) > 1 && key[0] == 'f' {
		return strings.ToUpper(key)
	}
	return key
}

// Ensure ChromeDPDriver implements Driver
var _ Driver = (*ChromeDPDriver)(nil)
