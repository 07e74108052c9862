// Package run executes a validated script against an input driver until
// the runtime budget expires.
package run

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"time"

	"chromabot/core/event"
	"chromabot/core/eventbus"
	"chromabot/core/state"
	"chromabot/domain/path"
	"chromabot/domain/script"
	"chromabot/domain/vision"
	"chromabot/infrastructure/input"
)

const defaultPollInterval = 500 * time.Millisecond

// Options tunes a single run.
type Options struct {
	// Runtime is the wall-clock budget for the whole run.
	Runtime time.Duration

	// PollInterval is the wait between color searches while a mouse
	// event blocks on an absent target.
	PollInterval time.Duration
}

// Config assembles a Runner.
type Config struct {
	RunID   string
	Script  *script.Script
	Driver  input.Driver
	Matcher *vision.Matcher
	Planner *path.Planner
	Bus     eventbus.EventBus
	Logger  *slog.Logger
	Options Options
}

// Runner walks the script in order, repeating each event per its count,
// until the deadline passes. It owns the mouse and keyboard for the run:
// exactly one action is in flight at a time, so the loop is a single
// logical thread with no locking discipline beyond sequential execution.
type Runner struct {
	id         string
	script     *script.Script
	driver     input.Driver
	matcher    *vision.Matcher
	planner    *path.Planner
	dispatcher *Dispatcher
	bus        eventbus.EventBus
	logger     *slog.Logger
	opts       Options

	state state.RunState
}

// New creates a runner from the given configuration.
func New(cfg *Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts := cfg.Options
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Runner{
		id:         cfg.RunID,
		script:     cfg.Script,
		driver:     cfg.Driver,
		matcher:    cfg.Matcher,
		planner:    cfg.Planner,
		dispatcher: NewDispatcher(cfg.Driver, logger),
		bus:        cfg.Bus,
		logger:     logger,
		opts:       opts,
		state:      state.StateIdle,
	}
}

// State returns the current run state.
func (r *Runner) State() state.RunState {
	return r.state
}

// execContext is the mutable execution state threaded through the loop.
// The engine's only mutable state lives here, not in package globals.
type execContext struct {
	cursor   image.Point
	deadline time.Time
	eventIdx int
}

// errDeadline signals that the runtime budget expired inside a blocking
// wait; the loop maps it to StateTimedOut rather than treating it as a
// failure.
var errDeadline = errors.New("runtime budget exhausted")

// Run executes the script until the deadline. The returned state is
// StateTimedOut for a normal budget-bounded run, StateCompleted for an
// empty script, and StateAborted (with the error) on a fatal capture or
// dispatch failure.
func (r *Runner) Run(ctx context.Context) (state.RunState, error) {
	if err := r.transition(state.StateRunning); err != nil {
		return r.state, err
	}

	ec := &execContext{deadline: time.Now().Add(r.opts.Runtime)}
	if pos, err := r.driver.CursorPosition(ctx); err == nil {
		ec.cursor = pos
	} else {
		r.logger.Warn("Cursor position unavailable, paths start at origin", "error", err)
	}

	r.publish(event.NewRunStarted(r.id, len(r.script.Events), r.opts.Runtime))
	r.logger.Info("Run started", "events", len(r.script.Events), "runtime", r.opts.Runtime)

	final, err := r.loop(ctx, ec)

	if terr := r.transition(final); terr != nil {
		r.logger.Error("Invalid final transition", "error", terr)
	}
	r.publish(event.NewRunStopped(r.id, stopReason(final), err))
	r.logger.Info("Run stopped", "state", final.String(), "error", err)
	return final, err
}

func (r *Runner) loop(ctx context.Context, ec *execContext) (state.RunState, error) {
	if len(r.script.Events) == 0 {
		return state.StateCompleted, nil
	}

	// The script restarts from its first event after the last completes,
	// until the deadline.
	for {
		for i := range r.script.Events {
			ec.eventIdx = i
			ev := &r.script.Events[i]
			for rep := 1; rep <= ev.Count; rep++ {
				if !time.Now().Before(ec.deadline) {
					return state.StateTimedOut, nil
				}
				dispatched, err := r.executeRepetition(ctx, ec, ev, rep)
				if err != nil {
					if errors.Is(err, errDeadline) {
						return state.StateTimedOut, nil
					}
					return state.StateAborted, err
				}
				if dispatched {
					time.Sleep(sampleDelay(ev.Delay))
				}
			}
		}
	}
}

// executeRepetition performs one repetition of one event. It reports
// whether an action was dispatched; skipped repetitions carry no delay
// penalty.
func (r *Runner) executeRepetition(ctx context.Context, ec *execContext, ev *script.Event, rep int) (bool, error) {
	switch ev.Type {
	case script.EventTypeKeypress:
		combo, err := script.ParseKeyCombo(ev.Action)
		if err != nil {
			return false, fmt.Errorf("event %q: %w", ev.ID, err)
		}
		if err := r.dispatcher.PressCombo(ctx, combo); err != nil {
			return false, fmt.Errorf("event %q: key dispatch failed: %w", ev.ID, err)
		}
		r.publish(event.NewActionDispatched(r.id, ev.ID, rep, nil))
		return true, nil

	case script.EventTypeMouse:
		return r.executeMouse(ctx, ec, ev, rep)

	default:
		return false, fmt.Errorf("event %q: unknown type %q", ev.ID, ev.Type)
	}
}

func (r *Runner) executeMouse(ctx context.Context, ec *execContext, ev *script.Event, rep int) (bool, error) {
	target, found, err := r.findTarget(ctx, ev)
	if err != nil {
		return false, err
	}

	if !found {
		if ev.SkipIfVanished {
			r.logger.Debug("Target vanished, skipping repetition", "event", ev.ID, "repetition", rep)
			r.publish(event.NewTargetMissed(r.id, ev.ID, colorBytes(ev.Color), true))
			return false, nil
		}
		target, err = r.awaitTarget(ctx, ec, ev)
		if err != nil {
			return false, err
		}
	}

	plan := r.planner.Plan(ec.cursor, target)
	if err := r.dispatcher.Traverse(ctx, plan); err != nil {
		return false, fmt.Errorf("event %q: cursor traversal failed: %w", ev.ID, err)
	}
	ec.cursor = target

	if err := r.dispatcher.Click(ctx, script.MouseAction(ev.Action)); err != nil {
		return false, fmt.Errorf("event %q: click failed: %w", ev.ID, err)
	}
	r.publish(event.NewActionDispatched(r.id, ev.ID, rep, &target))
	return true, nil
}

// findTarget captures a fresh frame and scans it for the event's color.
func (r *Runner) findTarget(ctx context.Context, ev *script.Event) (image.Point, bool, error) {
	frame, err := r.driver.CaptureScreen(ctx)
	if err != nil {
		return image.Point{}, false, fmt.Errorf("event %q: screen capture failed: %w", ev.ID, err)
	}
	pt, ok := r.matcher.Find(frame, ev.Color.RGBA())
	return pt, ok, nil
}

// awaitTarget re-scans until the color appears or the deadline passes.
// The deadline check takes priority over another poll, and the poll
// interval is a cooperative suspend point rather than a CPU spin.
func (r *Runner) awaitTarget(ctx context.Context, ec *execContext, ev *script.Event) (image.Point, error) {
	r.logger.Debug("Target absent, polling", "event", ev.ID, "interval", r.opts.PollInterval)
	r.publish(event.NewTargetMissed(r.id, ev.ID, colorBytes(ev.Color), false))

	for {
		remaining := time.Until(ec.deadline)
		if remaining <= 0 {
			return image.Point{}, errDeadline
		}
		wait := r.opts.PollInterval
		if wait > remaining {
			wait = remaining
		}

		select {
		case <-ctx.Done():
			return image.Point{}, ctx.Err()
		case <-time.After(wait):
		}

		if !time.Now().Before(ec.deadline) {
			return image.Point{}, errDeadline
		}
		pt, ok, err := r.findTarget(ctx, ev)
		if err != nil {
			return image.Point{}, err
		}
		if ok {
			return pt, nil
		}
	}
}

// sampleDelay draws uniformly from [Min, Max] inclusive, in milliseconds.
// The span is widened to uint64 so the full uint32 range [0, MaxUint32]
// does not overflow span+1 to zero.
func sampleDelay(d script.DelayRange) time.Duration {
	ms := uint64(d.Min)
	if span := uint64(d.Max) - uint64(d.Min); span > 0 {
		ms += rand.Uint64N(span + 1)
	}
	return time.Duration(ms) * time.Millisecond
}

func (r *Runner) transition(to state.RunState) error {
	if !r.state.CanTransitionTo(to) {
		return state.NewTransitionError(r.state, to, "")
	}
	old := r.state
	r.state = to
	r.publish(event.NewRunStateChanged(r.id, old, to))
	return nil
}

func (r *Runner) publish(e event.Event) {
	if r.bus != nil {
		r.bus.Publish(e)
	}
}

func stopReason(s state.RunState) event.StopReason {
	switch s {
	case state.StateTimedOut:
		return event.StopReasonTimedOut
	case state.StateCompleted:
		return event.StopReasonCompleted
	default:
		return event.StopReasonError
	}
}

func colorBytes(c *script.RGB) [3]uint8 {
	if c == nil {
		return [3]uint8{}
	}
	return [3]uint8{c.R, c.G, c.B}
}
