// Command chromabot runs a color-triggered automation script against a
// game client until the runtime budget expires.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chromabot/application/run"
	"chromabot/core/event"
	"chromabot/core/eventbus"
	"chromabot/domain/path"
	"chromabot/domain/script"
	"chromabot/domain/vision"
	"chromabot/infrastructure/config"
	"chromabot/infrastructure/input"
	"chromabot/infrastructure/logging"
)

var version = "dev"

const usageText = `Usage: chromabot [options] <script.json>

Runs the JSON event script against the screen until the runtime budget
expires. Mouse events wait for their target color to appear; keypress
events dispatch unconditionally.

Options:
`

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	fs := flag.NewFlagSet("chromabot", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		fs.PrintDefaults()
	}

	var (
		runtimeSecs    = fs.Int("runtime", 3600, "runtime budget in seconds")
		mouseDeviation = fs.Int("mouse-deviation", 30, "max perpendicular pixel offset for cursor paths")
		mouseSpeed     = fs.Int("mouse-speed", 3, "waypoint density factor; lower is faster")
		debug          = fs.Bool("debug", false, "enable debug logging")
		showVersion    = fs.Bool("version", false, "print version and exit")
		configPath     = fs.String("config", "", "path to a YAML config file")
		driverName     = fs.String("driver", "", "input driver: robotgo, chromedp or nop (overrides config)")
	)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Printf("chromabot %s\n", version)
		return 0
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: exactly one script file is required")
		fs.Usage()
		return 2
	}
	scriptPath := fs.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
		cfg = loaded
	}
	if *driverName != "" {
		cfg.Driver = *driverName
	}

	logCfg := logging.DefaultConfig()
	if *debug {
		logCfg.Level = slog.LevelDebug
	}
	if cfg.Logging.Dir != "" {
		logCfg.Dir = cfg.Logging.Dir
	}
	logCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
	logCfg.MaxBackups = cfg.Logging.MaxBackups
	logCfg.MaxAgeDays = cfg.Logging.MaxAgeDays
	logCfg.Compress = cfg.Logging.Compress

	logger, closeLog, err := logging.Setup(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to set up logging: %v\n", err)
		return 2
	}
	defer closeLog()

	scr, err := script.Load(scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	logger.Info("Script loaded", "path", scriptPath, "events", len(scr.Events))

	driver, err := buildDriver(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := driver.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to start %s driver: %v\n", cfg.Driver, err)
		return 1
	}
	defer driver.Stop()

	bus := eventbus.New(100)
	defer bus.Close()
	bus.Subscribe(logSink(logger))

	runner := run.New(&run.Config{
		RunID:   fmt.Sprintf("run-%d", time.Now().Unix()),
		Script:  scr,
		Driver:  driver,
		Matcher: vision.NewMatcher(cfg.Tolerance),
		Planner: path.NewPlanner(*mouseDeviation, *mouseSpeed),
		Bus:     bus,
		Logger:  logger,
		Options: run.Options{
			Runtime:      time.Duration(*runtimeSecs) * time.Second,
			PollInterval: cfg.PollInterval,
		},
	})

	final, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if !final.Succeeded() {
		return 1
	}
	return 0
}

// buildDriver selects the input driver named by the configuration.
func buildDriver(cfg *config.Config) (input.Driver, error) {
	switch cfg.Driver {
	case "robotgo":
		return input.NewRobotgoDriver(), nil
	case "chromedp":
		return input.NewChromeDPDriver(&input.DriverConfig{
			TargetURL:      cfg.Browser.TargetURL,
			Headless:       cfg.Browser.Headless,
			WindowWidth:    cfg.Browser.ViewportWidth,
			WindowHeight:   cfg.Browser.ViewportHeight + 120,
			ViewportWidth:  cfg.Browser.ViewportWidth,
			ViewportHeight: cfg.Browser.ViewportHeight,
			UserDataDir:    cfg.Browser.UserDataDir,
		}), nil
	case "nop":
		return input.NewNopDriver(), nil
	default:
		return nil, fmt.Errorf("unknown driver %q (want robotgo, chromedp or nop)", cfg.Driver)
	}
}

// logSink mirrors bus traffic into the structured log at debug level so a
// run can be reconstructed from the log file alone.
func logSink(logger *slog.Logger) eventbus.EventHandler {
	return func(e event.Event) {
		switch ev := e.(type) {
		case *event.RunStarted:
			logger.Debug("bus: run started", "run", ev.RunID(), "events", ev.EventCount, "runtime", ev.Runtime)
		case *event.RunStopped:
			logger.Debug("bus: run stopped", "run", ev.RunID(), "reason", string(ev.Reason), "error", ev.Error)
		case *event.RunStateChanged:
			logger.Debug("bus: state changed", "run", ev.RunID(), "from", ev.Old.String(), "to", ev.New.String())
		case *event.ActionDispatched:
			if ev.Target != nil {
				logger.Debug("bus: action dispatched", "run", ev.RunID(), "event", ev.EventID, "repetition", ev.Repetition, "x", ev.Target.X, "y", ev.Target.Y)
			} else {
				logger.Debug("bus: action dispatched", "run", ev.RunID(), "event", ev.EventID, "repetition", ev.Repetition)
			}
		case *event.TargetMissed:
			logger.Debug("bus: target missed", "run", ev.RunID(), "event", ev.EventID, "skipped", ev.Skipped)
		default:
			logger.Debug("bus: event", "name", e.EventName())
		}
	}
}
