// gravity - N-body playground rendered in the terminal.
//
// Controls:
//
//	Mouse       - Look around
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Q/E         - Move down/up
//	Space       - Shoot a body along the view
//	L           - Toggle headlight (camera light vs star lights)
//	I           - Toggle lighting
//	Z           - Toggle shadows
//	H           - Toggle convex hull overlay
//	B           - Toggle bounding box overlay
//	O           - Cycle polygon sort (centroid, farthest, bsp)
//	Enter       - Pause/resume physics
//	P           - Save a PNG screenshot
//	?           - Toggle HUD
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/gravity/internal/config"
	"github.com/taigrr/gravity/internal/logger"
	"github.com/taigrr/gravity/pkg/render"
	"github.com/taigrr/gravity/pkg/sim"
)

// maxFrameTime caps dt so a stalled frame does not fling bodies apart.
const maxFrameTime = 0.1

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gravity - N-body playground in the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gravity [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse       - Look around\n")
		fmt.Fprintf(os.Stderr, "  W/A/S/D     - Move\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Move down/up\n")
		fmt.Fprintf(os.Stderr, "  Space       - Shoot\n")
		fmt.Fprintf(os.Stderr, "  L/I/Z       - Headlight, lighting, shadows\n")
		fmt.Fprintf(os.Stderr, "  H/B         - Hull and bounds overlays\n")
		fmt.Fprintf(os.Stderr, "  O           - Cycle polygon sort\n")
		fmt.Fprintf(os.Stderr, "  Enter       - Pause\n")
		fmt.Fprintf(os.Stderr, "  P           - Screenshot\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if path := config.DumpPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Fatal("dump config", zap.Error(err))
		}
		logger.Info("config written", zap.String("path", path))
		return
	}
	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Fatal("save config", zap.Error(err))
		}
		logger.Info("config written", zap.String("path", config.UserConfigPath()))
		return
	}

	if err := run(cfg); err != nil {
		logger.Error("exit", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// input tracks mouse state between events.
type input struct {
	lastX, lastY int
	seen         bool
}

func run(cfg *config.Config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if cfg.Display.Width > 0 {
		width = cfg.Display.Width
	}
	if cfg.Display.Height > 0 {
		height = cfg.Display.Height
	}

	sink := render.NewTerminalSink(term, width, height)
	fbWidth, fbHeight := sink.FramebufferSize()

	// Asset errors are fatal and reported before the alternate screen
	// hides them.
	s, err := newSimulation(cfg, fbWidth, fbHeight)
	if err != nil {
		logger.Fatal("build scene", zap.Error(err))
	}
	logger.Info("scene ready",
		zap.Int("bodies", len(s.Bodies)),
		zap.Int("width", fbWidth),
		zap.Int("height", fbHeight),
	)

	// The terminal owns the screen from here on; only the log file gets
	// output.
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, nil); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var in input
	events := term.Events()
	targetDuration := time.Second / time.Duration(cfg.Display.FPS)
	lastFrame := time.Now()

	for {
		// Events are handled on this goroutine so the simulation is never
		// touched concurrently with a frame.
	drain:
		for {
			select {
			case ev := <-events:
				if quit := handleEvent(ev, s, sink, &in, term); quit {
					cancel()
				}
			default:
				break drain
			}
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), maxFrameTime)
		lastFrame = now

		stats, err := s.Frame(ctx, dt)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("frame: %w", err)
		}
		if s.Frames()%(cfg.Display.FPS*5) == 0 {
			logger.Debug("frame",
				zap.Float64("fps", s.FPS()),
				zap.Int("polygons", stats.Polygons),
				zap.Int("visible", stats.Visible),
				zap.Int("drawn", stats.Drawn),
			)
		}

		s.Graphics.Flush(sink)
		if err := sink.Present(); err != nil {
			return fmt.Errorf("present: %w", err)
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// handleEvent applies one terminal event and reports whether to quit.
func handleEvent(ev any, s *sim.Simulation, sink *render.TerminalSink, in *input, term *uv.Terminal) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		term.Erase()
		term.Resize(ev.Width, ev.Height)
		sink.Resize(ev.Width, ev.Height)
		s.Camera.Resize(sink.FramebufferSize())
		logger.Debug("resized", zap.Int("cols", ev.Width), zap.Int("rows", ev.Height))

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			return true
		case ev.MatchString("w", "up"):
			s.Move(1, 0, 0)
		case ev.MatchString("s", "down"):
			s.Move(-1, 0, 0)
		case ev.MatchString("a", "left"):
			s.Move(0, -1, 0)
		case ev.MatchString("d", "right"):
			s.Move(0, 1, 0)
		case ev.MatchString("q"):
			s.Move(0, 0, -1)
		case ev.MatchString("e"):
			s.Move(0, 0, 1)
		case ev.MatchString("space"):
			if _, err := s.Shoot(); err != nil {
				logger.Warn("shoot", zap.Error(err))
			}
		case ev.MatchString("l"):
			s.ToggleHeadlight()
		case ev.MatchString("i"):
			s.ToggleLighting()
		case ev.MatchString("z"):
			s.ToggleShadows()
		case ev.MatchString("h"):
			s.ToggleHulls()
		case ev.MatchString("b"):
			s.ToggleBounds()
		case ev.MatchString("o"):
			if _, err := s.CycleSort(); err != nil {
				logger.Warn("cycle sort", zap.Error(err))
			}
		case ev.MatchString("enter"):
			s.TogglePause()
		case ev.MatchString("p"):
			screenshot(sink)
		case ev.MatchString("?", "shift+/"):
			s.ToggleHUD()
		}

	case uv.MouseMotionEvent:
		if in.seen {
			s.MouseMove(float64(ev.X-in.lastX), float64(ev.Y-in.lastY))
		}
		in.lastX, in.lastY, in.seen = ev.X, ev.Y, true
	}
	return false
}

func screenshot(sink *render.TerminalSink) {
	path := fmt.Sprintf("gravity-%s.png", time.Now().Format("20060102-150405"))
	if err := sink.SavePNG(path); err != nil {
		logger.Error("screenshot", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
