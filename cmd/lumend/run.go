package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenwm/lumen/internal/compositor"
	"github.com/lumenwm/lumen/internal/config"
	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/interactive"
	"github.com/lumenwm/lumen/internal/platform"
	"github.com/lumenwm/lumen/internal/surface"
	"github.com/lumenwm/lumen/pkg/logger"
)

var demoMode bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the window-management core (foreground)",
	RunE:  runDaemon,
}

func init() {
	runCmd.Flags().BoolVar(&demoMode, "demo", false,
		"drive a scripted scenario against headless collaborators and exit")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}

	opts := []logger.Option{
		logger.WithConsole(),
		logger.WithLevel(logger.ParseLevel(cfg.Logging.Level)),
	}
	if cfg.Logging.File != "" {
		opts = append(opts, logger.WithFile(cfg.Logging.File))
	}
	log, err := logger.New(opts...)
	if err != nil {
		return err
	}
	defer log.Close()

	// Real renderer and client transports plug in here; until then the
	// recording collaborators stand in so the core can run headless.
	renderer := &platform.NopRenderer{}
	notifier := platform.NewNopNotifier()
	comp := compositor.New(renderer, notifier, cfg, log)
	comp.AddWorkspace("main", platform.OutputInfo{
		Name:   "headless-0",
		Bounds: geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
	})

	if demoMode {
		runDemo(comp, notifier, log)
		return nil
	}

	watcher, err := config.Watch(path,
		func(next *config.Config) {
			if err := comp.ReloadConfig(next); err != nil {
				log.Warn().Err(err).Msg("config reload rejected")
			}
		},
		func(err error) {
			log.Warn().Err(err).Msg("config watch error")
		})
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config watch unavailable")
	} else {
		defer watcher.Close()
	}

	log.Info().Str("version", Version).Str("config", path).Msg("lumend running")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Info().Str("signal", s.String()).Msg("shutting down")
	return nil
}

// runDemo walks one maximize round and one interactive resize against the
// headless collaborators, acknowledging configures the way a client would.
func runDemo(comp *compositor.Compositor, notifier *platform.NopNotifier, log *logger.Logger) {
	ws, _ := comp.Workspace("main")

	var handles []surface.Handle
	for i, r := range []geometry.Rect{
		{X: 40, Y: 60, Width: 600, Height: 400},
		{X: 700, Y: 60, Width: 600, Height: 400},
		{X: 40, Y: 500, Width: 600, Height: 400},
	} {
		h, err := comp.CreateToplevel("main")
		if err != nil {
			log.Error().Err(err).Msg("demo surface creation failed")
			return
		}
		comp.Configure(h, surface.MaskPosition|surface.MaskSize, surface.Params{
			X: r.X, Y: r.Y, Width: r.Width, Height: r.Height,
			NoTransaction: true,
		})
		comp.HandleMap(h)
		log.Info().Int("n", i).Uint64("surface", uint64(h)).Msg("demo surface mapped")
		handles = append(handles, h)
	}

	ack := func(h surface.Handle) {
		comp.HandleCommit(h, notifier.LastSerial(platform.SurfaceID(h)))
	}

	log.Info().Msg("demo: maximizing surface 1")
	comp.Configure(handles[1], surface.MaskMaximized, surface.Params{Maximized: true})
	ack(handles[1])
	st, _ := comp.StateObtain(handles[1])
	log.Info().
		Int("x", st.X).Int("y", st.Y).
		Int("width", st.Width).Int("height", st.Height).
		Msg("demo: surface 1 maximized")

	log.Info().Msg("demo: resizing surface 0 east by 50")
	comp.PointerWarp("seat0", geometry.Point{X: 640, Y: 260})
	comp.BeginResize("seat0", handles[0], interactive.ModeResizeE)
	comp.HandlePointerMotion("seat0", geometry.Point{X: 690, Y: 260}, time.Now())
	comp.CommitInteractive("seat0")
	ack(handles[0])
	st, _ = comp.StateObtain(handles[0])
	log.Info().
		Int("width", st.Width).Int("height", st.Height).
		Bool("transaction_running", ws.TransactionRunning()).
		Msg("demo: surface 0 resized")

	for _, h := range handles {
		comp.HandleDestroy(h)
	}
	log.Info().Msg("demo complete")
}
