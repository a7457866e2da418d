// castsim runs the fishing scene headlessly: the crate pops the magnet, the
// player hangs it on the rod and casts until the key is fished up.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"islandquest/internal/config"
	"islandquest/internal/engine"
	"islandquest/internal/sim"
	"islandquest/internal/telemetry"
)

type options struct {
	configPath string
	envPath    string
	ticks      int
	cycles     int
	listen     string
	schema     bool
	realtime   bool
	quiet      bool
	dump       string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("castsim", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "path to a JSON config file")
	fs.StringVar(&o.envPath, "env", ".env", "path to a .env file with ISLANDQUEST_* overrides")
	fs.IntVar(&o.ticks, "ticks", 0, "ticks to run (0 = config value, or long enough for the script)")
	fs.IntVar(&o.cycles, "cycles", 3, "cast/reel cycles in the script")
	fs.StringVar(&o.listen, "listen", "", "serve the websocket snapshot stream on this address")
	fs.BoolVar(&o.schema, "schema", false, "print the config JSON schema and exit")
	fs.BoolVar(&o.realtime, "realtime", false, "pace ticks at the configured tick rate")
	fs.BoolVar(&o.quiet, "quiet", false, "suppress gameplay logs")
	fs.StringVar(&o.dump, "dump", "", "write the final scene to this file")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.cycles < 0 {
		return o, fmt.Errorf("-cycles must be >= 0")
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if o.schema {
		if err := writeSchema(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "castsim: %v\n", err)
		os.Exit(1)
	}
}

func writeSchema(w io.Writer) error {
	data, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func run(ctx context.Context, o options, out io.Writer) error {
	if err := config.LoadEnv(o.envPath); err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.listen != "" {
		cfg.Telemetry.Listen = o.listen
	}
	if o.realtime {
		cfg.Telemetry.Realtime = true
	}
	if o.quiet {
		prev := engine.Logger.Writer()
		engine.Logger.SetOutput(io.Discard)
		defer engine.Logger.SetOutput(prev)
	}

	s, err := sim.Build(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	s.SetScript(sim.DefaultScript(o.cycles))

	ticks := o.ticks
	if ticks == 0 {
		ticks = cfg.Sim.Ticks
		if need := sim.ScriptTicks(o.cycles); ticks < need {
			ticks = need
		}
	}

	var publish func(telemetry.Snapshot)
	if cfg.Telemetry.Listen != "" {
		hub := telemetry.NewHub()
		defer hub.Close()

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Addr: cfg.Telemetry.Listen, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				engine.Warnf("Telemetry: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		fmt.Fprintf(out, "streaming snapshots on ws://%s/ws\n", cfg.Telemetry.Listen)

		publish = func(snap telemetry.Snapshot) {
			if err := hub.Publish(snap); err != nil {
				engine.Warnf("Telemetry: %v", err)
			}
		}
	}

	var pace <-chan time.Time
	if cfg.Telemetry.Realtime {
		ticker := time.NewTicker(time.Duration(float64(time.Second) * float64(cfg.DeltaTime())))
		defer ticker.Stop()
		pace = ticker.C
	}

	for i := 0; i < ticks; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}
		s.Step()
		if publish != nil {
			publish(s.Snapshot())
		}
	}

	printSummary(out, s)

	if o.dump != "" {
		if err := s.World.SaveScene(o.dump); err != nil {
			return err
		}
		fmt.Fprintf(out, "scene written to %s\n", o.dump)
	}
	return nil
}

func printSummary(out io.Writer, s *sim.Sim) {
	snap := s.Snapshot()
	fmt.Fprintf(out, "ticks:  %d\n", snap.Tick)
	fmt.Fprintf(out, "casts:  %d\n", snap.Casts)
	fmt.Fprintf(out, "rod:    %s\n", snap.RodState)
	fmt.Fprintf(out, "magnet: %s/%s at (%.2f, %.2f, %.2f)\n", snap.MagnetMode, snap.MagnetOwner, snap.Magnet.X, snap.Magnet.Y, snap.Magnet.Z)
	fmt.Fprintf(out, "key:    %s at (%.2f, %.2f, %.2f)\n", snap.RewardState, snap.Reward.X, snap.Reward.Y, snap.Reward.Z)
}
