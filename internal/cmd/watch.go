package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/airstick/airstick/backend/replay"
	"github.com/airstick/airstick/joystick"
)

// Watch opens a device and polls it on a fixed tick, printing the state
// whenever it changes. This is the loop a ground control client runs, with
// stdout in place of the flight control mapping.
type Watch struct {
	backendFlags `embed:""`
	Device       int           `arg:"" help:"Device id to watch"`
	Interval     time.Duration `help:"Polling interval" default:"20ms" env:"AIRSTICK_WATCH_INTERVAL"`
	JSON         bool          `help:"Emit one JSON object per update"`
	Record       string        `help:"Write a replay recording (.jsrec) of the session to this file"`
}

// Run is called by Kong when the watch command is executed.
func (w *Watch) Run(logger *slog.Logger, raw joystick.RawLogger) error {
	if w.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", w.Interval)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rec *replay.Recorder
	if w.Record != "" {
		f, err := os.OpenFile(w.Record, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
		defer func() { _ = f.Close() }()
		rec = replay.NewRecorder(f)
		raw = joystick.MultiRaw(raw, rec)
	}

	dev, err := w.newDevice(logger, raw)
	if err != nil {
		return err
	}
	if err := dev.Open(w.Device); err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	state, err := dev.Read()
	if err != nil {
		return err
	}
	if rec != nil {
		if err := rec.WriteInit(state); err != nil {
			return fmt.Errorf("write recording: %w", err)
		}
	}

	logger.Info("watching joystick", "id", w.Device, "interval", w.Interval)

	interactive := !w.JSON && term.IsTerminal(int(os.Stdout.Fd()))
	print := func(s joystick.State) error {
		if w.JSON {
			return json.NewEncoder(os.Stdout).Encode(s)
		}
		if interactive {
			fmt.Printf("\r\x1b[2K%s", formatState(s))
			return nil
		}
		fmt.Println(formatState(s))
		return nil
	}
	if err := print(state); err != nil {
		return err
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if interactive {
				fmt.Println()
			}
			if rec != nil {
				if err := rec.Err(); err != nil {
					return fmt.Errorf("write recording: %w", err)
				}
				logger.Info("recording written", "file", w.Record)
			}
			return nil
		case <-ticker.C:
			next, err := dev.Read()
			if err != nil {
				if interactive {
					fmt.Println()
				}
				return err
			}
			if next.Equal(state) {
				continue
			}
			state = next
			if err := print(state); err != nil {
				return err
			}
		}
	}
}

// formatState renders a snapshot as one fixed-width line so successive
// updates line up under each other.
func formatState(s joystick.State) string {
	var b strings.Builder
	b.WriteString("axes [")
	for i, v := range s.Axes {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%+.3f", v)
	}
	b.WriteString("]  buttons [")
	for i, v := range s.Buttons {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteString("]")
	return b.String()
}
