package cmd

import (
	"log/slog"

	"github.com/airstick/airstick/joystick"
)

// backendFlags are the backend selection flags shared by device commands.
type backendFlags struct {
	Backend   string `help:"Input backend to use (jsdev or replay)" default:"jsdev" env:"AIRSTICK_BACKEND"`
	ReplayDir string `help:"Recording directory for the replay backend" default:"." env:"AIRSTICK_REPLAY_DIR"`
}

// newDevice constructs the selected backend with the shared options.
func (f backendFlags) newDevice(logger *slog.Logger, raw joystick.RawLogger) (joystick.Device, error) {
	return joystick.NewDevice(f.Backend, &joystick.CreateOptions{
		Logger: logger,
		Raw:    raw,
		Path:   f.ReplayDir,
	})
}
