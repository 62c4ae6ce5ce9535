package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/airstick/airstick/joystick"
)

// Info opens a device, prints its capabilities and initial state, and
// closes it again.
type Info struct {
	backendFlags `embed:""`
	Device       int  `arg:"" help:"Device id to inspect"`
	JSON         bool `help:"Emit as JSON"`
}

// Run is called by Kong when the info command is executed.
func (c *Info) Run(logger *slog.Logger, raw joystick.RawLogger) error {
	dev, err := c.newDevice(logger, raw)
	if err != nil {
		return err
	}
	if err := dev.Open(c.Device); err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	info, err := dev.Info()
	if err != nil {
		return err
	}
	state, err := dev.Read()
	if err != nil {
		return err
	}

	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(struct {
			joystick.Info
			State joystick.State `json:"state"`
		}{info, state})
	}
	fmt.Printf("name:    %s\n", info.Name)
	if info.Version != 0 {
		// Driver version packs major.minor.patch into one int32.
		fmt.Printf("driver:  %d.%d.%d\n",
			info.Version>>16, (info.Version>>8)&0xff, info.Version&0xff)
	}
	fmt.Printf("axes:    %d\n", info.Axes)
	fmt.Printf("buttons: %d\n", info.Buttons)
	fmt.Printf("state:   %s\n", formatState(state))
	return nil
}
