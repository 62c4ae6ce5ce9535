package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// List prints the devices the selected backend can currently see.
type List struct {
	backendFlags `embed:""`
	JSON         bool `help:"Emit one JSON object per device"`
}

// Run is called by Kong when the list command is executed.
func (l *List) Run(logger *slog.Logger) error {
	dev, err := l.newDevice(logger, nil)
	if err != nil {
		return err
	}
	devs, err := dev.Devices()
	if err != nil {
		return err
	}

	if l.JSON {
		enc := json.NewEncoder(os.Stdout)
		for _, d := range devs {
			if err := enc.Encode(d); err != nil {
				return err
			}
		}
		return nil
	}
	if len(devs) == 0 {
		fmt.Println("no devices found")
		return nil
	}
	for _, d := range devs {
		fmt.Printf("%3d  %s\n", d.ID, d.Name)
	}
	return nil
}
