// Package config defines the command line surface parsed by kong.
package config

import (
	"github.com/airstick/airstick/internal/cmd"
)

// LogConfig groups the logging flags shared by all commands.
type LogConfig struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"AIRSTICK_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of the console" env:"AIRSTICK_LOG_FILE"`
	RawFile string `help:"Write a hex dump of every raw device record to this file" env:"AIRSTICK_LOG_RAW_FILE"`
}

// CLI is the root command structure.
type CLI struct {
	Log    LogConfig `embed:"" prefix:"log."`
	Config string    `help:"Path to a configuration file" env:"AIRSTICK_CONFIG"`

	List      cmd.List          `cmd:"" help:"List attached joysticks"`
	Info      cmd.Info          `cmd:"" help:"Show capabilities and state of a joystick"`
	Watch     cmd.Watch         `cmd:"" help:"Poll a joystick and print state changes"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
