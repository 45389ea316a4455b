package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the full server configuration, loaded from an HCL file.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Rooms  *RoomDefaults  `hcl:"rooms,block"`
}

// ServerSettings contains the listener and operational settings. None of
// these affect gameplay.
type ServerSettings struct {
	Address   string   `hcl:"address,optional"`
	Port      int      `hcl:"port,optional"`
	LogLevel  string   `hcl:"log_level,optional"`
	Origins   []string `hcl:"origins,optional"`
	GodSecret string   `hcl:"god_secret,optional"`
}

// RoomDefaults are applied to rooms created without explicit parameters.
type RoomDefaults struct {
	MaxSeats          int `hcl:"max_seats,optional"`
	SmallBlind        int `hcl:"small_blind,optional"`
	BigBlind          int `hcl:"big_blind,optional"`
	ReapSeconds       int `hcl:"reap_seconds,optional"`
	ActTimeoutSeconds int `hcl:"act_timeout_seconds,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Rooms: &RoomDefaults{
			MaxSeats:    8,
			SmallBlind:  10,
			BigBlind:    20,
			ReapSeconds: 60,
		},
	}
}

// LoadConfig reads an HCL configuration file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Rooms == nil {
		c.Rooms = &RoomDefaults{}
	}
	if c.Rooms.MaxSeats == 0 {
		c.Rooms.MaxSeats = 8
	}
	if c.Rooms.SmallBlind == 0 {
		c.Rooms.SmallBlind = 10
	}
	if c.Rooms.BigBlind == 0 {
		c.Rooms.BigBlind = c.Rooms.SmallBlind * 2
	}
	if c.Rooms.ReapSeconds == 0 {
		c.Rooms.ReapSeconds = 60
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}
	if c.Rooms.MaxSeats < 2 || c.Rooms.MaxSeats > 10 {
		return fmt.Errorf("max_seats must be between 2 and 10, got %d", c.Rooms.MaxSeats)
	}
	if c.Rooms.SmallBlind < 1 || c.Rooms.BigBlind <= c.Rooms.SmallBlind {
		return fmt.Errorf("blinds must satisfy 0 < small_blind < big_blind")
	}
	return nil
}

// ReapDelay returns the empty-room grace window.
func (c *Config) ReapDelay() time.Duration {
	return time.Duration(c.Rooms.ReapSeconds) * time.Second
}

// ActTimeout returns the per-turn timeout, zero meaning disabled.
func (c *Config) ActTimeout() time.Duration {
	return time.Duration(c.Rooms.ActTimeoutSeconds) * time.Second
}
