// Package config loads cubectl settings from a YAML file and CUBELINK_*
// environment variables.
//
// Precedence, lowest first: built-in defaults, the YAML file, the
// environment, then command-line flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cubelink/cubelink-go/pkg/cube"
	"github.com/cubelink/cubelink-go/pkg/group"
	"github.com/cubelink/cubelink-go/pkg/transport"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CUBELINK_"

// Config errors.
var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// Scan holds scan retry pacing.
type Scan struct {
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// Log holds logging destinations.
type Log struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// File receives operational logs with rotation. Empty means stderr.
	File string `yaml:"file"`

	// MaxSizeMB rotates File once it grows past this size.
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `yaml:"max_backups"`

	// ProtocolFile receives CBOR capture events. Empty disables capture.
	ProtocolFile string `yaml:"protocol_file"`
}

// Config is the full cubectl configuration.
type Config struct {
	Model            string        `yaml:"model"`
	Group            string        `yaml:"group"` // empty selects the default group
	Readiness        string        `yaml:"readiness"`
	MaxFrameSize     int           `yaml:"max_frame_size"`
	Scan             Scan          `yaml:"scan"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	TeardownGrace    time.Duration `yaml:"teardown_grace"`
	Log              Log           `yaml:"log"`
	Simulate         bool          `yaml:"simulate"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Model:         "g3",
		Readiness:     group.PolicyFullMembership.String(),
		MaxFrameSize:  transport.DefaultMaxFrameSize,
		TeardownGrace: group.DefaultTeardownGrace,
		Scan: Scan{
			InitialBackoff: 500 * time.Millisecond,
			MaxBackoff:     10 * time.Second,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads defaults, then path if it is not empty, then the environment.
// It validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.Merge(data); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge overlays YAML data onto c. Unknown keys are rejected.
func (c *Config) Merge(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// ApplyEnv overlays CUBELINK_* variables found by lookup, for example
// CUBELINK_MODEL or CUBELINK_SCAN_MAX_BACKOFF.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"MODEL":             &c.Model,
		"GROUP":             &c.Group,
		"READINESS":         &c.Readiness,
		"LOG_LEVEL":         &c.Log.Level,
		"LOG_FILE":          &c.Log.File,
		"LOG_PROTOCOL_FILE": &c.Log.ProtocolFile,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_FRAME_SIZE":  &c.MaxFrameSize,
		"LOG_MAX_SIZE_MB": &c.Log.MaxSizeMB,
		"LOG_MAX_BACKUPS": &c.Log.MaxBackups,
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"SCAN_INITIAL_BACKOFF": &c.Scan.InitialBackoff,
		"SCAN_MAX_BACKOFF":     &c.Scan.MaxBackoff,
		"HANDSHAKE_TIMEOUT":    &c.HandshakeTimeout,
		"TEARDOWN_GRACE":       &c.TeardownGrace,
	}
	for key, dst := range durations {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, key, err)
			}
			*dst = d
		}
	}

	if v, ok := lookup(EnvPrefix + "SIMULATE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sSIMULATE: %v", ErrInvalid, EnvPrefix, err)
		}
		c.Simulate = b
	}
	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := cube.LookupModel(c.Model); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := group.ParseToken(c.Group); err != nil {
		return fmt.Errorf("%w: group: %v", ErrInvalid, err)
	}
	if _, err := group.ParsePolicy(c.Readiness); err != nil {
		return fmt.Errorf("%w: readiness: %v", ErrInvalid, err)
	}
	if c.MaxFrameSize < 1 {
		return fmt.Errorf("%w: max_frame_size must be positive", ErrInvalid)
	}
	if c.Scan.InitialBackoff < 0 || c.Scan.MaxBackoff < 0 {
		return fmt.Errorf("%w: scan backoff must not be negative", ErrInvalid)
	}
	if c.Scan.MaxBackoff > 0 && c.Scan.MaxBackoff < c.Scan.InitialBackoff {
		return fmt.Errorf("%w: scan.max_backoff below scan.initial_backoff", ErrInvalid)
	}
	if c.HandshakeTimeout < 0 || c.TeardownGrace < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalid)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
}

// Token returns the parsed group token. Call after Validate.
func (c *Config) Token() group.Token {
	t, _ := group.ParseToken(c.Group)
	return t
}

// Policy returns the parsed readiness policy. Call after Validate.
func (c *Config) Policy() group.Policy {
	p, _ := group.ParsePolicy(c.Readiness)
	return p
}
