package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// StorageMode determines how events are stored.
type StorageMode uint8

const (
	ModeStream StorageMode = iota // immediate write
	ModeRing                      // last RingSize events, written by DumpTo
)

func (m StorageMode) String() string {
	if m == ModeRing {
		return "ring"
	}
	return "stream"
}

// ParseMode converts a flag value into a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(s) {
	case "", "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	default:
		return ModeStream, fmt.Errorf("invalid trace mode: %q (expected: stream|ring)", s)
	}
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // if nil, OutputPath is used
	OutputPath string    // "-" or "" for stderr
	RingSize   int       // for ModeRing (default 4096)
}

// New creates a Tracer based on Config.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	switch cfg.Mode {
	case ModeStream:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return NewStreamTracer(w, cfg.Level, cfg.format()), nil
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

func (cfg Config) format() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
