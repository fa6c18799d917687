package config

import (
	"fmt"
	"strings"
)

// Mode selects how the per-target probes are scheduled.
type Mode int

const (
	// ModeSerial runs one probe at a time with per-probe retries.
	ModeSerial Mode = iota
	// ModeBatch submits every probe at once and collects whatever completes.
	ModeBatch
)

func (m Mode) String() string {
	switch m {
	case ModeSerial:
		return "serial"
	case ModeBatch:
		return "batch"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Environment is where the scan process runs.
type Environment string

const (
	EnvironmentLocal  Environment = "local"
	EnvironmentLambda Environment = "lambda"
)

// ParseEnvironment accepts the environment names case-insensitively. An empty
// string means local.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return EnvironmentLocal, nil
	case "lambda":
		return EnvironmentLambda, nil
	default:
		return "", fmt.Errorf("unknown execution environment %q", s)
	}
}
