package simulation

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid population config")

// InfectionMode selects how an infected agent reaches its neighbours.
type InfectionMode int

const (
	// SpreadPossible gives every healthy agent within SafeDistance an
	// independent chance of infection.
	SpreadPossible InfectionMode = iota
	// SpreadNearest infects only the closest healthy agent within
	// SafeDistance, without a probability check.
	SpreadNearest
)

func (m InfectionMode) String() string {
	switch m {
	case SpreadPossible:
		return "possible"
	case SpreadNearest:
		return "nearest"
	default:
		return fmt.Sprintf("InfectionMode(%d)", int(m))
	}
}

// ParseInfectionMode converts a flag value into an InfectionMode.
func ParseInfectionMode(s string) (InfectionMode, error) {
	switch s {
	case "possible":
		return SpreadPossible, nil
	case "nearest":
		return SpreadNearest, nil
	}
	return 0, fmt.Errorf("unknown infection mode %q (want possible or nearest)", s)
}

// Config holds the construction parameters of a Population.
type Config struct {
	Count         int    // Number of agents
	FirstInfected int    // Agents infected at reset, must be below Count
	Seed          uint64 // Seed for NewSource when the caller does not inject a source

	Spread float64 // Standard deviation of the initial layout on each axis

	SafeDistance       float64 // Contacts at or beyond this distance are unaffected
	InfectionThreshold float64 // Standard-normal threshold; 0 gives ~50% per contact
	Mode               InfectionMode

	MoveWidth     float64 // Standard deviation of the per-round displacement
	MoveThreshold float64 // Standard-normal threshold for the movement switch

	MinDwell     int // Lower bound of the shared per-round confirmation draw
	MaxDwell     int // Upper bound (inclusive)
	ConfirmAfter int // Infected agents are confirmed once elapsed exceeds this
}

// DefaultConfig returns the parameters of the reference scenario.
func DefaultConfig() Config {
	return Config{
		Count:              1000,
		FirstInfected:      3,
		Seed:               0,
		Spread:             100,
		SafeDistance:       2.0,
		InfectionThreshold: 0,
		Mode:               SpreadPossible,
		MoveWidth:          3,
		MoveThreshold:      1.99,
		MinDwell:           3,
		MaxDwell:           6,
		ConfirmAfter:       14,
	}
}

// Validate checks the config and returns an error wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConfig, c.Count)
	case c.FirstInfected < 0:
		return fmt.Errorf("%w: first infected count must be non-negative, got %d", ErrInvalidConfig, c.FirstInfected)
	case c.FirstInfected >= c.Count:
		return fmt.Errorf("%w: first infected count %d must be less than count %d", ErrInvalidConfig, c.FirstInfected, c.Count)
	case c.Spread < 0:
		return fmt.Errorf("%w: spread must be non-negative, got %g", ErrInvalidConfig, c.Spread)
	case c.SafeDistance <= 0:
		return fmt.Errorf("%w: safe distance must be positive, got %g", ErrInvalidConfig, c.SafeDistance)
	case c.MoveWidth < 0:
		return fmt.Errorf("%w: move width must be non-negative, got %g", ErrInvalidConfig, c.MoveWidth)
	case c.MinDwell < 0 || c.MaxDwell < c.MinDwell:
		return fmt.Errorf("%w: dwell range [%d, %d] is empty or negative", ErrInvalidConfig, c.MinDwell, c.MaxDwell)
	case c.ConfirmAfter < 0:
		return fmt.Errorf("%w: confirm-after must be non-negative, got %d", ErrInvalidConfig, c.ConfirmAfter)
	case c.Mode != SpreadPossible && c.Mode != SpreadNearest:
		return fmt.Errorf("%w: unknown infection mode %v", ErrInvalidConfig, c.Mode)
	}
	return nil
}
