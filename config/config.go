// Package config holds the timer settings and their defaults.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"teymer/tone"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is built once from flags and never changes afterwards.
type Config struct {
	StartFreq          float64 // Hz of the tone that ends the work period
	EndFreq            float64 // Hz of the tone that ends the rest period
	WorkPeriod         uint64  // seconds
	RestPeriod         uint64  // seconds
	StartAmplification float64
	EndAmplification   float64
}

const (
	DefaultStartFreq          = 880
	DefaultEndFreq            = 1318.51
	DefaultWorkPeriod         = 1180
	DefaultRestPeriod         = 19
	DefaultStartAmplification = 0.1
	DefaultEndAmplification   = 0.08
)

func Defaults() Config {
	return Config{
		StartFreq:          DefaultStartFreq,
		EndFreq:            DefaultEndFreq,
		WorkPeriod:         DefaultWorkPeriod,
		RestPeriod:         DefaultRestPeriod,
		StartAmplification: DefaultStartAmplification,
		EndAmplification:   DefaultEndAmplification,
	}
}

// Validate reports the first field that violates its constraint.
func (c Config) Validate() error {
	if err := validateFreq("start-freq", c.StartFreq); err != nil {
		return err
	}
	if err := validateFreq("end-freq", c.EndFreq); err != nil {
		return err
	}
	if err := validateGain("start-amplification", c.StartAmplification); err != nil {
		return err
	}
	if err := validateGain("end-amplification", c.EndAmplification); err != nil {
		return err
	}
	if c.WorkPeriod > maxPeriod {
		return fmt.Errorf("%w: work-period: %d exceeds %d seconds", ErrInvalid, c.WorkPeriod, maxPeriod)
	}
	if c.RestPeriod > maxPeriod {
		return fmt.Errorf("%w: rest-period: %d exceeds %d seconds", ErrInvalid, c.RestPeriod, maxPeriod)
	}
	return nil
}

// time.Duration overflows past this many seconds.
const maxPeriod = uint64(math.MaxInt64 / int64(time.Second))

func validateFreq(path string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s: must be > 0 Hz, got %v", ErrInvalid, path, v)
	}
	return nil
}

func validateGain(path string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s: must be within [0, 1], got %v", ErrInvalid, path, v)
	}
	return nil
}

func (c Config) WorkDuration() time.Duration {
	return time.Duration(c.WorkPeriod) * time.Second
}

func (c Config) RestDuration() time.Duration {
	return time.Duration(c.RestPeriod) * time.Second
}

func (c Config) StartTone() tone.Tone {
	return tone.New(c.StartFreq, c.StartAmplification)
}

func (c Config) EndTone() tone.Tone {
	return tone.New(c.EndFreq, c.EndAmplification)
}
