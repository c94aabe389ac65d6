package config

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teymer/tone"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 880.0, cfg.StartFreq)
	assert.Equal(t, 1318.51, cfg.EndFreq)
	assert.Equal(t, uint64(1180), cfg.WorkPeriod)
	assert.Equal(t, uint64(19), cfg.RestPeriod)
	assert.Equal(t, 0.1, cfg.StartAmplification)
	assert.Equal(t, 0.08, cfg.EndAmplification)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero periods", func(c *Config) { c.WorkPeriod, c.RestPeriod = 0, 0 }, ""},
		{"silent tones", func(c *Config) { c.StartAmplification, c.EndAmplification = 0, 0 }, ""},
		{"full gain", func(c *Config) { c.StartAmplification, c.EndAmplification = 1, 1 }, ""},
		{"zero start freq", func(c *Config) { c.StartFreq = 0 }, "start-freq"},
		{"negative end freq", func(c *Config) { c.EndFreq = -440 }, "end-freq"},
		{"nan freq", func(c *Config) { c.StartFreq = math.NaN() }, "start-freq"},
		{"inf freq", func(c *Config) { c.EndFreq = math.Inf(1) }, "end-freq"},
		{"gain above one", func(c *Config) { c.StartAmplification = 1.5 }, "start-amplification"},
		{"negative gain", func(c *Config) { c.EndAmplification = -0.1 }, "end-amplification"},
		{"huge work period", func(c *Config) { c.WorkPeriod = math.MaxUint64 }, "work-period"},
		{"huge rest period", func(c *Config) { c.RestPeriod = math.MaxUint64 }, "rest-period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := Config{WorkPeriod: 1180, RestPeriod: 0}
	assert.Equal(t, 1180*time.Second, cfg.WorkDuration())
	assert.Zero(t, cfg.RestDuration())
}

func TestTones(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, tone.Tone{Frequency: 880, Duration: tone.Duration, Amplitude: 0.1}, cfg.StartTone())
	assert.Equal(t, tone.Tone{Frequency: 1318.51, Duration: tone.Duration, Amplitude: 0.08}, cfg.EndTone())
}
