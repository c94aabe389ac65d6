package audio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teymer/tone"
)

func TestIsBluetooth(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"AirPods Pro", true},
		{"bluez_output.00_1B_66_AA_BB_CC.1", true},
		{"Sony WH-1000XM4", true},
		{"Built-in Audio Analog Stereo", false},
		{"HDMI / DisplayPort 2 Output", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBluetooth(tt.name), "IsBluetooth(%q)", tt.name)
	}
}

func TestFakeSinkRecordsInOrder(t *testing.T) {
	f := NewFakeSink()
	var seen []int
	f.OnPlay = func(n int, _ tone.Tone) { seen = append(seen, n) }

	ctx := context.Background()
	require.NoError(t, f.Play(ctx, tone.New(880, 0.1)))
	require.NoError(t, f.Play(ctx, tone.New(1318.51, 0.08)))

	played := f.Played()
	require.Len(t, played, 2)
	assert.Equal(t, 880.0, played[0].Frequency)
	assert.Equal(t, 1318.51, played[1].Frequency)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestFakeSinkError(t *testing.T) {
	boom := errors.New("boom")
	f := &FakeSink{Err: boom}
	err := f.Play(context.Background(), tone.New(440, 1))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, f.Played(), 1)
}

func TestFakeSinkCancelled(t *testing.T) {
	f := NewFakeSink()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.Play(ctx, tone.New(440, 1)), context.Canceled)
	assert.Empty(t, f.Played())
}

func TestFakeOpener(t *testing.T) {
	f := NewFakeSink()
	s, err := FakeOpener(f)()
	require.NoError(t, err)
	assert.Equal(t, "fake", s.Name())
	s.Close()
	assert.True(t, f.Closed())
}
