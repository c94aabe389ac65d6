//go:build linux

package audio

import (
	"context"
	"errors"
	"testing"

	"github.com/jfreymuth/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teymer/tone"
)

// Needs a running PulseAudio/PipeWire server; skipped otherwise.
func TestPulseSinkPlaysSilence(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	s, err := Open()
	if errors.Is(err, ErrNoOutputDevice) {
		t.Skipf("no pulse server: %v", err)
	}
	require.NoError(t, err)
	defer s.Close()

	require.NotEmpty(t, s.Name())
	require.NoError(t, s.Play(context.Background(), tone.New(880, 0)))
}

type fakeConn struct {
	err    error
	plays  int
	closed int
}

func (c *fakeConn) NewPlayback(pulse.Reader, ...pulse.PlaybackOption) (*pulse.PlaybackStream, error) {
	c.plays++
	return nil, c.err
}

func (c *fakeConn) Close() { c.closed++ }

func TestPulseSinkReconnectsDeadConnection(t *testing.T) {
	dead := &fakeConn{err: errors.New("connection closed")}
	fresh := &fakeConn{err: errors.New("fresh stream")}
	dials := 0
	p := &pulseSink{conn: dead, dial: func() (pulseConn, error) {
		dials++
		return fresh, nil
	}}

	err := p.Play(context.Background(), tone.New(880, 0.1))
	require.ErrorIs(t, err, fresh.err)
	assert.Equal(t, 1, dead.closed)
	assert.Equal(t, 1, dials)
	assert.Equal(t, 1, fresh.plays)
	assert.Same(t, fresh, p.conn)
}

func TestPulseSinkRedialsAfterFailedReconnect(t *testing.T) {
	dead := &fakeConn{err: errors.New("connection closed")}
	dialErr := errors.New("server down")
	dials := 0
	p := &pulseSink{conn: dead, dial: func() (pulseConn, error) {
		dials++
		return nil, dialErr
	}}

	require.ErrorIs(t, p.Play(context.Background(), tone.New(880, 0.1)), dialErr)
	assert.Nil(t, p.conn)

	// The dead connection is never reused, and Close has nothing left to close.
	require.ErrorIs(t, p.Play(context.Background(), tone.New(880, 0.1)), dialErr)
	assert.Equal(t, 2, dials)
	assert.Equal(t, 1, dead.plays)
	p.Close()
	assert.Equal(t, 1, dead.closed)
}
