//go:build linux

package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"

	"teymer/log"
	"teymer/tone"
)

const channels = 2

// pulseConn is the part of *pulse.Client a sink plays through.
type pulseConn interface {
	NewPlayback(r pulse.Reader, opts ...pulse.PlaybackOption) (*pulse.PlaybackStream, error)
	Close()
}

type pulseSink struct {
	mu   sync.Mutex
	conn pulseConn // nil after a failed reconnect
	dial func() (pulseConn, error)
	name string
}

func dialPulse() (pulseConn, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("teymer"))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func Open() (Sink, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("teymer"))
	if err != nil {
		return nil, fmt.Errorf("%w: pulse: %w", ErrNoOutputDevice, err)
	}
	sink, err := c.DefaultSink()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: pulse default sink: %w", ErrNoOutputDevice, err)
	}
	return &pulseSink{conn: c, dial: dialPulse, name: sink.Name()}, nil
}

// newPlayback creates a stream on the current connection. A connection that
// cannot create streams (server restarted, user session bounced) is dropped
// and redialled once.
func (p *pulseSink) newPlayback(r pulse.Reader, opts ...pulse.PlaybackOption) (*pulse.PlaybackStream, error) {
	if p.conn != nil {
		stream, err := p.conn.NewPlayback(r, opts...)
		if err == nil {
			return stream, nil
		}
		log.Warnf("pulse stream failed, reconnecting: %v", err)
		p.conn.Close()
		p.conn = nil
	}

	c, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("reconnect: %w", err)
	}
	p.conn = c
	return p.conn.NewPlayback(r, opts...)
}

func (p *pulseSink) Name() string { return p.name }

func (p *pulseSink) Play(ctx context.Context, t tone.Tone) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	samples := t.Int16(tone.SampleRate, channels)
	if len(samples) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, nil
	})
	stream, err := p.newPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(tone.SampleRate),
		pulse.PlaybackLatency(0.1),
		// Full stream volume: the tone's amplitude is the only gain applied.
		pulse.PlaybackRawOption(func(cs *proto.CreatePlaybackStream) {
			cs.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm)}
		}),
	)
	if err != nil {
		return fmt.Errorf("pulse playback: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	stream.Stop()

	if err := stream.Error(); err != nil && !errors.Is(err, pulse.EndOfData) {
		return fmt.Errorf("pulse playback: %w", err)
	}
	return nil
}

func (p *pulseSink) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}
