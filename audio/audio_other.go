//go:build !linux

package audio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"teymer/tone"
)

const channels = 1

type malgoSink struct {
	ctx    *malgo.AllocatedContext
	device deviceSlot
	name   string

	mu      sync.Mutex // one tone at a time
	current atomic.Pointer[playback]
}

// playback is owned by the device callback once stored in current.
type playback struct {
	samples []byte
	pos     int
	done    chan struct{}
	once    sync.Once
}

func (pb *playback) finish() { pb.once.Do(func() { close(pb.done) }) }

func Open() (Sink, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: malgo: %w", ErrNoOutputDevice, err)
	}

	devices, err := ctx.Devices(malgo.Playback)
	if err != nil || len(devices) == 0 {
		_ = ctx.Uninit()
		ctx.Free()
		if err == nil {
			return nil, ErrNoOutputDevice
		}
		return nil, fmt.Errorf("%w: malgo devices: %w", ErrNoOutputDevice, err)
	}
	name := "system default"
	for _, d := range devices {
		if d.IsDefault != 0 {
			name = d.Name()
			break
		}
	}

	s := &malgoSink{ctx: ctx, name: name}
	s.device.open = s.initDevice
	dev, err := s.initDevice()
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("%w: malgo init device: %w", ErrNoOutputDevice, err)
	}
	s.device.dev = dev
	return s, nil
}

func (s *malgoSink) initDevice() (outputDevice, error) {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = channels
	config.SampleRate = tone.SampleRate

	device, err := malgo.InitDevice(s.ctx.Context, config, malgo.DeviceCallbacks{
		Data: s.data,
	})
	if err != nil {
		return nil, err
	}
	return device, nil
}

// data runs on the audio thread. A playback finishes on the callback after its
// last bytes went out, so the device has consumed them by the time Play returns.
func (s *malgoSink) data(out, _ []byte, _ uint32) {
	n := 0
	if pb := s.current.Load(); pb != nil {
		if pb.pos >= len(pb.samples) {
			pb.finish()
		} else {
			n = copy(out, pb.samples[pb.pos:])
			pb.pos += n
		}
	}
	clear(out[n:])
}

func (s *malgoSink) Name() string { return s.name }

func (s *malgoSink) Play(ctx context.Context, t tone.Tone) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	samples := t.Bytes(tone.SampleRate, channels)
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pb := &playback{samples: samples, done: make(chan struct{})}
	s.current.Store(pb)
	defer s.current.Store(nil)

	if err := s.device.start(); err != nil {
		return fmt.Errorf("malgo: %w", err)
	}
	defer s.device.stop()

	select {
	case <-pb.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *malgoSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device.release()
	_ = s.ctx.Uninit()
	s.ctx.Free()
}
