package audio

import (
	"context"
	"sync"

	"teymer/tone"
)

// FakeSink records tones instead of playing them.
type FakeSink struct {
	// Err is returned from every Play when set.
	Err error
	// OnPlay runs after a tone is recorded; n counts plays from 1.
	OnPlay func(n int, t tone.Tone)

	mu     sync.Mutex
	played []tone.Tone
	closed bool
}

func NewFakeSink() *FakeSink { return &FakeSink{} }

// FakeOpener returns an Opener that always hands out f.
func FakeOpener(f *FakeSink) Opener {
	return func() (Sink, error) { return f, nil }
}

func (f *FakeSink) Play(ctx context.Context, t tone.Tone) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.played = append(f.played, t)
	n := len(f.played)
	f.mu.Unlock()

	if f.OnPlay != nil {
		f.OnPlay(n, t)
	}
	return f.Err
}

func (f *FakeSink) Played() []tone.Tone {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tone.Tone, len(f.played))
	copy(out, f.played)
	return out
}

func (f *FakeSink) Name() string { return "fake" }

func (f *FakeSink) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *FakeSink) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
