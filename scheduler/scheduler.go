// Package scheduler runs the endless work/rest reminder loop.
package scheduler

import (
	"context"
	"time"

	"teymer/audio"
	"teymer/config"
	"teymer/log"
	"teymer/tone"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc. A zero or negative d returns at once.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Scheduler struct {
	cfg   config.Config
	sink  audio.Sink
	sleep SleepFunc

	startTone tone.Tone
	endTone   tone.Tone
	cycles    uint64
}

type Option func(*Scheduler)

func WithSleep(fn SleepFunc) Option {
	return func(s *Scheduler) { s.sleep = fn }
}

func New(cfg config.Config, sink audio.Sink, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:       cfg,
		sink:      sink,
		sleep:     Sleep,
		startTone: cfg.StartTone(),
		endTone:   cfg.EndTone(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cycles returns how many cycles have completed.
func (s *Scheduler) Cycles() uint64 { return s.cycles }

// Run repeats Cycle until ctx is done. With a background context it never returns.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := s.Cycle(ctx); err != nil {
			return err
		}
	}
}

// Cycle performs one work period, start tone, rest period and end tone.
// It only fails when ctx is done; playback errors are logged and skipped.
func (s *Scheduler) Cycle(ctx context.Context) error {
	n := s.cycles + 1
	log.Cycle(n)

	if err := s.sleep(ctx, s.cfg.WorkDuration()); err != nil {
		return err
	}
	if err := s.play(ctx, "start", n, s.startTone); err != nil {
		return err
	}
	if err := s.sleep(ctx, s.cfg.RestDuration()); err != nil {
		return err
	}
	if err := s.play(ctx, "end", n, s.endTone); err != nil {
		return err
	}

	s.cycles = n
	return nil
}

func (s *Scheduler) play(ctx context.Context, label string, cycle uint64, t tone.Tone) error {
	if err := s.sink.Play(ctx, t); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warnf("%s tone playback failed: %v", label, err)
		return nil
	}
	log.Tone(label, cycle, t)
	return nil
}
