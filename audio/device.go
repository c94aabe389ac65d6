package audio

import "fmt"

// outputDevice is the part of a playback device a sink drives.
type outputDevice interface {
	Start() error
	Stop() error
	Uninit()
}

// deviceSlot owns at most one live device. An uninitialised device is never
// kept: after a failure the slot is empty and the next start opens a new one.
type deviceSlot struct {
	dev  outputDevice
	open func() (outputDevice, error)
}

func (s *deviceSlot) start() error {
	if s.dev == nil {
		dev, err := s.open()
		if err != nil {
			return fmt.Errorf("init device: %w", err)
		}
		s.dev = dev
	}
	if err := s.dev.Start(); err == nil {
		return nil
	}

	// Devices can go stale across sleep/wake; recreate once.
	s.release()
	dev, err := s.open()
	if err != nil {
		return fmt.Errorf("reinit device: %w", err)
	}
	s.dev = dev
	if err := s.dev.Start(); err != nil {
		s.release()
		return fmt.Errorf("start device: %w", err)
	}
	return nil
}

func (s *deviceSlot) stop() {
	if s.dev != nil {
		_ = s.dev.Stop()
	}
}

func (s *deviceSlot) release() {
	if s.dev != nil {
		s.dev.Uninit()
		s.dev = nil
	}
}
