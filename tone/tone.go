package tone

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	SampleRate = 44100

	// Every reminder tone has the same length.
	Duration = 500 * time.Millisecond
)

// Tone is a fixed-length pure sine wave.
type Tone struct {
	Frequency float64 // Hz
	Duration  time.Duration
	Amplitude float64 // linear gain, 0 = silence, 1 = full scale
}

func New(freq, amp float64) Tone {
	return Tone{Frequency: freq, Duration: Duration, Amplitude: amp}
}

// Frames returns the number of sample frames the tone occupies at sampleRate.
func (t Tone) Frames(sampleRate int) int {
	if t.Duration <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(int64(sampleRate) * int64(t.Duration) / int64(time.Second))
}

func (t Tone) gain() float64 {
	switch {
	case t.Amplitude < 0 || math.IsNaN(t.Amplitude):
		return 0
	case t.Amplitude > 1:
		return 1
	}
	return t.Amplitude
}

// Sample returns frame i in [-1, 1], already scaled by the amplitude.
func (t Tone) Sample(i, sampleRate int) float64 {
	ts := float64(i) / float64(sampleRate)
	return math.Sin(2*math.Pi*t.Frequency*ts) * t.gain()
}

// Int16 generates interleaved signed 16-bit samples, the same value on every channel.
func (t Tone) Int16(sampleRate, channels int) []int16 {
	if channels < 1 {
		channels = 1
	}
	n := t.Frames(sampleRate)
	samples := make([]int16, n*channels)
	for i := 0; i < n; i++ {
		s := int16(t.Sample(i, sampleRate) * math.MaxInt16)
		for c := 0; c < channels; c++ {
			samples[i*channels+c] = s
		}
	}
	return samples
}

// Bytes is Int16 encoded little-endian, the layout malgo's S16 format expects.
func (t Tone) Bytes(sampleRate, channels int) []byte {
	samples := t.Int16(sampleRate, channels)
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}
