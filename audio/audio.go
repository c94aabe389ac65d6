package audio

import (
	"context"
	"errors"
	"strings"

	"teymer/tone"
)

// ErrNoOutputDevice is wrapped by Open when no playback device can be reached.
var ErrNoOutputDevice = errors.New("no audio output device")

// Sink plays tones on an output device.
type Sink interface {
	// Play blocks until the tone has been handed to the device in full.
	Play(ctx context.Context, t tone.Tone) error
	Name() string
	Close()
}

// Opener acquires a Sink. Open is the platform default.
type Opener func() (Sink, error)

var btKeywords = []string{
	"airpods", "beats", "bose", "wh-1000", "wf-1000",
	"sony wh-", "sony wf-",
	"jabra", "galaxy buds", "pixel buds", "powerbeats",
	"jbl ", "sennheiser momentum", "plantronics",
	"tozo", "anker soundcore", "skullcandy",
	"bluetooth", "bluez", " bt ", " bt)", " bt]",
}

// IsBluetooth guesses from the device name whether output goes over Bluetooth.
// Such sinks often power down between tones and swallow the first few hundred
// milliseconds of a short tone.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
