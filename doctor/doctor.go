package doctor

import (
	"context"
	"fmt"
	"io"
	"time"

	"teymer/audio"
	"teymer/config"
	"teymer/tone"
)

const playTimeout = 5 * time.Second

// Run opens the output device and plays both reminder tones once.
// It returns an exit code (0=all pass, 1=any fail).
func Run(w io.Writer, open audio.Opener, cfg config.Config) int {
	fmt.Fprintln(w, "teymer doctor - audio output diagnostics")
	fmt.Fprintln(w, "========================================")

	allPass := true

	sink, ok := checkOutput(w, open)
	if !ok {
		allPass = false
	} else {
		defer sink.Close()
		if !checkTone(w, sink, "[2/3] Start tone", cfg.StartTone()) {
			allPass = false
		}
		if !checkTone(w, sink, "[3/3] End tone", cfg.EndTone()) {
			allPass = false
		}
	}

	fmt.Fprintln(w)
	if allPass {
		fmt.Fprintln(w, "All checks passed!")
		return 0
	}
	fmt.Fprintln(w, "Some checks failed. See details above.")
	return 1
}

func checkOutput(w io.Writer, open audio.Opener) (audio.Sink, bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[1/3] Audio output device")

	sink, err := open()
	if err != nil {
		fmt.Fprintf(w, "  FAIL: cannot open audio output: %v\n", err)
		return nil, false
	}
	fmt.Fprintf(w, "  PASS: using %s\n", sink.Name())
	if audio.IsBluetooth(sink.Name()) {
		fmt.Fprintln(w, "  Warning: Bluetooth output may cut off the start of short tones")
	}
	return sink, true
}

func checkTone(w io.Writer, sink audio.Sink, title string, t tone.Tone) bool {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "  Playing %.2f Hz at amplification %.2f for %s...\n", t.Frequency, t.Amplitude, t.Duration)

	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	start := time.Now()
	if err := sink.Play(ctx, t); err != nil {
		fmt.Fprintf(w, "  FAIL: playback error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  PASS: played in %s\n", time.Since(start).Round(time.Millisecond))
	return true
}
