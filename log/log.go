package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"teymer/config"
	"teymer/tone"
)

const (
	DiagFileName  = "diagnostics_log.txt"
	CrashFileName = "crash_log.txt"

	consoleTimeFormat = "15:04:05"
	fileTimeFormat    = "2006-01-02 15:04:05"
)

var (
	diagLog  = zerolog.Nop()
	diagFile *os.File
	console  io.Writer = os.Stderr
	logMu    sync.Mutex
	pid      int
	dir      string
)

// ResolveDir picks the diagnostics directory: the -logpath flag first, then
// TEYMER_LOG_PATH. An empty result means no log files are written.
func ResolveDir(flagPath string) (string, error) {
	p := flagPath
	if p == "" {
		p = os.Getenv("TEYMER_LOG_PATH")
	}
	if p == "" {
		return "", nil
	}
	if !filepath.IsAbs(p) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, p), nil
	}
	return p, nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if dir == "" {
		return fmt.Errorf("log directory not set")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}
	return zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: noColor}
}

// InitConsole sends diagnostics to w only.
func InitConsole(w io.Writer, level zerolog.Level) {
	logMu.Lock()
	defer logMu.Unlock()
	console = w
	diagLog = zerolog.New(consoleWriter(w)).Level(level).With().Timestamp().Logger()
}

// Init tees diagnostics to the console writer (stderr unless InitConsole set
// another) and to DiagFileName inside Dir().
func Init(level zerolog.Level) error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	f, err := os.OpenFile(filepath.Join(dir, DiagFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if diagFile != nil {
		diagFile.Close()
	}
	diagFile = f

	fileWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: fileTimeFormat,
		NoColor:    true,
	}
	out := zerolog.MultiLevelWriter(consoleWriter(console), fileWriter)
	diagLog = zerolog.New(out).Level(level).With().Timestamp().Int("pid", pid).Logger()
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	diagLog = zerolog.Nop()
}

func logger() zerolog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return diagLog
}

func Info(msg string) {
	l := logger()
	l.Info().Msg(msg)
}

func Debugf(format string, args ...any) {
	l := logger()
	l.Debug().Msg(fmt.Sprintf(format, args...))
}

func Warn(msg string) {
	l := logger()
	l.Warn().Msg(msg)
}

func Warnf(format string, args ...any) {
	l := logger()
	l.Warn().Msg(fmt.Sprintf(format, args...))
}

func Error(msg string) {
	l := logger()
	l.Error().Msg(msg)
}

func Errorf(format string, args ...any) {
	l := logger()
	l.Error().Msg(fmt.Sprintf(format, args...))
}

func SessionStart(version, sink string, cfg config.Config) {
	l := logger()
	l.Info().
		Str("version", version).
		Str("sink", sink).
		Float64("start_freq", cfg.StartFreq).
		Float64("end_freq", cfg.EndFreq).
		Uint64("work_s", cfg.WorkPeriod).
		Uint64("rest_s", cfg.RestPeriod).
		Float64("start_amp", cfg.StartAmplification).
		Float64("end_amp", cfg.EndAmplification).
		Msg("session_start")
}

func Cycle(n uint64) {
	l := logger()
	l.Debug().Uint64("cycle", n).Msg("cycle_start")
}

func Tone(label string, cycle uint64, t tone.Tone) {
	l := logger()
	l.Debug().
		Str("tone", label).
		Uint64("cycle", cycle).
		Float64("freq", t.Frequency).
		Float64("amp", t.Amplitude).
		Dur("dur", t.Duration).
		Msg("tone_played")
}
