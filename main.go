package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"teymer/audio"
	"teymer/config"
	"teymer/doctor"
	"teymer/log"
	"teymer/scheduler"
)

var version = "dev"

var errDoctorFailed = errors.New("doctor checks failed")

type app struct {
	cfg      config.Config
	logPath  string
	logLevel string
	doctor   bool

	open audio.Opener
	run  func(ctx context.Context, s *scheduler.Scheduler) error
}

func newApp() *app {
	return &app{
		open: audio.Open,
		run: func(ctx context.Context, s *scheduler.Scheduler) error {
			return s.Run(ctx)
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teymer",
		Short: "Beep at the end of every work and rest period",
		Long: `teymer sleeps for the work period, plays a short tone, sleeps for the rest
period, plays a second tone, and repeats until it is killed. Run it in the
background, e.g. from cron or a systemd user unit.`,
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceErrors: true,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return a.cfg.Validate()
		},
		RunE: a.runE,
	}
	cmd.SetVersionTemplate("teymer {{.Version}}\n")

	f := cmd.Flags()
	f.SortFlags = false
	f.Float64Var(&a.cfg.StartFreq, "start-freq", config.DefaultStartFreq, "Frequency of the first beep in Hz")
	f.Float64Var(&a.cfg.EndFreq, "end-freq", config.DefaultEndFreq, "Frequency of the second beep in Hz")
	f.Uint64Var(&a.cfg.WorkPeriod, "work-period", config.DefaultWorkPeriod, "Duration of the work period (before the first beep) in seconds")
	f.Uint64Var(&a.cfg.RestPeriod, "rest-period", config.DefaultRestPeriod, "Duration of the rest period (before the second beep) in seconds")
	f.Float64Var(&a.cfg.StartAmplification, "start-amplification", config.DefaultStartAmplification, "Amplification of the first beep (0-1)")
	f.Float64Var(&a.cfg.EndAmplification, "end-amplification", config.DefaultEndAmplification, "Amplification of the second beep (0-1)")
	f.StringVar(&a.logPath, "logpath", "", "Diagnostics log directory (default: TEYMER_LOG_PATH, else console only)")
	f.StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.BoolVar(&a.doctor, "doctor", false, "Play both beeps once to check audio output, then exit")
	return cmd
}

func (a *app) runE(cmd *cobra.Command, _ []string) error {
	// Flags parsed and validated; later failures are not usage errors.
	cmd.SilenceUsage = true

	if err := a.setupLogging(cmd.ErrOrStderr()); err != nil {
		return err
	}
	defer log.Close()

	if a.doctor {
		if doctor.Run(cmd.OutOrStdout(), a.open, a.cfg) != 0 {
			return errDoctorFailed
		}
		return nil
	}

	sink, err := a.open()
	if err != nil {
		log.Errorf("audio output init error: %v", err)
		return fmt.Errorf("initializing audio output: %w", err)
	}
	defer sink.Close()

	if audio.IsBluetooth(sink.Name()) {
		log.Warn("bluetooth output may cut off the start of short beeps")
	}
	log.SessionStart(version, sink.Name(), a.cfg)

	return a.run(context.Background(), scheduler.New(a.cfg, sink))
}

func (a *app) setupLogging(stderr io.Writer) error {
	level, err := log.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	log.InitConsole(stderr, level)

	dir, err := log.ResolveDir(a.logPath)
	if err != nil {
		return fmt.Errorf("failed to resolve log directory: %w", err)
	}
	if dir == "" {
		return nil
	}
	log.SetDir(dir)
	if err := log.Init(level); err != nil {
		log.Warnf("could not init file logging: %v", err)
		return nil
	}

	crashPath := filepath.Join(log.Dir(), log.CrashFileName)
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		if err := debug.SetCrashOutput(crashFile, debug.CrashOptions{}); err != nil {
			log.Warnf("could not set crash output: %v", err)
		}
		crashFile.Close()
	}
	return nil
}

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		if !errors.Is(err, errDoctorFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
