package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chamber/internal/trace"
)

// traceCleanup flushes the tracer installed by the current run. It is reset
// after the first call so error paths do not flush twice.
var traceCleanup func()

func runTraceCleanup() {
	if traceCleanup != nil {
		cleanup := traceCleanup
		traceCleanup = nil
		cleanup()
	}
}

// traceConfig turns the --trace* flags into a tracer config. A --trace
// destination without an explicit level means phase; streaming modes
// without a destination write to stderr.
func traceConfig(cmd *cobra.Command) (trace.Config, error) {
	flags := cmd.Root().PersistentFlags()
	output, err1 := flags.GetString("trace")
	levelName, err2 := flags.GetString("trace-level")
	modeName, err3 := flags.GetString("trace-mode")
	formatName, err4 := flags.GetString("trace-format")
	ringSize, err5 := flags.GetInt("trace-ring-size")
	heartbeat, err6 := flags.GetDuration("trace-heartbeat")
	if err := errors.Join(err1, err2, err3, err4, err5, err6); err != nil {
		return trace.Config{}, fmt.Errorf("failed to read trace flags: %w", err)
	}

	cfg := trace.Config{OutputPath: output, RingSize: ringSize, Heartbeat: heartbeat}
	var err error
	if cfg.Level, err = trace.ParseLevel(levelName); err != nil {
		return cfg, err
	}
	if cfg.Level == trace.LevelOff && output != "" {
		cfg.Level = trace.LevelPhase
	}
	if cfg.Mode, err = trace.ParseMode(modeName); err != nil {
		return cfg, err
	}
	if cfg.Format, err = trace.ParseFormat(formatName); err != nil {
		return cfg, err
	}
	if cfg.OutputPath == "" && cfg.Mode != trace.ModeRing {
		cfg.OutputPath = "-"
	}
	return cfg, nil
}

// setupTracing installs the configured tracer into cmd's context and opens
// a driver span named after the command. The returned cleanup closes both.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := traceConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx, command := trace.StartSpan(trace.WithTracer(cmd.Context(), tracer), trace.ScopeDriver, cmd.CommandPath())
	cmd.SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, cfg.Heartbeat)

	cleanup := func() {
		heartbeat.Stop()
		command.End("")
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// dumpTraceOnPanic writes the ring buffer to stderr when the command panics
// and re-panics afterwards.
func dumpTraceOnPanic(cmd *cobra.Command) {
	r := recover()
	if r == nil {
		return
	}
	if ring := trace.Ring(trace.FromContext(cmd.Context())); ring != nil {
		fmt.Fprintln(os.Stderr, "== trace before panic ==")
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}
