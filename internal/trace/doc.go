// Package trace is the developer log of chamber.
//
// User-facing findings travel as diagnostics; trace records what the tool
// itself did (which files were checked, how long each pass took, cache hits)
// so slow or stuck batch runs can be diagnosed.
//
// # Usage
//
//	chamber check --trace=- --trace-level=detail tunes/
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: last N events in memory, dumped on failure
//   - MultiTracer: fan-out to several tracers
//
// Every tracer created by New opens with a "session" point event carrying a
// random session id. Per-file events name their tune file in Event.File.
//
// # Levels and scopes
//
//   - LevelPhase: ScopeDriver (CLI commands) and ScopePass (batch, render)
//   - LevelDetail: adds ScopeFile (parse, lower, analyze per file)
//   - LevelDebug: adds ScopeNode
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "check")
//	defer span.End("")
//	_, parse := trace.StartFileSpan(ctx, "parse", "tunes/reel.abc")
//	parse.End("")
package trace
