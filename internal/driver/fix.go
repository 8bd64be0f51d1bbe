package driver

import (
	"context"
	"errors"
	"strconv"

	"chamber/internal/fix"
	"chamber/internal/source"
	"chamber/internal/trace"
)

// FixOptions configures FixFile.
type FixOptions struct {
	Mode fix.ApplyMode
	// Write replaces the file on disk when something changed.
	Write bool
	Check CheckOptions
}

// FixOutcome is the result of fixing one file.
type FixOutcome struct {
	File   *source.File
	Result *fix.Result
	// Remaining are the diagnostics of the rewritten text.
	Remaining FileResult
}

// FixFile checks path, applies the attached fixes and checks the result
// again. fix.ErrNoFixes is returned unchanged when nothing applied.
func FixFile(ctx context.Context, path string, opts FixOptions) (*FixOutcome, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "fix")
	defer span.End("")
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(id)
	checked := CheckSource(ctx, file, opts.Check)

	res, err := fix.Apply(file.Content, checked.Diagnostics, fix.Options{Mode: opts.Mode})
	outcome := &FixOutcome{File: file, Result: res, Remaining: checked}
	if err != nil {
		if errors.Is(err, fix.ErrNoFixes) {
			return outcome, err
		}
		return nil, err
	}

	span.WithExtra("applied", strconv.Itoa(len(res.Applied)))
	fixed := fs.Get(fs.AddVirtual(path, res.Output))
	outcome.Remaining = CheckSource(ctx, fixed, opts.Check)
	if opts.Write && res.Changed() {
		if err := fix.WriteFile(path, restoreBOM(file, res.Output)); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}
