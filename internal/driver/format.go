package driver

import (
	"context"
	"errors"
	"fmt"

	"chamber/internal/fix"
	"chamber/internal/format"
	"chamber/internal/source"
	"chamber/internal/trace"
)

// FormatOptions configures FormatPaths.
type FormatOptions struct {
	Config format.Config
	// Check reports files that would change without writing them.
	Check bool
	// Stdout returns formatted text in the results instead of writing files.
	Stdout   bool
	Progress ProgressSink
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted string
}

// ErrNoFiles is returned when the given paths contain no tune files.
var ErrNoFiles = errors.New("driver: no .abc files found")

// FormatPaths formats provided files or directories (recursively collecting .abc files).
// When opts.Check is true, files are not modified; Changed indicates whether formatting
// would update the file contents. Per-file failures are reported in FormatResult.Err.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "format")
	defer span.End("")
	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	results := make([]FormatResult, 0, len(files))
	fileSet := source.NewFileSet()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		emit(opts.Progress, ProgressEvent{File: path, Stage: StageFormat, Status: StatusWorking})
		result := formatOne(fileSet, path, opts)
		if result.Changed {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "reformat", path)
		}
		status := StatusDone
		if result.Err != nil {
			status = StatusError
		}
		emit(opts.Progress, ProgressEvent{File: path, Stage: StageFormat, Status: status, Err: result.Err})
		results = append(results, result)
	}
	return results, nil
}

func formatOne(fileSet *source.FileSet, path string, opts FormatOptions) FormatResult {
	result := FormatResult{Path: path}
	id, err := fileSet.Load(path)
	if err != nil {
		result.Err = fmt.Errorf("load %s: %w", path, err)
		return result
	}
	file := fileSet.Get(id)
	out := format.Format(file.Content, opts.Config)
	result.Changed = out != file.Content
	if opts.Check {
		return result
	}
	if opts.Stdout {
		result.Formatted = out
		return result
	}
	if result.Changed {
		result.Err = fix.WriteFile(path, restoreBOM(file, out))
	}
	return result
}

func restoreBOM(file *source.File, content string) string {
	if file.Flags&source.FileHadBOM != 0 {
		return "\ufeff" + content
	}
	return content
}
