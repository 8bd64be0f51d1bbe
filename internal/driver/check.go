package driver

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"chamber/internal/analyzer"
	"chamber/internal/ast"
	"chamber/internal/diag"
	"chamber/internal/observ"
	"chamber/internal/parser"
	"chamber/internal/source"
	"chamber/internal/trace"
)

// CheckOptions configures CheckSource and CheckPaths.
type CheckOptions struct {
	// MaxDiagnostics caps diagnostics per file; 0 means unlimited.
	MaxDiagnostics int
	// Analyze runs the analyzer rules after parsing.
	Analyze  bool
	Analyzer analyzer.Config
	// Jobs limits parallel workers; 0 means GOMAXPROCS.
	Jobs int
	// Cache, when set, stores and reuses diagnostics per file content.
	Cache *DiskCache
	// ToolVersion is part of the cache key.
	ToolVersion string
	Progress    ProgressSink
	// Timings records per-stage durations in FileResult.Timing.
	Timings bool
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path string
	// File is nil when loading failed; Diagnostics then holds one I001.
	File        *source.File
	Tune        *ast.Tune // nil for cached and failed results
	Diagnostics []diag.Diagnostic
	Cached      bool
	Timing      *observ.Report
}

// HasErrors reports whether any result carries an error diagnostic.
func HasErrors(results []FileResult) bool {
	for _, r := range results {
		for _, d := range r.Diagnostics {
			if d.IsError() {
				return true
			}
		}
	}
	return false
}

// CheckSource parses and analyzes one loaded file. The returned diagnostics
// are sorted by range.
func CheckSource(ctx context.Context, file *source.File, opts CheckOptions) FileResult {
	timer := observ.NewTimer()
	result := FileResult{Path: file.Path, File: file}

	emit(opts.Progress, ProgressEvent{File: file.Path, Stage: StageParse, Status: StatusWorking})
	idx := timer.Begin("parse")
	parsed := parser.ParseSource(ctx, file.Path, file.Content, parser.Options{MaxDiagnostics: opts.MaxDiagnostics})
	timer.End(idx, strconv.Itoa(parsed.Bag.Len())+" diagnostics")
	result.Tune = parsed.Tune

	if opts.Analyze {
		emit(opts.Progress, ProgressEvent{File: file.Path, Stage: StageAnalyze, Status: StatusWorking})
		_, span := trace.StartFileSpan(ctx, "analyze", file.Path)
		idx = timer.Begin("analyze")
		for _, d := range analyzer.Analyze(parsed.Tune, opts.Analyzer) {
			parsed.Bag.Add(d)
		}
		timer.End(idx, "")
		span.End("")
	}

	parsed.Bag.Sort()
	result.Diagnostics = parsed.Bag.Items()
	if opts.Timings {
		report := timer.Report()
		report.Path = file.Path
		result.Timing = &report
	}
	return result
}

// CheckPaths loads every file under paths and checks them in parallel.
// Files that cannot be read become I001 diagnostics; the returned error is
// reserved for cancellation and directory walk failures. Results follow the
// sorted file order.
func CheckPaths(ctx context.Context, paths []string, opts CheckOptions) (*source.FileSet, []FileResult, error) {
	ctx, batch := trace.StartSpan(ctx, trace.ScopePass, "check")
	defer batch.End("")

	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, nil, err
	}
	batch.WithExtra("files", strconv.Itoa(len(files)))

	// FileSet не потокобезопасен: загружаем всё до запуска воркеров
	fileSet := source.NewFileSet()
	loaded := make([]*source.File, len(files))
	results := make([]FileResult, len(files))
	for i, path := range files {
		emit(opts.Progress, ProgressEvent{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			results[i] = loadFailure(path, err)
			emit(opts.Progress, ProgressEvent{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		loaded[i] = fileSet.Get(id)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))

	for i, file := range loaded {
		if file == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkCached(gctx, file, opts)
			status := StatusDone
			if results[i].Cached {
				status = StatusCached
			}
			emit(opts.Progress, ProgressEvent{File: file.Path, Stage: StageAnalyze, Status: status})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func loadFailure(path string, err error) FileResult {
	d := diag.NewError(diag.IOLoadFileError, source.Range{}, "failed to load file: "+err.Error())
	return FileResult{Path: path, Diagnostics: []diag.Diagnostic{d}}
}

// checkCached consults the disk cache before checking. Cache failures only
// cost a recheck.
func checkCached(ctx context.Context, file *source.File, opts CheckOptions) FileResult {
	if opts.Cache == nil {
		return CheckSource(ctx, file, opts)
	}
	tracer := trace.FromContext(ctx)
	key := CacheKey(file.Hash, opts)

	var payload DiskPayload
	hit, err := opts.Cache.Get(key, &payload)
	if err != nil {
		trace.Point(tracer, trace.ScopeFile, "cache_error", file.Path, trace.Attr{Key: "error", Value: err.Error()})
	}
	if hit {
		if diags, ok := fromDiskPayload(&payload); ok {
			trace.Point(tracer, trace.ScopeFile, "cache_hit", file.Path)
			return FileResult{Path: file.Path, File: file, Diagnostics: diags, Cached: true}
		}
	}

	result := CheckSource(ctx, file, opts)
	if err := opts.Cache.Put(key, toDiskPayload(file.Path, result.Diagnostics)); err != nil {
		trace.Point(tracer, trace.ScopeFile, "cache_error", file.Path, trace.Attr{Key: "error", Value: err.Error()})
	}
	return result
}
