package driver

import (
	"context"

	"chamber/internal/parser"
	"chamber/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	parser.Result
}

// Parse loads path and builds both trees. Diagnostics stay in Result.Bag in
// discovery order.
func Parse(ctx context.Context, path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	res := parser.ParseSource(ctx, file.Path, file.Content, parser.Options{MaxDiagnostics: maxDiagnostics})
	return &ParseResult{FileSet: fs, File: file, Result: res}, nil
}
