package driver

import (
	"chamber/internal/lexer"
	"chamber/internal/source"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []lexer.Token
}

// Tokenize loads path and lexes it completely, trivia included.
func Tokenize(path string) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lexer.Tokenize(file.Content),
	}, nil
}
