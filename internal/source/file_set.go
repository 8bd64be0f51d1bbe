package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// FileSet owns every tune file loaded during one CLI invocation. Adding the
// same path twice keeps both versions: fix re-checks its output as a
// virtual copy next to the original. A FileSet is not goroutine-safe.
type FileSet struct {
	files []*File
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{}
}

// Len returns the number of stored files.
func (fs *FileSet) Len() int { return len(fs.files) }

// Add stores content under path with its line index and hash.
func (fs *FileSet) Add(path, content string, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	if strings.Contains(content, "\r\n") {
		flags |= FileHadCRLF
	}
	f := &File{
		ID:      FileID(n),
		Path:    normalizePath(path),
		Content: content,
		Lines:   NewLineIndex(content),
		Hash:    sha256.Sum256([]byte(content)),
		Flags:   flags,
	}
	fs.files = append(fs.files, f)
	return f.ID
}

// Load reads path, strips a UTF-8 BOM and adds the rest. Line endings stay
// as they are; the lossless tree prints them back.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, hadBOM := removeBOM(string(raw))
	var flags FileFlags
	if hadBOM {
		flags = FileHadBOM
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content (stdin, fixer output, tests).
func (fs *FileSet) AddVirtual(name, content string) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id. The pointer stays valid after later Adds.
func (fs *FileSet) Get(id FileID) *File {
	return fs.files[id]
}

// LineText returns 0-based line without its terminator, or "" past the end.
func (f *File) LineText(line int) string {
	if line < 0 || line >= f.Lines.LineCount() {
		return ""
	}
	return f.Lines.LineRange(line, f.Content).Slice(f.Content)
}

// FormatPath renders f.Path for output. mode is one of absolute, relative,
// basename or auto; anything else leaves the path alone. Relative paths
// are taken against baseDir, or the working directory when it is empty.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return f.Path
		}
		return filepath.ToSlash(abs)
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		rel, err := RelativePath(f.Path, baseDir)
		if err != nil {
			return f.Path
		}
		return rel
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
