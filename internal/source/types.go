package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileHadCRLF // CRLF сохраняется как есть, флаг только для информации
)

// File captures metadata and content for a single tune file.
type File struct {
	ID      FileID
	Path    string
	Content string
	Lines   *LineIndex
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a position in a source file.
// Values produced by LineIndex.LineCol are 0-based; Display converts them.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Display returns the 1-based form used in user-facing output.
func (lc LineCol) Display() LineCol {
	return LineCol{Line: lc.Line + 1, Col: lc.Col + 1}
}
