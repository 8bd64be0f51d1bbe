package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"chamber/internal/diag"
	"chamber/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит диагностики файлов на диске по ключу CacheKey.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of checking one file. Codes are stored
// by ID so renumbering the code table does not corrupt old entries.
type DiskPayload struct {
	Schema      uint16
	Path        string
	Diagnostics []CachedDiagnostic
}

type CachedDiagnostic struct {
	Code     string
	Severity uint8
	Start    uint32
	End      uint32
	Message  string
	Labels   []CachedLabel
	Notes    []string
	Fixes    []CachedFix
}

type CachedLabel struct {
	Start, End uint32
	Message    string
}

type CachedFix struct {
	Title         string
	Applicability uint8
	Edits         []CachedEdit
}

type CachedEdit struct {
	Start, End uint32
	NewText    string
	OldText    string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it when missing.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("driver: create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не держать всё в одном
	return filepath.Join(c.dir, "diags", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) && err == nil {
			err = removeErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload. A missing entry or one written
// under another schema is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- path is derived from the cache key
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("driver: decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func toDiskPayload(path string, diags []diag.Diagnostic) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		Diagnostics: make([]CachedDiagnostic, 0, len(diags)),
	}
	for _, d := range diags {
		cd := CachedDiagnostic{
			Code:     d.Code.ID(),
			Severity: uint8(d.Severity),
			Start:    uint32(d.Range.Start),
			End:      uint32(d.Range.End),
			Message:  d.Message,
			Notes:    d.Notes,
		}
		for _, l := range d.Labels {
			cd.Labels = append(cd.Labels, CachedLabel{Start: uint32(l.Range.Start), End: uint32(l.Range.End), Message: l.Message})
		}
		for _, fix := range d.Fixes {
			cf := CachedFix{Title: fix.Title, Applicability: uint8(fix.Applicability)}
			for _, e := range fix.Edits {
				cf.Edits = append(cf.Edits, CachedEdit{
					Start: uint32(e.Range.Start), End: uint32(e.Range.End),
					NewText: e.NewText, OldText: e.OldText,
				})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return payload
}

func cachedRange(start, end uint32) source.Range {
	if end < start {
		end = start
	}
	return source.NewRange(source.Pos(start), source.Pos(end))
}

// fromDiskPayload restores diagnostics; unknown code IDs make the whole
// entry unusable.
func fromDiskPayload(payload *DiskPayload) ([]diag.Diagnostic, bool) {
	out := make([]diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, cd := range payload.Diagnostics {
		code, ok := diag.ParseCode(cd.Code)
		if !ok {
			return nil, false
		}
		d := diag.Diagnostic{
			Code:     code,
			Severity: diag.Severity(cd.Severity),
			Range:    cachedRange(cd.Start, cd.End),
			Message:  cd.Message,
			Notes:    cd.Notes,
		}
		for _, l := range cd.Labels {
			d.Labels = append(d.Labels, diag.Label{Range: cachedRange(l.Start, l.End), Message: l.Message})
		}
		for _, cf := range cd.Fixes {
			fix := diag.Fix{Title: cf.Title, Applicability: diag.Applicability(cf.Applicability)}
			for _, e := range cf.Edits {
				fix.Edits = append(fix.Edits, diag.TextEdit{Range: cachedRange(e.Start, e.End), NewText: e.NewText, OldText: e.OldText})
			}
			d.Fixes = append(d.Fixes, fix)
		}
		out = append(out, d)
	}
	return out, true
}
