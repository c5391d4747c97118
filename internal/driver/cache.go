package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"vuec/internal/diag"
	"vuec/internal/source"
)

// Current schema version - increment when CachedOutput format changes
const cacheSchemaVersion uint16 = 1

// Digest keys one cached compile.
type Digest [32]byte

// CacheKey hashes the template bytes together with the options fingerprint.
func CacheKey(f *source.File, fingerprint []byte) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], cacheSchemaVersion)
	_, _ = h.Write(schema[:])
	_, _ = h.Write(f.Hash[:])
	_, _ = h.Write(fingerprint)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// DiskCache хранит результаты компиляции шаблонов по Digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachedNote struct {
	Start, End uint32
	Msg        string
}

type cachedDiagnostic struct {
	Severity   diag.Severity
	Code       diag.Code
	Message    string
	Start, End uint32
	Notes      []cachedNote
}

// CachedOutput is the msgpack payload of one compile. Spans are stored
// without file ids and rebound on load.
type CachedOutput struct {
	Schema      uint16
	Code        string
	Diagnostics []cachedDiagnostic
}

func newCachedOutput(code string, bag *diag.Bag) *CachedOutput {
	out := &CachedOutput{Schema: cacheSchemaVersion, Code: code}
	for _, d := range bag.Items() {
		cd := cachedDiagnostic{Severity: d.Severity, Code: d.Code, Message: d.Message, Start: d.Primary.Start, End: d.Primary.End}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		out.Diagnostics = append(out.Diagnostics, cd)
	}
	return out
}

// restore fills bag with the cached diagnostics bound to file.
func (o *CachedOutput) restore(file source.FileID, bag *diag.Bag) {
	for _, cd := range o.Diagnostics {
		d := diag.Diagnostic{
			Severity: cd.Severity,
			Code:     cd.Code,
			Message:  cd.Message,
			Primary:  source.Span{File: file, Start: cd.Start, End: cd.End},
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: source.Span{File: file, Start: n.Start, End: n.End}, Msg: n.Msg})
		}
		bag.Add(d)
	}
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
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не копить всё в одной папке
	return filepath.Join(c.dir, "templates", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CachedOutput) (err error) {
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
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. Entries of another schema count as misses.
func (c *DiskCache) Get(key Digest) (*CachedOutput, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var out CachedOutput
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, false, err
	}
	if out.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
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
