// Package cache persists lint and format results between runs.
//
// Each namespace ("lint", "format") lives in one msgpack file under the
// cache directory. An entry is valid only while the file's size, mtime and
// content hash are unchanged and the tool version and configuration
// fingerprint match the ones the entry was written with.
package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// Namespaces.
const (
	NamespaceLint   = "lint"
	NamespaceFormat = "format"
)

// FormatVersion is bumped whenever the on-disk layout changes.
const FormatVersion = 1

// ErrCorrupt is reported when a cache file cannot be decoded. The cache is
// then treated as empty.
var ErrCorrupt = errors.New("cache file is corrupt")

// Stat is the part of a file's metadata an entry is keyed on.
type Stat struct {
	Size    int64
	MtimeNs int64
}

// StatOf extracts a Stat from file info.
func StatOf(info fs.FileInfo) Stat {
	return Stat{Size: info.Size(), MtimeNs: info.ModTime().UnixNano()}
}

// Entry is the cached result for one file.
type Entry struct {
	MtimeNs     int64             `msgpack:"mtime_ns"`
	Size        int64             `msgpack:"size"`
	ContentHash uint64            `msgpack:"content_hash"`
	Fingerprint uint64            `msgpack:"fingerprint"`
	Violations  []rules.Violation `msgpack:"violations,omitempty"`
	// Output is the formatted text (format namespace only).
	Output string `msgpack:"output,omitempty"`
}

type fileData struct {
	FormatVersion     int              `msgpack:"format_version"`
	ToolVersion       string           `msgpack:"tool_version"`
	ConfigFingerprint string           `msgpack:"config_fingerprint"`
	Entries           map[string]Entry `msgpack:"entries"`
}

// Cache is a namespace of cached results. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	path     string
	lock     *flock.Flock
	data     fileData
	dirty    bool
	log      *logrus.Entry
	warnOnce sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for corruption warnings.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Cache) { c.log = log }
}

// Open loads the namespace's cache file from dir. Entries written by a
// different format version, tool version or configuration are discarded.
// A missing or corrupt file yields an empty cache.
func Open(dir, namespace, toolVersion, configFingerprint string, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	path := filepath.Join(dir, namespace+".cache")
	c := &Cache{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("cache", path)

	fresh := fileData{
		FormatVersion:     FormatVersion,
		ToolVersion:       toolVersion,
		ConfigFingerprint: configFingerprint,
		Entries:           make(map[string]Entry),
	}

	stored, err := c.read()
	switch {
	case errors.Is(err, ErrCorrupt):
		c.warnCorrupt(err)
		c.data = fresh
	case err != nil:
		return nil, err
	case stored == nil,
		stored.FormatVersion != FormatVersion,
		stored.ToolVersion != toolVersion,
		stored.ConfigFingerprint != configFingerprint:
		c.data = fresh
	default:
		if stored.Entries == nil {
			stored.Entries = make(map[string]Entry)
		}
		c.data = *stored
	}
	return c, nil
}

func (c *Cache) warnCorrupt(err error) {
	c.warnOnce.Do(func() {
		c.log.WithError(err).Warn("ignoring corrupt cache")
	})
}

// read decodes the cache file under a shared lock. A missing file returns
// (nil, nil).
func (c *Cache) read() (*fileData, error) {
	if err := c.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock cache: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	raw, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var data fileData
	if err := msgpack.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return &data, nil
}

// ContentHash hashes file content.
func ContentHash(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// fingerprint binds an entry to the tool version, the configuration and the
// file's identity.
func (c *Cache) fingerprint(stat Stat, contentHash uint64) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(c.data.ToolVersion)
	_, _ = h.WriteString(c.data.ConfigFingerprint)
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(stat.Size))
	binary.LittleEndian.PutUint64(buf[8:], uint64(stat.MtimeNs))
	binary.LittleEndian.PutUint64(buf[16:], contentHash)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// Lookup returns the entry for path when it is still valid for content.
func (c *Cache) Lookup(path string, content []byte, stat Stat) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data.Entries[path]
	if !ok || e.Size != stat.Size || e.MtimeNs != stat.MtimeNs {
		return Entry{}, false
	}
	hash := ContentHash(content)
	if e.ContentHash != hash || e.Fingerprint != c.fingerprint(stat, hash) {
		return Entry{}, false
	}
	return e, true
}

// Store records the result for path.
func (c *Cache) Store(path string, content []byte, stat Stat, violations []rules.Violation, output string) {
	hash := ContentHash(content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Entries[path] = Entry{
		MtimeNs:     stat.MtimeNs,
		Size:        stat.Size,
		ContentHash: hash,
		Fingerprint: c.fingerprint(stat, hash),
		Violations:  violations,
		Output:      output,
	}
	c.dirty = true
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data.Entries[path]; ok {
		delete(c.data.Entries, path)
		c.dirty = true
	}
}

// FilterSources returns the paths whose size or mtime differ from their
// entry, or that have none. It only stats files; Lookup still verifies the
// content of the paths it keeps.
func (c *Cache) FilterSources(paths []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		e, ok := c.data.Entries[p]
		if !ok {
			out = append(out, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			out = append(out, p)
			continue
		}
		if s := StatOf(info); s.Size != e.Size || s.MtimeNs != e.MtimeNs {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data.Entries)
}

// Flush writes the cache to disk when it changed, under an exclusive lock,
// through a temporary file renamed over the old one.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	raw, err := msgpack.Marshal(&c.data)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	f, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write cache: %w", err)
	}
	c.dirty = false
	return nil
}

// Path returns the cache file path.
func (c *Cache) Path() string {
	return c.path
}
