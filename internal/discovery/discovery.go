// Package discovery expands command-line inputs into the SQL files to
// lint or format.
package discovery

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

// DiscoveredFile is one file to process.
type DiscoveredFile struct {
	// Path is the input as given for explicit files, or the match joined
	// onto the directory input, so relative inputs stay relative.
	Path string

	// ConfigRoot is the directory config discovery starts from.
	ConfigRoot string
}

// Options configures file discovery behavior.
type Options struct {
	// Patterns select files under a directory input, relative to it.
	// Empty means DefaultPatterns.
	Patterns []string

	// ExcludePatterns drop files matching by absolute path, by any
	// trailing run of path components, or relative to a directory input.
	ExcludePatterns []string
}

// DefaultPatterns returns the default include patterns.
func DefaultPatterns() []string {
	return []string{"**/*.sql"}
}

// Discover expands inputs in order. An input is "-" for stdin, a glob, a
// directory searched with the include patterns, or a file taken whatever
// its extension. A file that cannot be read is still returned so the
// caller reports it. Each file appears once; matches of one directory or
// glob are sorted.
func Discover(inputs []string, opts Options) ([]DiscoveredFile, error) {
	f := &finder{
		patterns: opts.Patterns,
		excludes: make([]string, len(opts.ExcludePatterns)),
		seen:     make(map[string]bool),
	}
	if len(f.patterns) == 0 {
		f.patterns = DefaultPatterns()
	}
	for i, p := range opts.ExcludePatterns {
		f.excludes[i] = filepath.ToSlash(p)
	}

	var out []DiscoveredFile
	for _, input := range inputs {
		found, err := f.expand(input)
		if err != nil {
			return nil, err
		}
		slices.SortFunc(found, func(a, b DiscoveredFile) int { return cmp.Compare(a.Path, b.Path) })
		out = append(out, found...)
	}
	return out, nil
}

type finder struct {
	patterns []string
	excludes []string
	seen     map[string]bool
}

func (f *finder) expand(input string) ([]DiscoveredFile, error) {
	if input == StdinPath {
		if f.seen[StdinPath] {
			return nil, nil
		}
		f.seen[StdinPath] = true
		return []DiscoveredFile{{Path: StdinPath, ConfigRoot: "."}}, nil
	}

	// Checked before os.Stat, which rejects glob characters on Windows.
	if strings.ContainsAny(input, "*?[]{}") {
		return f.glob(input, "")
	}

	if info, err := os.Stat(input); err == nil && info.IsDir() {
		var found []DiscoveredFile
		for _, p := range f.patterns {
			matches, err := f.glob(filepath.Join(input, filepath.FromSlash(p)), input)
			if err != nil {
				return nil, err
			}
			found = append(found, matches...)
		}
		return found, nil
	}

	file, ok, err := f.add(input, "")
	if !ok || err != nil {
		return nil, err
	}
	return []DiscoveredFile{file}, nil
}

func (f *finder) glob(pattern, root string) ([]DiscoveredFile, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	var found []DiscoveredFile
	for _, m := range matches {
		file, ok, err := f.add(m, root)
		if err != nil {
			return nil, err
		}
		if ok {
			found = append(found, file)
		}
	}
	return found, nil
}

// add records path unless it is excluded or already seen.
func (f *finder) add(path, root string) (DiscoveredFile, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return DiscoveredFile{}, false, err
	}
	if f.seen[abs] || f.excluded(abs, path, root) {
		return DiscoveredFile{}, false, nil
	}
	f.seen[abs] = true
	return DiscoveredFile{Path: path, ConfigRoot: filepath.Dir(abs)}, true, nil
}

// excluded matches the exclude patterns against the absolute path, each
// of its component suffixes ("vendor/a.sql", "a.sql") and, under a
// directory input, the path relative to it.
func (f *finder) excluded(abs, path, root string) bool {
	if len(f.excludes) == 0 {
		return false
	}
	slashed := filepath.ToSlash(strings.TrimPrefix(abs, filepath.VolumeName(abs)))
	candidates := []string{filepath.ToSlash(abs)}
	parts := strings.Split(strings.TrimPrefix(slashed, "/"), "/")
	for i := range parts {
		candidates = append(candidates, strings.Join(parts[i:], "/"))
	}
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil {
			candidates = append(candidates, filepath.ToSlash(rel))
		}
	}

	for _, pattern := range f.excludes {
		for _, c := range candidates {
			if ok, err := doublestar.Match(pattern, c); err == nil && ok {
				return true
			}
		}
	}
	return false
}
