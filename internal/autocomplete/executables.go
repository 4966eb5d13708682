// internal/autocomplete/executables.go
package autocomplete

import (
	"iter"
	"os"
	"slices"
	"strings"
	"sync"
)

// DefaultExecutableDirs are scanned for executable names.
var DefaultExecutableDirs = []string{"/usr/bin", "/usr/local/bin", "~/.local/bin"}

// ExecutableCache lists executable names found in a fixed set of directories.
// The scan runs once, on first use, and is never refreshed.
type ExecutableCache struct {
	dirs    []string
	homeDir func() (string, error)

	once  sync.Once
	names []string
}

// NewExecutableCache creates a cache over dirs. A leading ~/ is expanded.
func NewExecutableCache(dirs ...string) *ExecutableCache {
	return &ExecutableCache{dirs: dirs, homeDir: os.UserHomeDir}
}

// Names returns the sorted executable names. Safe for concurrent use.
func (c *ExecutableCache) Names() []string {
	c.once.Do(c.scan)
	return c.names
}

func (c *ExecutableCache) scan() {
	seen := make(map[string]struct{})
	for _, dir := range c.dirs {
		entries, err := os.ReadDir(expandHome(dir, c.homeDir))
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if len(name) < 2 || len(name) > 12 || strings.Contains(name, ".") || e.IsDir() {
				continue
			}
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	c.names = names
}

// ExecutableProvider completes program names after a shell-escape command.
type ExecutableProvider struct {
	cache    *ExecutableCache
	triggers []string
}

// NewExecutableProvider creates a provider active on lines that start with
// one of triggers.
func NewExecutableProvider(cache *ExecutableCache, triggers []string) *ExecutableProvider {
	return &ExecutableProvider{cache: cache, triggers: triggers}
}

// Provide yields names that extend the current word or that the current word
// already extends.
func (p *ExecutableProvider) Provide(cur CursorContext) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if cur.IsFirstWord || !p.active(cur.CurrentLine) {
			return
		}
		word := cur.CurrentWord
		for _, name := range p.cache.Names() {
			if !strings.HasPrefix(name, word) && !strings.HasPrefix(word, name) {
				continue
			}
			if !yield(candidate(name, CategoryExecutable, cur)) {
				return
			}
		}
	}
}

// active reports whether line is a shell escape with at most one argument.
func (p *ExecutableProvider) active(line string) bool {
	if len(strings.Split(line, " ")) >= 3 {
		return false
	}
	first, _, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")
	return slices.Contains(p.triggers, first)
}
