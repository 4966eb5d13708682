// internal/autocomplete/filesystem.go
package autocomplete

import (
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// pathPrefixes are checked in order; the first one the word starts with wins.
var pathPrefixes = []string{"./", "/", "~/"}

// FilesystemProvider completes paths that start with ./, / or ~/.
type FilesystemProvider struct {
	homeDir func() (string, error)
}

func NewFilesystemProvider() *FilesystemProvider {
	return &FilesystemProvider{homeDir: os.UserHomeDir}
}

// Provide yields the entries of the word's directory whose names start with
// the word's last element. Unreadable directories yield nothing.
func (p *FilesystemProvider) Provide(cur CursorContext) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		word := cur.CurrentWord
		for _, prefix := range pathPrefixes {
			if !strings.HasPrefix(word, prefix) {
				continue
			}
			p.walk(word, cur, yield)
			return
		}
	}
}

func (p *FilesystemProvider) walk(word string, cur CursorContext, yield func(Candidate) bool) {
	dir, base := word[:strings.LastIndexByte(word, '/')+1], word[strings.LastIndexByte(word, '/')+1:]
	expanded := expandHome(dir, p.homeDir)

	entries, err := os.ReadDir(expanded)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		kind := CategoryFile
		if isDir(e, filepath.Join(expanded, name)) {
			kind = CategoryDir
		}
		if !yield(candidate(dir+name, kind, cur)) {
			return
		}
	}
}

func isDir(e os.DirEntry, path string) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// expandHome replaces a leading ~ with the home directory. The path is
// returned unchanged when the home directory cannot be resolved.
func expandHome(path string, homeDir func() (string, error)) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := homeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}
