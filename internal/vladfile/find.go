package vladfile

import (
	"fmt"
	"os"
	"path/filepath"

	"vladiate/internal/domain"
)

// DefaultName is the vladfile looked up when none is given.
const DefaultName = "vladfile"

var extensions = []string{"", ".yaml", ".yml"}

// Find locates a vladfile from the working directory.
func Find(name string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return FindFrom(wd, name)
}

// FindFrom locates a vladfile. name is tried as given and with .yaml and
// .yml appended. A name with a directory part is resolved against start only;
// a bare name is searched for in start and then in each parent directory.
func FindFrom(start, name string) (string, error) {
	if name == "" {
		name = DefaultName
	}

	if filepath.IsAbs(name) || filepath.Base(name) != name {
		dir := start
		if filepath.IsAbs(name) {
			dir = ""
		}
		if path, ok := lookup(dir, name); ok {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", domain.ErrNoVladfile, name)
	}

	dir := start
	for {
		if path, ok := lookup(dir, name); ok {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s (searched from %s)", domain.ErrNoVladfile, name, start)
		}
		dir = parent
	}
}

func lookup(dir, name string) (string, bool) {
	for _, ext := range extensions {
		path := filepath.Join(dir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
