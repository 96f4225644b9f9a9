package inspect

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Locator resolves external tool names to invocable paths. Lookups are
// deduplicated across concurrent artifact workers and cached for the run.
type Locator struct {
	// ExtraDirs are well-known installation locations searched after PATH.
	ExtraDirs []string

	group singleflight.Group
	mu    sync.Mutex
	found map[string]string
}

// DefaultSigningToolDirs are well-known install locations for the
// Authenticode verification tool when it is not on PATH.
var DefaultSigningToolDirs = []string{
	"/usr/local/bin",
	"/opt/osslsigncode/bin",
	`C:\Program Files (x86)\Windows Kits\10\bin\x64`,
	`C:\Program Files (x86)\Windows Kits\10\bin\x86`,
}

func NewLocator(extraDirs ...string) *Locator {
	return &Locator{ExtraDirs: extraDirs, found: make(map[string]string)}
}

// Locate returns the resolved path for a tool, or ok=false when the tool is
// not installed anywhere we know to look.
func (l *Locator) Locate(name string) (string, bool) {
	l.mu.Lock()
	if p, ok := l.found[name]; ok {
		l.mu.Unlock()
		return p, p != ""
	}
	l.mu.Unlock()

	v, _, _ := l.group.Do(name, func() (any, error) {
		return l.resolve(name), nil
	})
	path := v.(string)

	l.mu.Lock()
	l.found[name] = path
	l.mu.Unlock()
	return path, path != ""
}

func (l *Locator) resolve(name string) string {
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	for _, dir := range l.ExtraDirs {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
