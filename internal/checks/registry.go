package checks

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"shipcheck/internal/artifact"
)

var (
	registry = make(map[string]Check)
	mu       sync.RWMutex
)

func Register(c Check) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[c.ID()]; exists {
		panic(fmt.Sprintf("check %s already registered", c.ID()))
	}
	registry[c.ID()] = c
}

func List() []Check {
	mu.RLock()
	defer mu.RUnlock()
	var out []Check
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}

// Resolve selects checks by a comma-separated ID list; empty selects all.
func Resolve(selector string) ([]Check, error) {
	if selector == "" {
		return List(), nil
	}

	mu.RLock()
	defer mu.RUnlock()

	ids := strings.Split(selector, ",")
	var selected []Check
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if c, ok := registry[id]; ok {
			selected = append(selected, c)
		} else {
			return nil, fmt.Errorf("check not found: %s", id)
		}
	}
	return selected, nil
}

// ForFormat filters a check list down to those applying to one format,
// preserving order.
func ForFormat(list []Check, f artifact.Format) []Check {
	var out []Check
	for _, c := range list {
		if AppliesTo(c, f) {
			out = append(out, c)
		}
	}
	return out
}
