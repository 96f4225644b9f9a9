package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/config"
)

// excludedPayloadPatterns name known non-product installer payloads bundled
// alongside the product's own artifacts (embedded third-party runtime
// installers). Matched case-insensitively against the file base name.
var excludedPayloadPatterns = []string{
	"vc_redist*",
	"*webview2*",
	"dotnet-runtime*",
}

// DiscoverArtifacts locates candidate artifacts from explicit override paths
// (files, directories, glob patterns) or, when none are given, from the
// default search roots. The result is deduplicated and sorted by path so the
// final report order is deterministic.
func DiscoverArtifacts(cfg *config.Config) ([]artifact.Artifact, error) {
	enabled := cfg.FormatsEnabled()

	var candidates []string
	if len(cfg.Targeting.Artifacts) > 0 {
		for _, input := range cfg.Targeting.Artifacts {
			found, err := resolveOverride(input)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, found...)
		}
	} else {
		for _, root := range cfg.SearchRoots() {
			found, err := walkRoot(root)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, found...)
		}
	}

	seen := make(map[string]struct{})
	var arts []artifact.Artifact
	for _, p := range candidates {
		f, ok := artifact.FormatForExtension(filepath.Ext(p))
		if !ok || !enabled[f] {
			continue
		}
		if excludedPayload(p) {
			continue
		}
		if !matchesFilters(cfg, p) {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		arts = append(arts, artifact.New(abs, f))
	}

	sort.Slice(arts, func(i, j int) bool { return arts[i].Path < arts[j].Path })

	if len(arts) == 0 {
		return nil, ErrNoArtifactsFound
	}
	return arts, nil
}

// resolveOverride expands one explicit input: a file is taken as-is, a
// directory is scanned non-recursively, anything else is treated as a glob
// pattern. A pattern resolving to zero files is a hard error: a typo in an
// override must not silently shrink the run.
func resolveOverride(input string) ([]string, error) {
	info, err := os.Stat(input)
	switch {
	case err == nil && info.IsDir():
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("scan artifact directory %s: %w", input, err)
		}
		var out []string
		for _, e := range entries {
			if !e.IsDir() {
				out = append(out, filepath.Join(input, e.Name()))
			}
		}
		return out, nil
	case err == nil:
		return []string{input}, nil
	}

	matches, globErr := filepath.Glob(input)
	if globErr != nil {
		return nil, fmt.Errorf("invalid artifact pattern %q: %w", input, globErr)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("artifact pattern %q matched no files", input)
	}
	return matches, nil
}

// walkRoot scans a default search root recursively. A missing root is not an
// error: default roots cover several packaging pipelines and most runs only
// populate one of them.
func walkRoot(root string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan search root %s: %w", root, err)
	}
	return out, nil
}

func excludedPayload(p string) bool {
	base := strings.ToLower(filepath.Base(p))
	for _, pattern := range excludedPayloadPatterns {
		if matched, _ := path.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func matchesFilters(cfg *config.Config, p string) bool {
	base := filepath.Base(p)
	if len(cfg.Targeting.Include) > 0 && !matchesAnyPattern(cfg.Targeting.Include, base) {
		return false
	}
	if len(cfg.Targeting.Exclude) > 0 && matchesAnyPattern(cfg.Targeting.Exclude, base) {
		return false
	}
	return true
}

func matchesAnyPattern(patterns []string, name string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if matched, _ := path.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
