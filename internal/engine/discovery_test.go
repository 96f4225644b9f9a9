package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shipcheck/internal/artifact"
	"shipcheck/internal/config"
)

func touch(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(p, []byte("artifact"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
}

func artifactNames(arts []artifact.Artifact) []string {
	var names []string
	for _, a := range arts {
		names = append(names, filepath.Base(a.Path))
	}
	return names
}

func TestDiscoverArtifacts(t *testing.T) {
	t.Run("recursive search root scan", func(t *testing.T) {
		root := t.TempDir()
		touch(t,
			filepath.Join(root, "widget-1.0.rpm"),
			filepath.Join(root, "nested", "widget_1.0_amd64.deb"),
			filepath.Join(root, "widget-1.0.AppImage"),
			filepath.Join(root, "README.md"),
		)
		cfg := config.New()
		cfg.Targeting.SearchRoots = []string{root}

		arts, err := DiscoverArtifacts(cfg)
		if err != nil {
			t.Fatalf("DiscoverArtifacts failed: %v", err)
		}
		if len(arts) != 3 {
			t.Fatalf("got %v, want 3 artifacts", artifactNames(arts))
		}
		for i := 1; i < len(arts); i++ {
			if arts[i-1].Path >= arts[i].Path {
				t.Errorf("artifacts not sorted by path: %v", artifactNames(arts))
			}
		}
	})

	t.Run("missing search root is tolerated", func(t *testing.T) {
		populated := t.TempDir()
		touch(t, filepath.Join(populated, "widget.msi"))
		cfg := config.New()
		cfg.Targeting.SearchRoots = []string{filepath.Join(populated, "no-such-dir"), populated}

		arts, err := DiscoverArtifacts(cfg)
		if err != nil {
			t.Fatalf("DiscoverArtifacts failed: %v", err)
		}
		if len(arts) != 1 {
			t.Errorf("got %v, want 1 artifact", artifactNames(arts))
		}
	})

	t.Run("explicit file taken as-is", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "widget.msi")
		touch(t, file)
		cfg := config.New()
		cfg.Targeting.Artifacts = []string{file}

		arts, err := DiscoverArtifacts(cfg)
		if err != nil {
			t.Fatalf("DiscoverArtifacts failed: %v", err)
		}
		if len(arts) != 1 || arts[0].Format != artifact.FormatMSI {
			t.Errorf("got %v", arts)
		}
	})

	t.Run("explicit directory is non-recursive", func(t *testing.T) {
		dir := t.TempDir()
		touch(t,
			filepath.Join(dir, "widget.rpm"),
			filepath.Join(dir, "nested", "widget.deb"),
		)
		cfg := config.New()
		cfg.Targeting.Artifacts = []string{dir}

		arts, err := DiscoverArtifacts(cfg)
		if err != nil {
			t.Fatalf("DiscoverArtifacts failed: %v", err)
		}
		if len(arts) != 1 || filepath.Base(arts[0].Path) != "widget.rpm" {
			t.Errorf("got %v, want only the top-level rpm", artifactNames(arts))
		}
	})

	t.Run("glob pattern", func(t *testing.T) {
		dir := t.TempDir()
		touch(t,
			filepath.Join(dir, "widget-1.0.rpm"),
			filepath.Join(dir, "widget-1.1.rpm"),
			filepath.Join(dir, "other.deb"),
		)
		cfg := config.New()
		cfg.Targeting.Artifacts = []string{filepath.Join(dir, "widget-*.rpm")}

		arts, err := DiscoverArtifacts(cfg)
		if err != nil {
			t.Fatalf("DiscoverArtifacts failed: %v", err)
		}
		if len(arts) != 2 {
			t.Errorf("got %v, want the two rpm matches", artifactNames(arts))
		}
	})

	t.Run("glob matching nothing is a hard error", func(t *testing.T) {
		cfg := config.New()
		cfg.Targeting.Artifacts = []string{filepath.Join(t.TempDir(), "typo-*.rpm")}

		_, err := DiscoverArtifacts(cfg)
		if err == nil {
			t.Fatal("DiscoverArtifacts accepted a zero-match pattern")
		}
		if !strings.Contains(err.Error(), "matched no files") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("format restriction", func(t *testing.T) {
		root := t.TempDir()
		touch(t,
			filepath.Join(root, "widget.rpm"),
			filepath.Join(root, "widget.deb"),
			filepath.Join(root, "widget.msi"),
		)
		cfg := config.New()
		cfg.Targeting.SearchRoots = []string{root}
		cfg.Targeting.Formats = []string{"deb"}

		arts, err := DiscoverArtifacts(cfg)
		if err != nil {
			t.Fatalf("DiscoverArtifacts failed: %v", err)
		}
		if len(arts) != 1 || arts[0].Format != artifact.FormatDEB {
			t.Errorf("got %v, want only the deb", artifactNames(arts))
		}
	})

	t.Run("embedded third-party payloads are excluded", func(t *testing.T) {
		root := t.TempDir()
		touch(t,
			filepath.Join(root, "widget-setup.exe"),
			filepath.Join(root, "VC_redist.x64.exe"),
			filepath.Join(root, "MicrosoftEdgeWebview2Setup.exe"),
			filepath.Join(root, "dotnet-runtime-8.0.exe"),
		)
		cfg := config.New()
		cfg.Targeting.SearchRoots = []string{root}

		arts, err := DiscoverArtifacts(cfg)
		if err != nil {
			t.Fatalf("DiscoverArtifacts failed: %v", err)
		}
		if len(arts) != 1 || filepath.Base(arts[0].Path) != "widget-setup.exe" {
			t.Errorf("got %v, want only the product installer", artifactNames(arts))
		}
	})

	t.Run("include and exclude filters", func(t *testing.T) {
		root := t.TempDir()
		touch(t,
			filepath.Join(root, "widget-1.0.rpm"),
			filepath.Join(root, "widget-1.0-debug.rpm"),
			filepath.Join(root, "gadget-1.0.rpm"),
		)
		cfg := config.New()
		cfg.Targeting.SearchRoots = []string{root}
		cfg.Targeting.Include = []string{"widget-*"}
		cfg.Targeting.Exclude = []string{"*-debug*"}

		arts, err := DiscoverArtifacts(cfg)
		if err != nil {
			t.Fatalf("DiscoverArtifacts failed: %v", err)
		}
		if len(arts) != 1 || filepath.Base(arts[0].Path) != "widget-1.0.rpm" {
			t.Errorf("got %v", artifactNames(arts))
		}
	})

	t.Run("duplicate inputs are deduplicated", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "widget.msi")
		touch(t, file)
		cfg := config.New()
		cfg.Targeting.Artifacts = []string{file, file, dir}

		arts, err := DiscoverArtifacts(cfg)
		if err != nil {
			t.Fatalf("DiscoverArtifacts failed: %v", err)
		}
		if len(arts) != 1 {
			t.Errorf("got %v, want 1 after dedup", artifactNames(arts))
		}
	})

	t.Run("nothing discovered", func(t *testing.T) {
		cfg := config.New()
		cfg.Targeting.SearchRoots = []string{t.TempDir()}

		_, err := DiscoverArtifacts(cfg)
		if !errors.Is(err, ErrNoArtifactsFound) {
			t.Fatalf("error = %v, want ErrNoArtifactsFound", err)
		}
	})
}
