package inspect

import (
	"context"
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/facts"
)

// ManifestInspector lists the installed file paths of RPM, DEB and AppImage
// artifacts through each package's native listing query. Output handling is
// bounded to line splitting and trimming.
type ManifestInspector struct {
	Runner Runner
}

func (m *ManifestInspector) Inspect(ctx context.Context, art artifact.Artifact) (*facts.ManifestFacts, error) {
	var tool string
	var args []string
	switch art.Format {
	case artifact.FormatRPM:
		tool = "rpm"
		args = []string{"-qlp", art.Path}
	case artifact.FormatDEB:
		tool = "dpkg-deb"
		args = []string{"-c", art.Path}
	case artifact.FormatAppImage:
		tool = "unsquashfs"
		args = []string{"-l", art.Path}
	default:
		return nil, &ToolError{Format: art.Format, Tool: "manifest", ExitCode: -1, Detail: "format has no manifest listing"}
	}

	inv := m.Runner.Run(ctx, tool, args...)
	if inv.Err != nil || inv.ExitCode != 0 {
		return nil, &ToolError{Format: art.Format, Tool: tool, ExitCode: inv.ExitCode, Detail: firstLine(inv.Stderr)}
	}

	var paths []string
	for _, line := range strings.Split(inv.Stdout, "\n") {
		p := manifestPath(art.Format, line)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return &facts.ManifestFacts{FilePaths: paths}, nil
}

// manifestPath normalizes one listing line into an absolute installed path,
// or "" when the line carries no path.
func manifestPath(format artifact.Format, line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	switch format {
	case artifact.FormatRPM:
		// rpm -qlp prints one absolute path per line.
		if strings.HasPrefix(line, "/") {
			return line
		}
	case artifact.FormatDEB:
		// dpkg-deb -c prints tar-style listings; the path is the last field,
		// rooted at "./".
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return ""
		}
		p := fields[len(fields)-1]
		// Symlink entries list "path -> target"; keep the path side.
		if i := indexOfField(fields, "->"); i > 0 {
			p = fields[i-1]
		}
		p = strings.TrimPrefix(p, ".")
		if strings.HasPrefix(p, "/") && p != "/" {
			return strings.TrimSuffix(p, "/")
		}
	case artifact.FormatAppImage:
		// unsquashfs -l prints paths rooted at "squashfs-root".
		p := strings.TrimPrefix(line, "squashfs-root")
		if strings.HasPrefix(p, "/") && p != "/" {
			return p
		}
	}
	return ""
}

func indexOfField(fields []string, want string) int {
	for i, f := range fields {
		if f == want {
			return i
		}
	}
	return -1
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
