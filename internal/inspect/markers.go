package inspect

import (
	"bytes"
	"context"
	"io"
	"os"

	"shipcheck/internal/artifact"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

// Marker is one byte sequence to find in an installer binary. Scheme handler
// tokens match literal bytes; file-extension tokens fold ASCII case.
type Marker struct {
	Token    string
	FoldCase bool
}

// scanChunkSize is the fixed read size for streaming marker scans.
const scanChunkSize = 64 * 1024

// NSISInspector scans NSIS/EXE installers for embedded registration markers
// without loading the whole file into memory, and, when the payload
// extraction capability is available, lists the installer payload.
type NSISInspector struct {
	Runner  Runner
	Locator *Locator
}

// MarkersFor derives the marker set for an expectation: one URL-scheme
// handler token per configured scheme and one case-insensitive token per
// file-association extension.
func MarkersFor(exp *product.Expectation) []Marker {
	var markers []Marker
	for _, scheme := range exp.URLSchemes {
		markers = append(markers,
			Marker{Token: scheme + "://"},
			Marker{Token: "x-scheme-handler/" + scheme},
		)
	}
	for _, ext := range exp.FileAssociationExtensions {
		markers = append(markers, Marker{Token: "." + ext, FoldCase: true})
	}
	return markers
}

func (n *NSISInspector) Inspect(ctx context.Context, art artifact.Artifact, exp *product.Expectation) (*facts.MarkerFacts, *facts.PayloadFacts, error) {
	marks, err := ScanFile(art.Path, MarkersFor(exp))
	if err != nil {
		return nil, nil, &ToolError{Format: art.Format, Tool: "marker-scan", ExitCode: -1, Detail: err.Error()}
	}

	payload, err := n.listPayload(ctx, art)
	if err != nil {
		return nil, nil, err
	}
	return marks, payload, nil
}

// listPayload lists the installer payload via the archive extractor.
// A missing extractor yields a nil PayloadFacts (payload checks are
// explicitly optional without the capability), not an error.
func (n *NSISInspector) listPayload(ctx context.Context, art artifact.Artifact) (*facts.PayloadFacts, error) {
	tool, ok := n.Locator.Locate("7z")
	if !ok {
		return nil, nil
	}
	inv := n.Runner.Run(ctx, tool, "l", "-ba", "-slt", art.Path)
	if inv.Err != nil || inv.ExitCode != 0 {
		return nil, &ToolError{Format: art.Format, Tool: "7z", ExitCode: inv.ExitCode, Detail: firstLine(inv.Stderr)}
	}

	var names []string
	for _, line := range bytes.Split([]byte(inv.Stdout), []byte("\n")) {
		if rest, ok := bytes.CutPrefix(bytes.TrimSpace(line), []byte("Path = ")); ok {
			if len(rest) > 0 {
				names = append(names, string(rest))
			}
		}
	}
	return &facts.PayloadFacts{Names: names}, nil
}

// ScanFile runs the streaming marker scan over one file.
func ScanFile(path string, markers []Marker) (*facts.MarkerFacts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ScanReader(f, markers)
}

// ScanReader reads fixed-size chunks and searches each marker, retaining the
// last len(marker)-1 bytes of the previous chunk so a marker straddling a
// chunk boundary is found identically to one fully contained in a chunk.
// Chunk size must not affect the outcome for a fixed input and marker set.
func ScanReader(r io.Reader, markers []Marker) (*facts.MarkerFacts, error) {
	found := make(map[string]bool, len(markers))
	if len(markers) == 0 {
		return &facts.MarkerFacts{Found: found}, nil
	}

	maxLen := 0
	needles := make([][]byte, len(markers))
	for i, m := range markers {
		if len(m.Token) > maxLen {
			maxLen = len(m.Token)
		}
		if m.FoldCase {
			needles[i] = bytes.ToLower([]byte(m.Token))
		} else {
			needles[i] = []byte(m.Token)
		}
	}

	carry := make([]byte, 0, maxLen-1+scanChunkSize)
	chunk := make([]byte, scanChunkSize)
	remaining := len(markers)

	for remaining > 0 {
		n, err := r.Read(chunk)
		if n > 0 {
			window := append(carry, chunk[:n]...)
			var folded []byte
			for i, m := range markers {
				if found[m.Token] {
					continue
				}
				haystack := window
				if m.FoldCase {
					if folded == nil {
						folded = bytes.ToLower(window)
					}
					haystack = folded
				}
				if bytes.Contains(haystack, needles[i]) {
					found[m.Token] = true
					remaining--
				}
			}
			keep := maxLen - 1
			if keep > len(window) {
				keep = len(window)
			}
			carry = append(carry[:0], window[len(window)-keep:]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return &facts.MarkerFacts{Found: found}, nil
}
