package inspect

import (
	"context"
	"fmt"
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/facts"
)

// MSITables are the fixed relational tables the MSI checklist asserts on.
var MSITables = []string{"Property", "Extension", "Registry"}

// TableQuerier is the installer-database automation capability: open one
// artifact's database, run the fixed queries, and release the handle on
// every exit path. Implementations must not keep the database open after
// Query returns.
type TableQuerier interface {
	Query(ctx context.Context, path string, tables []string) (*facts.TableFacts, error)
}

// MSIInspector materializes the fixed table set for an MSI artifact.
type MSIInspector struct {
	Querier TableQuerier
}

func (m *MSIInspector) Inspect(ctx context.Context, art artifact.Artifact) (*facts.TableFacts, error) {
	return m.Querier.Query(ctx, art.Path, MSITables)
}

// ExecTableQuerier queries the installer database by exporting one table per
// subprocess invocation. Each invocation opens and releases the database on
// its own, so no handle outlives a query.
type ExecTableQuerier struct {
	Runner  Runner
	Locator *Locator
}

func (q *ExecTableQuerier) Query(ctx context.Context, path string, tables []string) (*facts.TableFacts, error) {
	tool, ok := q.Locator.Locate("msiinfo")
	if !ok {
		return nil, &ToolError{Format: artifact.FormatMSI, Tool: "msiinfo", ExitCode: -1, Detail: "tool not found"}
	}

	out := &facts.TableFacts{Tables: make(map[string][]facts.Row, len(tables))}
	for _, table := range tables {
		inv := q.Runner.Run(ctx, tool, "export", path, table)
		if inv.Err != nil || inv.ExitCode != 0 {
			// A table the artifact simply does not contain is a structural
			// fact (dependent checks fail); any other failure means the
			// database could not be queried at all.
			if tableAbsentDiagnostic(inv.Stderr) {
				continue
			}
			return nil, &ToolError{Format: artifact.FormatMSI, Tool: "msiinfo", ExitCode: inv.ExitCode, Detail: firstLine(inv.Stderr)}
		}
		rows, err := parseIDT(inv.Stdout)
		if err != nil {
			return nil, &ToolError{Format: artifact.FormatMSI, Tool: "msiinfo", ExitCode: 0, Detail: fmt.Sprintf("table %s: %v", table, err)}
		}
		out.Tables[table] = rows
	}
	return out, nil
}

func tableAbsentDiagnostic(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "no such table") ||
		strings.Contains(s, "does not exist") ||
		strings.Contains(s, "unknown table")
}

// parseIDT materializes an exported installer table. The export carries a
// column-name row, a column-format row, a table header row, then data rows,
// all tab-separated.
func parseIDT(out string) ([]facts.Row, error) {
	lines := strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	if len(lines) < 3 {
		return nil, fmt.Errorf("truncated table export (%d lines)", len(lines))
	}
	cols := strings.Split(lines[0], "\t")
	if len(cols) == 0 || cols[0] == "" {
		return nil, fmt.Errorf("table export has no columns")
	}

	var rows []facts.Row
	for _, line := range lines[3:] {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		row := make(facts.Row, len(cols))
		for i, col := range cols {
			if i < len(fields) {
				row[col] = fields[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
