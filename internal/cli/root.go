package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "shipcheck",
	Short: "Validate built installer artifacts against the product configuration",
	Long: `Shipcheck inspects built installer/package artifacts (RPM, DEB, AppImage,
MSI, NSIS) and verifies that each artifact contains what the canonical
product configuration says it should, structured the way downstream
installers and OS integrations expect.

Shipcheck is validate-only: it finds non-conformant artifacts, it does not
repair them and it does not build them.

Examples:
	# Show available commands and global flags
	shipcheck --help

	# Validate the artifacts under the default search roots
	shipcheck verify --product-config product.json

	# List checks
	shipcheck checks list

	# Print build info
	shipcheck version

Output:
	By default, commands write human-readable output to stdout.
	Some commands support structured output via emitter flags (see each
	command's --help).`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose diagnostics")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
