package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halverson/walletsync/internal/output"
	versionpkg "github.com/halverson/walletsync/internal/version"
)

const (
	// devVersionString is the string used for development versions
	devVersionString = "dev"
	// releaseOwner is the GitHub repository owner
	releaseOwner = "halverson"
	// releaseRepo is the GitHub repository name
	releaseRepo = "walletsync"
)

// BuildInfo holds version metadata injected at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

//nolint:gochecknoglobals // Build metadata is set once from main before Execute
var buildInfo BuildInfo

// SetBuildInfo records build metadata for the version command.
func SetBuildInfo(info BuildInfo) {
	buildInfo = info
}

// GetCurrentVersion returns the current version of walletsync.
func GetCurrentVersion() string {
	v := buildInfo.Version
	if v == "" {
		return devVersionString
	}
	return v
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var versionCheck bool

// versionCmd prints version information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show version information for walletsync.

With --check, also queries GitHub for the latest released version and
reports whether an upgrade is available.

Example:
  walletsync version
  walletsync version --check`,
	RunE: runVersion,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
}

type versionResponse struct {
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Date     string `json:"date,omitempty"`
	Platform string `json:"platform"`
	Latest   string `json:"latest,omitempty"`
	Outdated bool   `json:"outdated,omitempty"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	resp := versionResponse{
		Version:  formatVersion(GetCurrentVersion()),
		Commit:   buildInfo.Commit,
		Date:     buildInfo.Date,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	if versionCheck {
		release, err := versionpkg.GetLatestRelease(cmd.Context(), releaseOwner, releaseRepo)
		if err != nil {
			return err
		}
		latest := strings.TrimPrefix(release.TagName, "v")
		resp.Latest = formatVersion(latest)
		resp.Outdated = versionpkg.IsNewerVersion(GetCurrentVersion(), latest)
	}

	w := cmd.OutOrStdout()

	if formatter.IsJSON() {
		return writeJSON(w, resp)
	}

	out(w, "walletsync %s\n", resp.Version)
	if resp.Commit != "" {
		out(w, "  commit: %s\n", resp.Commit)
	}
	if resp.Date != "" {
		out(w, "  built:  %s\n", resp.Date)
	}
	out(w, "  platform: %s\n", resp.Platform)

	if versionCheck {
		outln(w)
		if resp.Outdated {
			output.Warn("A newer version is available: " + resp.Latest)
		} else {
			output.Success("You are on the latest version")
		}
	}

	return nil
}

// formatVersion normalizes a version string for display.
func formatVersion(v string) string {
	if v == devVersionString || v == "" {
		return devVersionString
	}
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
