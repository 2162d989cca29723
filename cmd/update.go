package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

var checkOnly bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// version works without a config file or client
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "waxatomic %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)
	},
}

// updateCmd replaces the running binary with the latest GitHub release
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update waxatomic to the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether a newer release exists")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := currentVersion(version)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	repo := cfg.Update.Repository

	logger.Info().Str("repository", repo).Str("current", current.String()).Msg("Checking for updates")

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s on %s/%s", repo, runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ waxatomic %s is up to date\n", current)
		return nil
	}

	if checkOnly {
		fmt.Fprintf(cmd.OutOrStdout(), "A new release is available: %s (current %s)\n", latest.Version(), current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	logger.Info().Str("version", latest.Version()).Msg("Updated waxatomic")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated to %s\n", latest.Version())
	return nil
}

var errDevBuild = errors.New("development builds cannot be updated; install a release build")

// currentVersion parses the build version, rejecting development builds
func currentVersion(v string) (semver.Version, error) {
	if v == "" || v == "dev" {
		return semver.Version{}, errDevBuild
	}
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid build version %q: %w", v, err)
	}
	return parsed, nil
}
