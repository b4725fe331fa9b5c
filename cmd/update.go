package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const releaseRepository = "alturanft/alturanft-go"

var updateCheckOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update alturanft to the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "only report whether an update is available")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := semver.ParseTolerant(appVersion)
	if err != nil {
		return fmt.Errorf("cannot update a development build (%s)", appVersion)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", releaseRepository)
	}

	newer, err := isNewer(current, latest.Version())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !newer {
		fmt.Fprintf(out, "alturanft %s is up to date\n", current)
		return nil
	}
	if updateCheckOnly {
		fmt.Fprintf(out, "alturanft %s is available (current %s)\n", latest.Version(), current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "Updated alturanft to %s\n", latest.Version())
	return nil
}

// isNewer reports whether release is a newer version than current
func isNewer(current semver.Version, release string) (bool, error) {
	latest, err := semver.ParseTolerant(release)
	if err != nil {
		return false, fmt.Errorf("invalid release version %q: %w", release, err)
	}
	return latest.GT(current), nil
}
