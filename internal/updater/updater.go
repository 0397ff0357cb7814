package updater

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/creativeprojects/go-selfupdate"

	"expertbook/internal/version"
)

// ErrDevBuild is returned when the running binary carries no release version.
var ErrDevBuild = errors.New("development build cannot be updated; install a release instead")

// Release is the newest published build for this platform.
type Release struct {
	Version   string
	AssetURL  string
	AssetName string
	Newer     bool
}

// CheckLatest looks up the latest release of repo and compares it with current.
func CheckLatest(ctx context.Context, repo, current string) (*Release, error) {
	if !isRelease(current) {
		return nil, ErrDevBuild
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no release found for %s", repo)
	}

	return &Release{
		Version:   latest.Version(),
		AssetURL:  latest.AssetURL,
		AssetName: latest.AssetName,
		Newer:     !latest.LessOrEqual(strings.TrimPrefix(current, "v")),
	}, nil
}

// Update replaces the running executable with the latest release.
func Update(ctx context.Context) error {
	current := version.Version

	fmt.Printf("Current version: %s\n", current)
	fmt.Println("Checking for updates...")

	rel, err := CheckLatest(ctx, version.Repository, current)
	if err != nil {
		return err
	}
	if !rel.Newer {
		fmt.Println("Already up to date.")
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Printf("Updating to %s...\n", rel.Version)
	if err := selfupdate.UpdateTo(ctx, rel.AssetURL, rel.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	fmt.Printf("Updated to %s\n", rel.Version)
	return nil
}

func isRelease(v string) bool {
	v = strings.TrimPrefix(v, "v")
	return v != "" && v != "dev" && v[0] >= '0' && v[0] <= '9'
}
