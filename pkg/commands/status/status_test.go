// pkg/commands/status/status_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp directories)
// PURPOSE: Verify status classifies installed, drifted and missing entries

package status_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gentoo-livegui/calstage/pkg/commands/install"
	"github.com/gentoo-livegui/calstage/pkg/commands/status"
	"github.com/gentoo-livegui/calstage/pkg/config"
	"github.com/gentoo-livegui/calstage/pkg/manifest"
	"github.com/gentoo-livegui/calstage/pkg/testutil"
)

func TestRunOnPristineTree(t *testing.T) {
	env := testutil.NewEnv(t)
	cfg := &config.Config{Vars: env.Vars()}

	res, err := status.Run(status.Options{Config: cfg})
	require.NoError(t, err)

	// Nothing installed yet: every package entry is missing, and without
	// asset bundles the icon and slides have no source at all.
	assert.Equal(t, len(res.Plan.Entries)-(manifest.SlideCount+2), res.Count(status.StateMissing))
	assert.Equal(t, manifest.SlideCount+2, res.Count(status.StateSourceMissing))
	assert.Zero(t, res.Count(status.StateInstalled))
}

func TestRunAfterInstall(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteArtwork(t)
	env.WriteLivecd(t)
	cfg := &config.Config{Vars: env.Vars()}

	_, err := install.Run(context.Background(), install.Options{Config: cfg})
	require.NoError(t, err)

	res, err := status.Run(status.Options{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, len(res.Plan.Entries), res.Count(status.StateInstalled))
	assert.Zero(t, res.Count(status.StateModified))
	assert.Zero(t, res.Count(status.StateMissing))
}

func TestRunDetectsDrift(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteArtwork(t)
	env.WriteLivecd(t)
	cfg := &config.Config{Vars: env.Vars()}

	_, err := install.Run(context.Background(), install.Options{Config: cfg})
	require.NoError(t, err)

	plan := buildPlan(t, cfg)
	settings, ok := plan.Lookup("settings")
	require.True(t, ok)
	testutil.WriteFile(t, settings.Target, "hand edited\n")

	helper, ok := plan.Lookup("helper")
	require.True(t, ok)
	require.NoError(t, os.Chmod(helper.Target, 0644))

	res, err := status.Run(status.Options{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count(status.StateModified),
		"edited content and a dropped executable bit both count as drift")
	assert.Equal(t, len(res.Plan.Entries)-2, res.Count(status.StateInstalled))

	for _, e := range res.Entries {
		if e.Entry.Name == "settings" || e.Entry.Name == "helper" {
			assert.Equal(t, status.StateModified, e.State, "entry %s", e.Entry.Name)
		}
	}
}

func buildPlan(t *testing.T, cfg *config.Config) *manifest.Plan {
	t.Helper()
	return manifest.Build(cfg.Paths())
}
