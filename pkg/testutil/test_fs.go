package testutil

import (
	"github.com/spf13/afero"

	"github.com/gentoo-livegui/calstage/pkg/filesystem"
	"github.com/gentoo-livegui/calstage/pkg/types"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}
