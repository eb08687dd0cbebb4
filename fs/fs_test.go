package fs

import (
	"testing"

	"slotfs/image"

	"github.com/stretchr/testify/require"
)

func initUut(tt *testing.T, capacity uint32, opts ...Option) *Filesystem {
	img, err := image.New(capacity)
	require.NoError(tt, err)
	return Mount(img, opts...)
}

// every test ends here: whatever happened, the image must
// still be self-consistent
func requireSane(tt *testing.T, f *Filesystem) {
	tt.Helper()
	require.NoError(tt, f.Image().Check())
}
