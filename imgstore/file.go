package imgstore

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"slotfs/image"

	"github.com/facebookgo/atomicfile"
)

// FileStore keeps one image in one host file. Saves replace
// the file atomically, so a crash mid-dump leaves the old
// image in place.
type FileStore struct {
	Path string
}

func (s *FileStore) Load(ctx context.Context) (*image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			err = ErrNotInitialized
		}
		return nil, err
	}
	defer f.Close()

	img, err := decode(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %d slot image from %s", img.Capacity, s.Path)
	return img, nil
}

func (s *FileStore) Save(ctx context.Context, img *image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}

	f, err := atomicfile.New(s.Path, 0o600)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := encode(w, img); err != nil {
		f.Abort()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Abort()
		return err
	}
	log.Debugf("saved %d slot image to %s", img.Capacity, s.Path)
	return f.Close()
}
