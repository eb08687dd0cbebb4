// Package imgstore saves and loads whole images. The file
// system itself never does this; the shell calls in here on
// startup and on dump.
package imgstore

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"slotfs/image"

	"github.com/blang/semver/v4"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("imgstore")

const magic = "slotfs"

// FormatVersion is written into every image. Images with a
// different major version are refused.
var FormatVersion = semver.MustParse("1.0.0")

// ErrNotInitialized is returned by Load when there is no
// image to load yet.
var ErrNotInitialized = errors.New("no image found, create one first")

type Store interface {
	Load(ctx context.Context) (*image.Image, error)
	Save(ctx context.Context, img *image.Image) error
}

// Create builds a fresh image and saves it straight away
func Create(ctx context.Context, s Store, capacity uint32) (*image.Image, error) {
	img, err := image.New(capacity)
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, img); err != nil {
		return nil, err
	}
	log.Infof("created image with %d slots", capacity)
	return img, nil
}

type header struct {
	Magic    string
	Version  string
	Capacity uint32
}

func encode(w io.Writer, img *image.Image) error {
	enc := gob.NewEncoder(w)
	h := header{
		Magic:    magic,
		Version:  FormatVersion.String(),
		Capacity: img.Capacity,
	}
	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}
	if err := enc.Encode(img); err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	return nil
}

// decode refuses anything that does not pass image.Check, so
// the file system never sees a broken image.
func decode(r io.Reader) (*image.Image, error) {
	dec := gob.NewDecoder(r)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("decoding header: %w", err)
	}
	if h.Magic != magic {
		return nil, fmt.Errorf("not a %s image (magic %q)", magic, h.Magic)
	}
	v, err := semver.Parse(h.Version)
	if err != nil {
		return nil, fmt.Errorf("bad image version %q: %w", h.Version, err)
	}
	if v.Major != FormatVersion.Major {
		return nil, fmt.Errorf("image format %s, this build reads %d.x", v, FormatVersion.Major)
	}

	img := new(image.Image)
	if err := dec.Decode(img); err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if img.Capacity != h.Capacity {
		return nil, fmt.Errorf("header says %d slots, image has %d", h.Capacity, img.Capacity)
	}
	if err := img.Check(); err != nil {
		return nil, fmt.Errorf("image failed consistency check: %w", err)
	}
	return img, nil
}
