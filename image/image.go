// Package image holds the resident state of a file system:
// one inode table and one data-block table of the same
// length, and the free list over the blocks. Nothing here
// knows about paths.
package image

import (
	"errors"
	"fmt"

	"slotfs/balloc"
	"slotfs/bio"
	"slotfs/errs"
	"slotfs/inode"
)

type Image struct {
	Capacity uint32
	Inodes   inode.Table
	Blocks   []bio.Block
	Balloc   balloc.Balloc
}

// New builds a fresh image whose only entry is the root
// directory.
func New(capacity uint32) (*Image, error) {
	if capacity == 0 {
		return nil, errors.New("image capacity must be at least 1")
	}
	return &Image{
		Capacity: capacity,
		Inodes:   inode.MkTable(capacity),
		Blocks:   make([]bio.Block, capacity),
		Balloc:   balloc.MkBalloc(capacity),
	}, nil
}

// FreeBlocks is the free-block counter, not a scan
func (img *Image) FreeBlocks() uint32 {
	return img.Balloc.Nfree
}

// AllocBlock claims the lowest free block, with its length
// already reset to zero.
func (img *Image) AllocBlock() (int32, error) {
	bn, err := img.Balloc.AllocBlock()
	if err != nil {
		return bn, err
	}
	img.Blocks[bn].Brelse()
	return bn, nil
}

func (img *Image) RelseBlock(bn int32) {
	img.Balloc.RelseBlock(bn)
	if bn >= 0 && uint32(bn) < img.Capacity {
		img.Blocks[bn].Brelse()
	}
}

func (img *Image) Geti(id int32) (*inode.Inode, error) {
	i := img.Inodes.Geti(id)
	if i == nil {
		return nil, fmt.Errorf("inode %d: %w", id, errs.ErrNotFound)
	}
	return i, nil
}

// Clone is a deep copy; nothing is shared with img
func (img *Image) Clone() *Image {
	c := &Image{
		Capacity: img.Capacity,
		Inodes:   make(inode.Table, len(img.Inodes)),
		Blocks:   make([]bio.Block, len(img.Blocks)),
		Balloc: balloc.Balloc{
			Free:  make(balloc.Bitmap, len(img.Balloc.Free)),
			Nfree: img.Balloc.Nfree,
		},
	}
	copy(c.Inodes, img.Inodes)
	copy(c.Blocks, img.Blocks)
	copy(c.Balloc.Free, img.Balloc.Free)
	return c
}

// Restore overwrites img with the contents of snap, keeping
// img's identity so outstanding pointers to it stay valid.
func (img *Image) Restore(snap *Image) {
	*img = *snap.Clone()
}
