// Package fs is the file system proper: path lookup and the
// directory and file operations, all working in place on
// one resident image.image.
//
// Nothing here is safe for concurrent use. One caller owns a
// Filesystem and the image under it at a time.
package fs

import (
	"fmt"

	"slotfs/errs"
	"slotfs/image"
	"slotfs/inode"
	"slotfs/jrnl"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("fs")

type Filesystem struct {
	img  *image.Image
	host Host
	txn  bool
}

type Option func(*Filesystem)

// WithHost swaps the file system that import and export
// read and write. The default is the real one.
func WithHost(h Host) Option {
	return func(f *Filesystem) {
		f.host = h
	}
}

// WithTransactions makes cp, writef and import undo
// everything they did when they fail partway.
func WithTransactions(on bool) Option {
	return func(f *Filesystem) {
		f.txn = on
	}
}

// Mount wraps an image that someone else built or loaded.
// The image must already pass image.Check.
func Mount(img *image.Image, opts ...Option) *Filesystem {
	f := &Filesystem{
		img:  img,
		host: OSHost{},
	}
	for _, o := range opts {
		o(f)
	}
	log.Debugf("mounted image with %d slots, %d free blocks", img.Capacity, img.FreeBlocks())
	return f
}

func (f *Filesystem) Image() *image.Image {
	return f.img
}

// nil when transactions are off; a nil handle does nothing
func (f *Filesystem) begin() *jrnl.TxnHandle {
	if !f.txn {
		return nil
	}
	return jrnl.BeginTransaction(f.img)
}

// Any walk deeper than this is going round a cycle, which a
// checked image cannot contain: every level needs its own
// inode.
func (f *Filesystem) maxDepth() int {
	return int(f.img.Capacity)
}

func (f *Filesystem) tooDeep(depth int) error {
	if depth <= f.maxDepth() {
		return nil
	}
	return fmt.Errorf("tree deeper than %d levels: %w", f.maxDepth(), errs.ErrNoSpace)
}

func (f *Filesystem) geti(id int32) *inode.Inode {
	return &f.img.Inodes[id]
}
