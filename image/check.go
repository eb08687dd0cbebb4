package image

import (
	"fmt"

	"slotfs/bio"
	"slotfs/inode"

	"go.uber.org/multierr"
)

// Usage is a point-in-time count of the image's slots
type Usage struct {
	Capacity    uint32
	UsedInodes  uint32
	FreeInodes  uint32
	UsedBlocks  uint32
	FreeBlocks  uint32
	BytesStored uint64
}

func (img *Image) Usage() Usage {
	u := Usage{
		Capacity:   img.Capacity,
		FreeInodes: img.Inodes.Nfree(),
		FreeBlocks: img.FreeBlocks(),
	}
	u.UsedInodes = img.Capacity - u.FreeInodes
	u.UsedBlocks = img.Capacity - u.FreeBlocks
	for i := range img.Inodes {
		if img.Inodes[i].Mode == inode.File {
			u.BytesStored += uint64(img.Inodes[i].Size)
		}
	}
	return u
}

// Check walks the whole image and reports every broken
// invariant it finds. A nil result means the image is safe
// to hand to the file system.
func (img *Image) Check() error {
	var err error
	if uint32(len(img.Inodes)) != img.Capacity ||
		uint32(len(img.Blocks)) != img.Capacity ||
		uint32(len(img.Balloc.Free)) != img.Capacity {
		return fmt.Errorf("table sizes %d/%d/%d do not match capacity %d",
			len(img.Inodes), len(img.Blocks), len(img.Balloc.Free), img.Capacity)
	}

	root := &img.Inodes[inode.RootInum]
	if root.Mode != inode.Dir {
		err = multierr.Append(err, fmt.Errorf("root is %v, not a directory", root.Mode))
	}

	owner := make([]int32, img.Capacity)
	for i := range owner {
		owner[i] = inode.Empty
	}
	var fileBlocks uint32

	for id := range img.Inodes {
		ino := &img.Inodes[id]
		err = multierr.Append(err, img.checkAddrs(int32(id), ino))

		switch ino.Mode {
		case inode.Free:
			if ino.Name != "" || ino.Size != 0 || ino.Naddrs() != 0 {
				err = multierr.Append(err, fmt.Errorf("free inode %d is not clean", id))
			}
			continue
		case inode.File:
			var size uint32
			for _, bn := range ino.Used() {
				if bn < 0 || uint32(bn) >= img.Capacity {
					continue
				}
				if img.Balloc.Free[bn] {
					err = multierr.Append(err, fmt.Errorf("inode %d uses free block %d", id, bn))
				}
				if owner[bn] != inode.Empty {
					err = multierr.Append(err, fmt.Errorf("block %d shared by inodes %d and %d", bn, owner[bn], id))
				}
				owner[bn] = int32(id)
				if img.Blocks[bn].Len > bio.BlockSize {
					err = multierr.Append(err, fmt.Errorf("block %d length %d", bn, img.Blocks[bn].Len))
				}
				size += uint32(img.Blocks[bn].Len)
				fileBlocks++
			}
			if size != ino.Size {
				err = multierr.Append(err, fmt.Errorf("inode %d size %d, blocks hold %d", id, ino.Size, size))
			}
		case inode.Dir:
			for _, c := range ino.Used() {
				if c < 0 || uint32(c) >= img.Capacity {
					continue
				}
				if img.Inodes[c].Parent != int32(id) || img.Inodes[c].Mode == inode.Free {
					err = multierr.Append(err, fmt.Errorf("dir %d lists %d, which does not point back", id, c))
				}
			}
		default:
			err = multierr.Append(err, fmt.Errorf("inode %d has bad mode %d", id, ino.Mode))
			continue
		}

		if id == int(inode.RootInum) {
			continue
		}
		err = multierr.Append(err, img.checkParent(int32(id), ino))
	}

	if n := img.Balloc.Free.Count(); n != img.Balloc.Nfree {
		err = multierr.Append(err, fmt.Errorf("free list has %d free blocks, counter says %d", n, img.Balloc.Nfree))
	}
	if img.Balloc.Nfree+fileBlocks != img.Capacity {
		err = multierr.Append(err, fmt.Errorf("%d free + %d file blocks != capacity %d",
			img.Balloc.Nfree, fileBlocks, img.Capacity))
	}
	return err
}

// every occupied entry in range, packed at the front
func (img *Image) checkAddrs(id int32, ino *inode.Inode) error {
	var err error
	n := ino.Naddrs()
	for k, a := range ino.Addrs {
		if k >= n {
			if a != inode.Empty {
				err = multierr.Append(err, fmt.Errorf("inode %d has a gap before entry %d", id, k))
			}
			continue
		}
		if a < 0 || uint32(a) >= img.Capacity {
			err = multierr.Append(err, fmt.Errorf("inode %d entry %d out of range: %d", id, k, a))
		}
	}
	return err
}

func (img *Image) checkParent(id int32, ino *inode.Inode) error {
	p := ino.Parent
	if p < 0 || uint32(p) >= img.Capacity || img.Inodes[p].Mode != inode.Dir {
		return fmt.Errorf("inode %d has bad parent %d", id, p)
	}
	for _, c := range img.Inodes[p].Used() {
		if c == id {
			return nil
		}
	}
	return fmt.Errorf("inode %d not listed by its parent %d", id, p)
}
