package inode

import (
	"fmt"

	"slotfs/errs"
)

// Table is the inode half of an image. Slot RootInum is the
// root directory and stays a directory for the life of the
// table.
type Table []Inode

func MkTable(n uint32) Table {
	t := make(Table, n)
	for i := range t {
		t[i].Reset()
	}
	t[RootInum].Mode = Dir
	return t
}

// Alloci claims the lowest free slot for an inode of the
// given mode. The caller fills in the name and parent.
func (t Table) Alloci(mode IType) (int32, error) {
	for i := range t {
		if t[i].Mode == Free {
			t[i].Reset()
			t[i].Mode = mode
			log.Debugf("alloc inode %d as %v", i, mode)
			return int32(i), nil
		}
	}
	return Empty, fmt.Errorf("no free inodes: %w", errs.ErrNoSpace)
}

// Geti returns nil for an id outside the table
func (t Table) Geti(id int32) *Inode {
	if id < 0 || int(id) >= len(t) {
		log.Errorf("inode id out of range: %d", id)
		return nil
	}
	return &t[id]
}

// Nfree counts free slots with a full scan
func (t Table) Nfree() uint32 {
	var n uint32
	for i := range t {
		if t[i].Mode == Free {
			n++
		}
	}
	return n
}

// Child looks name up among dir's occupied entries. First
// match wins, in attach order.
func (t Table) Child(dir int32, name string) (int32, bool) {
	for _, c := range t[dir].Used() {
		if t[c].Name == name {
			return c, true
		}
	}
	return Empty, false
}
