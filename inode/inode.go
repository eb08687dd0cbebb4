package inode

import (
	"fmt"

	"slotfs/errs"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("inode")

// NDirect bounds both the children of a directory and the
// blocks of a file, so the largest file is NDirect*bio.BlockSize.
const NDirect = 12

// NameMax is one past the longest legal name
const NameMax = 32

// Empty marks an unused Addrs entry
const Empty int32 = -1

const RootInum int32 = 0

type IType byte

const (
	Free IType = iota
	File
	Dir
)

func (m IType) String() string {
	switch m {
	case File:
		return "FIL"
	case Dir:
		return "DIR"
	default:
		return "FREE"
	}
}

// Addrs holds inode ids for a directory and block ids for a
// file. Occupied entries are always packed at the front.
type Addrs [NDirect]int32

type Inode struct {
	Name   string
	Mode   IType
	Parent int32
	Size   uint32
	Addrs  Addrs
}

// Reset turns the inode back into a free slot
func (i *Inode) Reset() {
	*i = Inode{Mode: Free, Parent: Empty}
	for j := range i.Addrs {
		i.Addrs[j] = Empty
	}
}

// Naddrs is the index of the first empty entry, which is
// also the count of occupied ones.
func (i *Inode) Naddrs() int {
	for j, a := range i.Addrs {
		if a == Empty {
			return j
		}
	}
	return NDirect
}

// Used returns the occupied prefix of Addrs. The slice
// aliases the inode.
func (i *Inode) Used() []int32 {
	return i.Addrs[:i.Naddrs()]
}

// Attach puts id in the first empty entry
func (i *Inode) Attach(id int32) error {
	k := i.Naddrs()
	if k == NDirect {
		return fmt.Errorf("%q already holds %d entries: %w", i.Name, NDirect, errs.ErrNoSpace)
	}
	i.Addrs[k] = id
	return nil
}

// Detach removes id and slides the later entries down so
// the occupied prefix stays packed and in order. Reports
// whether id was present.
func (i *Inode) Detach(id int32) bool {
	for j, a := range i.Addrs {
		if a == Empty {
			break
		}
		if a != id {
			continue
		}
		copy(i.Addrs[j:], i.Addrs[j+1:])
		i.Addrs[NDirect-1] = Empty
		return true
	}
	return false
}

// ValidName rejects anything that would not round trip
// through a path: empty, too long, or containing a slash.
func ValidName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name: %w", errs.ErrNotFound)
	case len(name) >= NameMax:
		return fmt.Errorf("name %q longer than %d bytes: %w", name, NameMax-1, errs.ErrNotFound)
	}
	for _, c := range []byte(name) {
		if c == '/' || c == 0 {
			return fmt.Errorf("name %q contains %q: %w", name, c, errs.ErrNotFound)
		}
	}
	return nil
}
