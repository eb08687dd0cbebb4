package inode

import (
	"errors"
	"strings"
	"testing"

	"slotfs/errs"

	"github.com/google/go-cmp/cmp"
)

// Tests the inode api:
//	-> Alloci, Attach, Detach, Reset, Child, ValidName

// Partitions:
//	-> Alloci
//		-> 1 alloc, many allocs
//		-> previously freed slot reused
//		-> table full (=FAIL)
//	-> Attach
//		-> empty, partially full, full (=FAIL)
//	-> Detach
//		-> first, middle, last entry; absent id
//	-> ValidName
//		-> ok, empty, NameMax-1, NameMax, slash

func initUut(n uint32) Table {
	return MkTable(n)
}

func freeInode() Inode {
	i := Inode{}
	i.Reset()
	return i
}

// Covers:
//	-> alloci/1alloc
func TestFreshTable(tt *testing.T) {
	t := initUut(4)
	if t[RootInum].Mode != Dir {
		tt.Errorf("root is %v, wanted DIR", t[RootInum].Mode)
	}
	for i := 1; i < 4; i++ {
		if !cmp.Equal(freeInode(), t[i]) {
			tt.Errorf("slot %d not clean: %s", i, cmp.Diff(freeInode(), t[i]))
		}
	}

	id, err := t.Alloci(File)
	if err != nil || id != 1 {
		tt.Errorf("got inode %d (%v), wanted 1", id, err)
	}
}

// Covers:
//	-> alloci/manyallocs
//	-> alloci/prevreleased
//	-> alloci/full
func TestAllocReuse(tt *testing.T) {
	t := initUut(4)
	for want := int32(1); want < 4; want++ {
		id, err := t.Alloci(Dir)
		if err != nil || id != want {
			tt.Fatalf("got inode %d (%v), wanted %d", id, err, want)
		}
	}
	if _, err := t.Alloci(File); !errors.Is(err, errs.ErrNoSpace) {
		tt.Errorf("full table gave %v", err)
	}
	if t.Nfree() != 0 {
		tt.Errorf("nfree %d on a full table", t.Nfree())
	}

	t[2].Reset()
	id, err := t.Alloci(File)
	if err != nil || id != 2 {
		tt.Errorf("got inode %d (%v), wanted freed slot 2", id, err)
	}
}

// Covers:
//	-> attach/empty
//	-> attach/partial
//	-> attach/full
func TestAttach(tt *testing.T) {
	i := freeInode()
	for k := 0; k < NDirect; k++ {
		if err := i.Attach(int32(k + 10)); err != nil {
			tt.Fatalf("attach %d: %v", k, err)
		}
		if i.Naddrs() != k+1 {
			tt.Errorf("naddrs %d after %d attaches", i.Naddrs(), k+1)
		}
	}
	if err := i.Attach(99); !errors.Is(err, errs.ErrNoSpace) {
		tt.Errorf("attach to a full inode gave %v", err)
	}
}

// Covers:
//	-> detach/first
//	-> detach/middle
//	-> detach/last
//	-> detach/absent
func TestDetachKeepsOrder(tt *testing.T) {
	i := freeInode()
	for _, id := range []int32{5, 6, 7, 8} {
		i.Attach(id)
	}

	if !i.Detach(6) {
		tt.Errorf("6 not found")
	}
	if !cmp.Equal([]int32{5, 7, 8}, i.Used()) {
		tt.Errorf("after middle detach: %v", i.Used())
	}
	i.Detach(5)
	i.Detach(8)
	if !cmp.Equal([]int32{7}, i.Used()) {
		tt.Errorf("after end detaches: %v", i.Used())
	}
	if i.Detach(42) {
		tt.Errorf("detached an id that was never attached")
	}
	i.Attach(9)
	if !cmp.Equal([]int32{7, 9}, i.Used()) {
		tt.Errorf("reattach landed out of order: %v", i.Used())
	}
}

// Covers:
//	-> validname/*
func TestValidName(tt *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"a", true},
		{strings.Repeat("n", NameMax-1), true},
		{"", false},
		{strings.Repeat("n", NameMax), false},
		{"a/b", false},
	}
	for _, c := range cases {
		name, ok := c.name, c.ok
		err := ValidName(name)
		if ok && err != nil {
			tt.Errorf("%q rejected: %v", name, err)
		}
		if !ok && !errors.Is(err, errs.ErrNotFound) {
			tt.Errorf("%q gave %v", name, err)
		}
	}
}

func TestChild(tt *testing.T) {
	t := initUut(4)
	a, _ := t.Alloci(Dir)
	t[a].Name = "a"
	t[a].Parent = RootInum
	t[RootInum].Attach(a)

	if id, ok := t.Child(RootInum, "a"); !ok || id != a {
		tt.Errorf("child a: %d %v", id, ok)
	}
	if _, ok := t.Child(RootInum, "b"); ok {
		tt.Errorf("found a child that does not exist")
	}
}
