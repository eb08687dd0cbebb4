package fs

import (
	"fmt"
	"strings"

	"slotfs/errs"
	"slotfs/inode"
)

func (f *Filesystem) Mkdir(path string) error {
	_, err := f.create(path, inode.Dir)
	return errs.Wrap("mkdir", path, err)
}

func (f *Filesystem) Mkfile(path string) error {
	_, err := f.create(path, inode.File)
	return errs.Wrap("mkfile", path, err)
}

func (f *Filesystem) create(path string, mode inode.IType) (int32, error) {
	pdir, name, err := Split(path)
	if err != nil {
		return inode.Empty, err
	}
	parent, err := f.lookupDir(pdir)
	if err != nil {
		return inode.Empty, err
	}
	return f.createIn(parent, name, mode)
}

// createIn makes an empty inode called name under parent.
// If the parent is full the new slot goes straight back to
// the free pool.
func (f *Filesystem) createIn(parent int32, name string, mode inode.IType) (int32, error) {
	if err := inode.ValidName(name); err != nil {
		return inode.Empty, err
	}
	if _, ok := f.img.Inodes.Child(parent, name); ok {
		return inode.Empty, fmt.Errorf("%q: %w", name, errs.ErrExist)
	}

	id, err := f.img.Inodes.Alloci(mode)
	if err != nil {
		return inode.Empty, err
	}
	if err := f.geti(parent).Attach(id); err != nil {
		f.geti(id).Reset()
		return inode.Empty, err
	}

	ino := f.geti(id)
	ino.Name = name
	ino.Parent = parent
	log.Debugf("created %v %q as inode %d under %d", mode, name, id, parent)
	return id, nil
}

// List renders one "FIL name" or "DIR name" line per child,
// in the order the children were created.
func (f *Filesystem) List(path string) (string, error) {
	id, err := f.lookupDir(path)
	if err != nil {
		return "", errs.Wrap("list", path, err)
	}

	var b strings.Builder
	for _, c := range f.geti(id).Used() {
		child := f.geti(c)
		if child.Mode == inode.Free {
			continue
		}
		fmt.Fprintf(&b, "%v %s\n", child.Mode, child.Name)
	}
	return b.String(), nil
}

// A plan is what cp learns about the source tree before it
// touches anything: which slots belong to it and how much
// they would cost to duplicate.
type plan struct {
	member []bool
	inodes uint32
	blocks uint32
}

func (f *Filesystem) survey(id int32, depth int, p *plan) error {
	if err := f.tooDeep(depth); err != nil {
		return err
	}
	ino := f.geti(id)
	p.member[id] = true
	p.inodes++
	switch ino.Mode {
	case inode.File:
		p.blocks += uint32(ino.Naddrs())
	case inode.Dir:
		for _, c := range ino.Used() {
			if err := f.survey(c, depth+1, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cp copies src, and everything under it, to dst. It checks
// up front that there are enough free inodes and blocks for
// the whole tree. A failure after that keeps whatever was
// copied so far, unless transactions are on.
//
// Only the slots that made up src when cp started are
// copied, so copying a directory into itself terminates.
func (f *Filesystem) Cp(src, dst string) (err error) {
	defer func() {
		err = errs.Wrap("cp", src+" "+dst, err)
	}()

	sid, err := f.Lookup(src)
	if err != nil {
		return err
	}

	p := &plan{member: make([]bool, f.img.Capacity)}
	if err := f.survey(sid, 0, p); err != nil {
		return err
	}
	freeInodes, freeBlocks := f.img.Inodes.Nfree(), f.img.Balloc.Free.Count()
	if p.inodes > freeInodes || p.blocks > freeBlocks {
		return fmt.Errorf("need %d inodes and %d blocks, have %d and %d: %w",
			p.inodes, p.blocks, freeInodes, freeBlocks, errs.ErrNoSpace)
	}

	pdir, name, err := Split(dst)
	if err != nil {
		return err
	}
	parent, err := f.lookupDir(pdir)
	if err != nil {
		return err
	}

	t := f.begin()
	defer t.Finish(&err)
	return f.copyi(sid, parent, name, 0, p)
}

func (f *Filesystem) copyi(src, parent int32, name string, depth int, p *plan) error {
	if err := f.tooDeep(depth); err != nil {
		return err
	}

	// Addrs is an array, so this is a snapshot
	addrs := f.geti(src).Addrs
	mode := f.geti(src).Mode

	nid, err := f.createIn(parent, name, mode)
	if err != nil {
		return err
	}

	for _, a := range addrs {
		if a == inode.Empty {
			break
		}
		switch mode {
		case inode.File:
			bn, err := f.img.AllocBlock()
			if err != nil {
				return err
			}
			f.img.Blocks[bn].Bcopy(&f.img.Blocks[a])
			ni := f.geti(nid)
			if err := ni.Attach(bn); err != nil {
				f.img.RelseBlock(bn)
				return err
			}
			ni.Size += uint32(f.img.Blocks[bn].Len)
		case inode.Dir:
			if !p.member[a] {
				continue
			}
			if err := f.copyi(a, nid, f.geti(a).Name, depth+1, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// Rm removes path and, for a directory, everything below it,
// children before parents. The root cannot be removed.
func (f *Filesystem) Rm(path string) error {
	id, err := f.Lookup(path)
	if err != nil {
		return errs.Wrap("rm", path, err)
	}
	if id == inode.RootInum {
		return errs.Wrap("rm", path, fmt.Errorf("cannot remove the root: %w", errs.ErrNotFound))
	}
	return errs.Wrap("rm", path, f.rmi(id, 0))
}

func (f *Filesystem) rmi(id int32, depth int) error {
	if err := f.tooDeep(depth); err != nil {
		return err
	}

	ino := f.geti(id)
	switch ino.Mode {
	case inode.Dir:
		children := ino.Addrs
		for _, c := range children {
			if c == inode.Empty {
				break
			}
			if err := f.rmi(c, depth+1); err != nil {
				return err
			}
		}
	case inode.File:
		f.truncate(id)
	}

	if p := f.img.Inodes.Geti(ino.Parent); p != nil {
		p.Detach(id)
	}
	log.Debugf("removed %v %q (inode %d)", ino.Mode, ino.Name, id)
	ino.Reset()
	return nil
}
