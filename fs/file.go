package fs

import (
	"fmt"

	"slotfs/errs"
	"slotfs/inode"
)

// Writef appends text to the file at path. It never
// overwrites: the last block's spare room is used up first,
// then fresh blocks are added until the text is all in or
// the file has inode.NDirect blocks. Running out is
// ErrNoSpace, and whatever made it in stays in unless
// transactions are on, in which case n is 0.
func (f *Filesystem) Writef(path string, text []byte) (n int, err error) {
	id, err := f.lookupFile(path)
	if err != nil {
		return 0, errs.Wrap("writef", path, err)
	}

	t := f.begin()
	defer t.Finish(&err)
	n, err = f.appendi(id, text)
	if err != nil && t != nil {
		n = 0
	}
	return n, errs.Wrap("writef", path, err)
}

func (f *Filesystem) appendi(id int32, p []byte) (int, error) {
	ino := f.geti(id)
	k := ino.Naddrs()

	// Anything past the first hole is unreachable. A checked
	// image has none, but give them back rather than leak.
	for j := k; j < inode.NDirect; j++ {
		if bn := ino.Addrs[j]; bn != inode.Empty {
			log.Warnf("inode %d: stray block %d after hole at %d", id, bn, k)
			f.img.RelseBlock(bn)
			ino.Addrs[j] = inode.Empty
		}
	}

	n := 0
	if k > 0 {
		w := f.img.Blocks[ino.Addrs[k-1]].Bappend(p)
		ino.Size += uint32(w)
		n += w
	}

	for n < len(p) && k < inode.NDirect {
		bn, err := f.img.AllocBlock()
		if err != nil {
			return n, err
		}
		w := f.img.Blocks[bn].Bappend(p[n:])
		ino.Addrs[k] = bn
		k++
		ino.Size += uint32(w)
		n += w
	}

	if n < len(p) {
		return n, fmt.Errorf("%q is full at %d bytes, %d left unwritten: %w",
			ino.Name, ino.Size, len(p)-n, errs.ErrNoSpace)
	}
	log.Debugf("appended %d bytes to inode %d, size now %d", n, id, ino.Size)
	return n, nil
}

// truncate frees every block of a file and zeroes its size
func (f *Filesystem) truncate(id int32) {
	ino := f.geti(id)
	for j, bn := range ino.Addrs {
		if bn == inode.Empty {
			continue
		}
		f.img.RelseBlock(bn)
		ino.Addrs[j] = inode.Empty
	}
	ino.Size = 0
}

// Readf returns a copy of the whole file. A file with no
// bytes in it is reported as errs.ErrEmpty, which callers
// must not mistake for errs.ErrNotFound.
func (f *Filesystem) Readf(path string) ([]byte, error) {
	id, err := f.lookupFile(path)
	if err != nil {
		return nil, errs.Wrap("readf", path, err)
	}

	ino := f.geti(id)
	total := 0
	for _, bn := range ino.Used() {
		total += int(f.img.Blocks[bn].Len)
	}
	if total == 0 {
		return nil, errs.Wrap("readf", path, errs.ErrEmpty)
	}

	buf := make([]byte, 0, total)
	for _, bn := range ino.Used() {
		buf = append(buf, f.img.Blocks[bn].Bytes()...)
	}
	return buf, nil
}
