package fs

import (
	"fmt"
	"strings"

	"slotfs/errs"
	"slotfs/inode"
)

// MaxPath bounds every path handed to the file system.
// Longer paths are refused, never cut short.
const MaxPath = 1024

func checkPath(path string) error {
	switch {
	case path == "":
		return fmt.Errorf("empty path: %w", errs.ErrNotFound)
	case len(path) >= MaxPath:
		return fmt.Errorf("path longer than %d bytes: %w", MaxPath-1, errs.ErrNotFound)
	}
	return nil
}

// Lookup walks path from the root and returns the inode it
// names. Empty segments are skipped, so "/", "//" and "/a/"
// are all fine.
func (f *Filesystem) Lookup(path string) (int32, error) {
	if err := checkPath(path); err != nil {
		return inode.Empty, err
	}

	d := inode.RootInum
	for _, el := range strings.Split(path, "/") {
		if el == "" {
			continue
		}
		if f.geti(d).Mode != inode.Dir {
			return inode.Empty, fmt.Errorf("can't walk file %q: %w", f.geti(d).Name, errs.ErrNotFound)
		}
		c, ok := f.img.Inodes.Child(d, el)
		if !ok {
			return inode.Empty, fmt.Errorf("no such file or directory %q: %w", el, errs.ErrNotFound)
		}
		d = c
	}
	return d, nil
}

func (f *Filesystem) lookupMode(path string, mode inode.IType) (int32, error) {
	id, err := f.Lookup(path)
	if err != nil {
		return id, err
	}
	if m := f.geti(id).Mode; m != mode {
		return inode.Empty, fmt.Errorf("is a %v, wanted a %v: %w", m, mode, errs.ErrNotFound)
	}
	return id, nil
}

func (f *Filesystem) lookupDir(path string) (int32, error) {
	return f.lookupMode(path, inode.Dir)
}

func (f *Filesystem) lookupFile(path string) (int32, error) {
	return f.lookupMode(path, inode.File)
}

// Split cuts an absolute path into its parent directory and
// leaf name. It only looks at the string.
func Split(path string) (string, string, error) {
	if err := checkPath(path); err != nil {
		return "", "", err
	}
	if path[0] != '/' {
		return "", "", fmt.Errorf("%q is not absolute: %w", path, errs.ErrNotFound)
	}
	if path[len(path)-1] == '/' {
		return "", "", fmt.Errorf("%q ends in a slash: %w", path, errs.ErrNotFound)
	}

	i := strings.LastIndexByte(path, '/')
	parent, name := path[:i], path[i+1:]
	if parent == "" {
		parent = "/"
	}
	return parent, name, nil
}
