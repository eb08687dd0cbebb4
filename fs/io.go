package fs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"slotfs/errs"
	"slotfs/inode"

	"go.uber.org/multierr"
)

// Host is the outside file system that Import reads from and
// Export writes to. External files are opaque bytes.
type Host interface {
	ReadFile(name string) ([]byte, error)
	Create(name string) (io.WriteCloser, error)
}

// OSHost is the real file system
type OSHost struct{}

func (OSHost) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSHost) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// Import replaces the contents of the file at internal with
// the bytes of the host file external, creating it first if
// need be. An unreadable or empty host file is ErrNotFound.
func (f *Filesystem) Import(internal, external string) (err error) {
	defer func() {
		err = errs.Wrap("import", internal, err)
	}()

	data, err := f.host.ReadFile(external)
	if err != nil {
		return fmt.Errorf("reading %s: %v: %w", external, err, errs.ErrNotFound)
	}
	if len(data) == 0 {
		return fmt.Errorf("%s is empty: %w", external, errs.ErrNotFound)
	}

	t := f.begin()
	defer t.Finish(&err)

	if _, err := f.create(internal, inode.File); err != nil && !errors.Is(err, errs.ErrExist) {
		return err
	}
	id, err := f.lookupFile(internal)
	if err != nil {
		return err
	}

	f.truncate(id)
	if _, err = f.appendi(id, data); err != nil {
		return err
	}
	log.Debugf("imported %d bytes from %s into inode %d", len(data), external, id)
	return nil
}

// Export writes the file at internal to the host file
// external, block by block. A short write is ErrNoSpace. The
// host file is always closed.
func (f *Filesystem) Export(internal, external string) (err error) {
	defer func() {
		err = errs.Wrap("export", internal, err)
	}()

	id, err := f.lookupFile(internal)
	if err != nil {
		return err
	}

	w, err := f.host.Create(external)
	if err != nil {
		return fmt.Errorf("creating %s: %v: %w", external, err, errs.ErrNotFound)
	}
	defer func() {
		err = multierr.Append(err, w.Close())
	}()

	for _, bn := range f.geti(id).Used() {
		b := f.img.Blocks[bn].Bytes()
		n, werr := w.Write(b)
		if werr != nil || n != len(b) {
			return fmt.Errorf("short write to %s, %d of %d bytes: %v: %w",
				external, n, len(b), werr, errs.ErrNoSpace)
		}
	}
	return nil
}
