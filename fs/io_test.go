package fs

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"slotfs/bio"
	"slotfs/errs"

	"github.com/stretchr/testify/require"
)

// Partitions:
//	-> Import
//		-> new file, existing file (overwritten), existing empty file
//		-> host file absent, host file empty (=FAIL)
//		-> internal parent absent, internal path is a dir (=FAIL)
//		-> too big, transactions on and off
//	-> Export
//		-> many blocks, empty file
//		-> absent, dir, host create fails, short write (=FAIL)

func hostFile(tt *testing.T, name string, data []byte) string {
	p := filepath.Join(tt.TempDir(), name)
	require.NoError(tt, os.WriteFile(p, data, 0o644))
	return p
}

// Covers:
//	-> import/new
//	-> import/existing
//	-> export/manyblocks
func TestImportExport(tt *testing.T) {
	f := initUut(tt, 32)
	data := bytes.Repeat([]byte{0, 1, 2, 0xff}, 1500)
	require.NoError(tt, f.Import("/bin", hostFile(tt, "in", data)))

	got, err := f.Readf("/bin")
	require.NoError(tt, err)
	require.Equal(tt, data, got)

	// import overwrites even though writef appends
	require.NoError(tt, f.Import("/bin", hostFile(tt, "small", []byte("short"))))
	got, err = f.Readf("/bin")
	require.NoError(tt, err)
	require.Equal(tt, "short", string(got))
	require.Equal(tt, uint32(31), f.Image().FreeBlocks())

	out := filepath.Join(tt.TempDir(), "out")
	require.NoError(tt, f.Import("/bin", hostFile(tt, "again", data)))
	require.NoError(tt, f.Export("/bin", out))
	onDisk, err := os.ReadFile(out)
	require.NoError(tt, err)
	require.Equal(tt, data, onDisk)
	requireSane(tt, f)
}

// Covers:
//	-> import/existingempty
//	-> export/emptyfile
func TestImportIntoEmpty(tt *testing.T) {
	f := initUut(tt, 8)
	require.NoError(tt, f.Mkfile("/e"))
	out := filepath.Join(tt.TempDir(), "out")
	require.NoError(tt, f.Export("/e", out))
	onDisk, err := os.ReadFile(out)
	require.NoError(tt, err)
	require.Empty(tt, onDisk)

	require.NoError(tt, f.Import("/e", hostFile(tt, "in", []byte("x"))))
	got, err := f.Readf("/e")
	require.NoError(tt, err)
	require.Equal(tt, "x", string(got))
}

// Covers:
//	-> import/hostabsent
//	-> import/hostempty
//	-> import/parentabsent
//	-> import/dir
func TestImportFails(tt *testing.T) {
	f := initUut(tt, 8)
	require.NoError(tt, f.Mkdir("/d"))
	good := hostFile(tt, "good", []byte("data"))

	require.ErrorIs(tt, f.Import("/x", filepath.Join(tt.TempDir(), "missing")), errs.ErrNotFound)
	require.ErrorIs(tt, f.Import("/x", hostFile(tt, "empty", nil)), errs.ErrNotFound)
	require.ErrorIs(tt, f.Import("/nope/x", good), errs.ErrNotFound)
	require.ErrorIs(tt, f.Import("/d", good), errs.ErrNotFound)

	_, err := f.Lookup("/x")
	require.ErrorIs(tt, err, errs.ErrNotFound, "failed import must not create the file")
	requireSane(tt, f)
}

// Covers:
//	-> import/toobig
//	-> import/txn
func TestImportTooBig(tt *testing.T) {
	big := hostFile(tt, "big", make([]byte, 5*bio.BlockSize))

	f := initUut(tt, 4)
	require.ErrorIs(tt, f.Import("/f", big), errs.ErrNoSpace)
	got, err := f.Readf("/f")
	require.NoError(tt, err)
	require.Equal(tt, 4*bio.BlockSize, len(got))
	requireSane(tt, f)

	g := initUut(tt, 4, WithTransactions(true))
	require.ErrorIs(tt, g.Import("/f", big), errs.ErrNoSpace)
	_, err = g.Lookup("/f")
	require.ErrorIs(tt, err, errs.ErrNotFound)
	require.Equal(tt, uint32(4), g.Image().FreeBlocks())
	requireSane(tt, g)
}

type shortWriter struct {
	limit  int
	closed bool
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		return w.limit, io.ErrShortWrite
	}
	w.limit -= len(p)
	return len(p), nil
}

func (w *shortWriter) Close() error {
	w.closed = true
	return nil
}

type fakeHost struct {
	w   *shortWriter
	err error
}

func (h *fakeHost) ReadFile(string) ([]byte, error) {
	return nil, os.ErrNotExist
}

func (h *fakeHost) Create(string) (io.WriteCloser, error) {
	if h.err != nil {
		return nil, h.err
	}
	return h.w, nil
}

// Covers:
//	-> export/absent
//	-> export/dir
//	-> export/createfails
//	-> export/shortwrite
func TestExportFails(tt *testing.T) {
	h := &fakeHost{w: &shortWriter{limit: bio.BlockSize + 10}}
	f := initUut(tt, 8, WithHost(h))
	require.NoError(tt, f.Mkdir("/d"))
	require.NoError(tt, f.Mkfile("/f"))
	_, err := f.Writef("/f", make([]byte, 3*bio.BlockSize))
	require.NoError(tt, err)

	require.ErrorIs(tt, f.Export("/nope", "x"), errs.ErrNotFound)
	require.ErrorIs(tt, f.Export("/d", "x"), errs.ErrNotFound)
	require.False(tt, h.w.closed)

	err = f.Export("/f", "x")
	require.ErrorIs(tt, err, errs.ErrNoSpace)
	require.True(tt, h.w.closed, "host file left open")

	h.err = errors.New("read-only")
	require.ErrorIs(tt, f.Export("/f", "x"), errs.ErrNotFound)

	require.ErrorIs(tt, f.Import("/g", "x"), errs.ErrNotFound)
}

func TestExportToMissingDir(tt *testing.T) {
	f := initUut(tt, 8)
	require.NoError(tt, f.Mkfile("/f"))
	bad := filepath.Join(tt.TempDir(), "no", "such", "dir", "out")
	require.ErrorIs(tt, f.Export("/f", bad), errs.ErrNotFound)
}
