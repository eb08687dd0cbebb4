package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slotfs/fs"
	"slotfs/image"
	"slotfs/imgstore"

	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"
)

// Partitions:
//	-> Exec
//		-> each command ok
//		-> each failure message: not found!, failed
//		-> missing arguments, unknown command, blank line
//	-> Run
//		-> ends on exit, ends on EOF without exit

func initUut(tt *testing.T) (*Shell, *bytes.Buffer) {
	img, err := image.New(16)
	require.NoError(tt, err)
	out := &bytes.Buffer{}
	return &Shell{
		FS:    fs.Mount(img),
		Store: imgstore.NewDatastoreStore(dssync.MutexWrap(ds.NewMapDatastore()), "shell"),
		Out:   out,
	}, out
}

func run(tt *testing.T, s *Shell, script string) {
	require.NoError(tt, s.Run(context.Background(), strings.NewReader(script)))
}

// Covers:
//	-> exec/ok
//	-> run/eof
func TestSession(tt *testing.T) {
	s, out := initUut(tt)
	run(tt, s, strings.Join([]string{
		"mkdir /docs",
		"mkfile /docs/note",
		"writef /docs/note hello there",
		"writef /docs/note  again",
		"readf /docs/note",
		"cp /docs /copy",
		"list /",
		"list /copy",
		"rm /docs",
		"list",
	}, "\n"))

	want := "hello there again\n" +
		"DIR docs\nDIR copy\n" +
		"FIL note\n" +
		"DIR copy\n"
	require.Equal(tt, want, out.String())
}

// Covers:
//	-> exec/failures
func TestFailureMessages(tt *testing.T) {
	s, out := initUut(tt)
	run(tt, s, "mkfile /f\nmkfile /f\nrm /\nreadf /missing\nlist /f\nreadf /f\n")
	require.Equal(tt, "failed\nnot found!\nnot found!\nnot found!\n\n", out.String())
}

// Covers:
//	-> exec/missingargs
//	-> exec/unknown
//	-> exec/blank
//	-> run/exit
func TestBadInput(tt *testing.T) {
	s, out := initUut(tt)
	run(tt, s, "mkdir\ncp /a\n\nfrobnicate\nexit\nmkdir /never\n")
	require.Equal(tt, "Invalid arguments!\nInvalid arguments!\n"+helpText, out.String())
	_, err := s.FS.Lookup("/never")
	require.Error(tt, err, "commands after exit must not run")
}

func TestImportExportDump(tt *testing.T) {
	s, out := initUut(tt)
	dir := tt.TempDir()
	in := filepath.Join(dir, "in file.txt")
	require.NoError(tt, os.WriteFile(in, []byte("from the host"), 0o644))
	exported := filepath.Join(dir, "out.txt")

	run(tt, s, "import /h "+in+"\nexport /h "+exported+"\ndump\ndf\n")
	got, err := os.ReadFile(exported)
	require.NoError(tt, err)
	require.Equal(tt, "from the host", string(got))

	img, err := s.Store.Load(context.Background())
	require.NoError(tt, err)
	data, err := fs.Mount(img).Readf("/h")
	require.NoError(tt, err)
	require.Equal(tt, "from the host", string(data))

	require.Contains(tt, out.String(), "inodes: 2 used, 14 free")
	require.Contains(tt, out.String(), "blocks: 1 used, 15 free")
	require.Contains(tt, out.String(), "stored: 13 B of 16 KiB")
}
