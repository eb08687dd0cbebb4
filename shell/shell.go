// Package shell is the line-oriented front end: one command
// per line in, plain text out. It owns no state beyond what
// it is handed.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"slotfs/bio"
	"slotfs/errs"
	"slotfs/fs"
	"slotfs/imgstore"

	"github.com/dustin/go-humanize"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("shell")

const helpText = "Unknown command\nValid commands:\nlist\nmkfile\nmkdir\ncp\nrm\nexport\nimport\nwritef\nreadf\ndump\ndf\nexit\n"

type Shell struct {
	FS     *fs.Filesystem
	Store  imgstore.Store
	Out    io.Writer
	Prompt string
}

// Run executes lines from r until exit, quit or end of input
func (s *Shell) Run(ctx context.Context, r io.Reader) error {
	rdr := bufio.NewReader(r)
	for {
		fmt.Fprint(s.Out, s.Prompt)
		line, err := rdr.ReadString('\n')
		if strings.TrimSpace(line) != "" && s.Exec(ctx, line) {
			return nil
		}
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// next splits off the first space-separated word
func next(s string) (string, string) {
	s = strings.TrimLeft(s, " ")
	word, rest, _ := strings.Cut(s, " ")
	return word, rest
}

// Exec runs one command line and reports whether the shell
// should stop.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	line = strings.TrimRight(line, "\r\n")
	cmd, rest := next(line)
	var err error

	switch cmd {
	case "mkdir", "mkfile":
		p, _ := next(rest)
		if p == "" {
			goto badcmd
		}
		if cmd == "mkdir" {
			err = s.FS.Mkdir(p)
		} else {
			err = s.FS.Mkfile(p)
		}

	case "cp":
		src, rest := next(rest)
		dst, _ := next(rest)
		if src == "" || dst == "" {
			goto badcmd
		}
		err = s.FS.Cp(src, dst)

	case "list":
		p, _ := next(rest)
		if p == "" {
			p = "/"
		}
		var out string
		if out, err = s.FS.List(p); err == nil {
			io.WriteString(s.Out, out)
		}

	case "writef":
		// the text is the rest of the line, spaces and all
		p, text := next(rest)
		if p == "" {
			goto badcmd
		}
		_, err = s.FS.Writef(p, []byte(text))

	case "readf":
		p, _ := next(rest)
		if p == "" {
			goto badcmd
		}
		var data []byte
		data, err = s.FS.Readf(p)
		if err == nil || errors.Is(err, errs.ErrEmpty) {
			s.Out.Write(data)
			fmt.Fprintln(s.Out)
			err = nil
		}

	case "rm":
		p, _ := next(rest)
		if p == "" {
			goto badcmd
		}
		err = s.FS.Rm(p)

	case "import", "export":
		p, ext := next(rest)
		ext = strings.TrimLeft(ext, " ")
		if p == "" || ext == "" {
			goto badcmd
		}
		if cmd == "import" {
			err = s.FS.Import(p, ext)
		} else {
			err = s.FS.Export(p, ext)
		}

	case "dump":
		if s.Store == nil {
			fmt.Fprintln(s.Out, "no image store")
			return false
		}
		err = s.Store.Save(ctx, s.FS.Image())

	case "df":
		s.df()

	case "exit", "quit":
		return true

	default:
		io.WriteString(s.Out, helpText)
	}

	if err != nil {
		log.Debugf("%s: %v", cmd, err)
		fmt.Fprintln(s.Out, errs.Code(err))
	}
	return false

badcmd:
	fmt.Fprintln(s.Out, "Invalid arguments!")
	return false
}

func (s *Shell) df() {
	u := s.FS.Image().Usage()
	fmt.Fprintf(s.Out, "slots:  %s of %s each\n", humanize.Comma(int64(u.Capacity)), humanize.IBytes(bio.BlockSize))
	fmt.Fprintf(s.Out, "inodes: %s used, %s free\n", humanize.Comma(int64(u.UsedInodes)), humanize.Comma(int64(u.FreeInodes)))
	fmt.Fprintf(s.Out, "blocks: %s used, %s free\n", humanize.Comma(int64(u.UsedBlocks)), humanize.Comma(int64(u.FreeBlocks)))
	fmt.Fprintf(s.Out, "stored: %s of %s\n",
		humanize.IBytes(u.BytesStored), humanize.IBytes(uint64(u.Capacity)*bio.BlockSize))
}
