package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"slotfs/config"
	"slotfs/fs"
	"slotfs/image"
	"slotfs/imgstore"
	"slotfs/shell"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("slotfs")

type mode int

const (
	modeCreate mode = iota
	modeLoad
	modeHelp
)

type invocation struct {
	mode     mode
	path     string
	capacity uint32
}

func parseArgs(a []string, cfg *config.Config) (invocation, error) {
	if len(a) < 2 {
		return invocation{}, errors.New("no arguments given, you must either load an image or create a new one")
	}

	switch a[1] {
	case "-c", "--create":
		if len(a) < 3 {
			return invocation{}, errors.New("not enough arguments given")
		}
		inv := invocation{mode: modeCreate, path: a[2], capacity: cfg.Capacity}
		if len(a) > 3 {
			n, err := strconv.ParseUint(a[3], 10, 32)
			if err != nil || n == 0 {
				return invocation{}, fmt.Errorf("bad capacity %q", a[3])
			}
			inv.capacity = uint32(n)
		}
		return inv, nil
	case "-l", "--load":
		if len(a) < 3 {
			return invocation{}, errors.New("not enough arguments given")
		}
		return invocation{mode: modeLoad, path: a[2]}, nil
	case "-h", "--help":
		return invocation{mode: modeHelp}, nil
	}
	return invocation{}, fmt.Errorf("unknown argument %q", a[1])
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openStore(cfg *config.Config, path string) (imgstore.Store, io.Closer, error) {
	if cfg.Backend == config.BackendLevelDB {
		s, err := imgstore.OpenLevelDB(path, "default")
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return &imgstore.FileStore{Path: path}, nopCloser{}, nil
}

func openImage(ctx context.Context, inv invocation, s imgstore.Store) (*image.Image, error) {
	if inv.mode == modeCreate {
		return imgstore.Create(ctx, s, inv.capacity)
	}
	return s.Load(ctx)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: slotfs -c <image> [capacity] | -l <image> | -h\n")
	fmt.Fprintf(w, "  -c, --create  create a new image with capacity slots\n")
	fmt.Fprintf(w, "  -l, --load    load an existing image\n")
	fmt.Fprintf(w, "Config is read from $%s if set.\n", config.EnvConfig)
}

func printUsageMsgAndDie(err error) {
	printUsage(os.Stderr)
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load(os.Getenv(config.EnvConfig))
	if err != nil {
		printUsageMsgAndDie(err)
	}
	if err := logging.SetLogLevel("*", cfg.LogLevel); err != nil {
		printUsageMsgAndDie(err)
	}

	inv, err := parseArgs(os.Args, cfg)
	if err != nil {
		printUsageMsgAndDie(err)
	}
	if inv.mode == modeHelp {
		printUsage(os.Stdout)
		return
	}

	ctx := context.Background()
	store, closer, err := openStore(cfg, inv.path)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	img, err := openImage(ctx, inv, store)
	if err != nil {
		closer.Close()
		log.Fatal(err)
	}

	sh := &shell.Shell{
		FS:     fs.Mount(img, fs.WithTransactions(cfg.Transactional)),
		Store:  store,
		Out:    os.Stdout,
		Prompt: cfg.Prompt,
	}
	if err := sh.Run(ctx, os.Stdin); err != nil {
		log.Error(err)
	}
}
