package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/facebookgo/atomicfile"
)

// EnvConfig names the config file when set
const EnvConfig = "SLOTFS_CONFIG"

const (
	BackendFile    = "file"
	BackendLevelDB = "leveldb"
)

type Config struct {
	Capacity      uint32 // slots in a newly created image
	Backend       string // BackendFile or BackendLevelDB
	Transactional bool   // roll back cp, writef and import on failure
	LogLevel      string // any go-log level name
	Prompt        string
}

func Default() *Config {
	return &Config{
		Capacity: 128,
		Backend:  BackendFile,
		LogLevel: "warn",
		Prompt:   "user@SPR: ",
	}
}

func (c *Config) validate() error {
	if c.Capacity == 0 {
		return fmt.Errorf("capacity must be at least 1")
	}
	switch c.Backend {
	case BackendFile, BackendLevelDB:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// stripComments drops lines whose first non-blank text is //
func stripComments(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "//") {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes(), sc.Err()
}

// Load reads the config at path over the defaults. A missing
// file is not an error; it just means all defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	defer f.Close()

	b, err := stripComments(f)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failure to decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	buf, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	f, err := atomicfile.New(path, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}
