package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelapi.dev/internal/protocol"
)

// ErrStop ends a ReadFile walk early without error.
var ErrStop = errors.New("journal: stop")

// ListFiles returns the journal files in dir, oldest first.
func ListFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, FilePrefix+"-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// ReadFile calls fn for every entry of one journal file.
func ReadFile(path string, fn func(protocol.ExplosionEvent) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		var entry protocol.ExplosionEvent
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return fmt.Errorf("%s:%d: unmarshal: %w", filepath.Base(path), line, err)
		}
		if err := fn(entry); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	return sc.Err()
}

// ReadDir walks every journal file in dir in order.
func ReadDir(dir string, fn func(protocol.ExplosionEvent) error) error {
	files, err := ListFiles(dir)
	if err != nil {
		return err
	}
	stopped := false
	for _, p := range files {
		err := ReadFile(p, func(e protocol.ExplosionEvent) error {
			err := fn(e)
			if errors.Is(err, ErrStop) {
				stopped = true
			}
			return err
		})
		if err != nil {
			return err
		}
		if stopped {
			return nil
		}
	}
	return nil
}
