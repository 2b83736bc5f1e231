package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/cnftree/pkg/codec"
)

// ReadList reads a problem list: one path per line. Blank lines and lines
// starting with # are skipped, surrounding whitespace is trimmed.
func ReadList(r io.Reader) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read problem list: %w", err)
	}
	return paths, nil
}

// ReadListFile is ReadList on the named file.
func ReadListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadList(f)
}

// OutputName returns the file name used for the problem at index, e.g. 0.pb
// or 3.json.zst.
func OutputName(index int, format codec.Format, compress bool) string {
	name := strconv.Itoa(index) + "." + format.Ext()
	if compress {
		name += codec.CompressedExt
	}
	return name
}
