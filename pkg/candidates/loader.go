// Package candidates loads the fixed list of strings the widget filters.
// The list is read once at startup and never modified afterwards.
package candidates

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/autocomplete/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnsupportedFormat is returned for files whose extension is not recognized.
var ErrUnsupportedFormat = errors.New("unsupported candidate file format")

// maxLineBytes bounds a single line of a text list.
const maxLineBytes = 16 << 20

//go:embed default.json
var defaultList []byte

// Options control how a list is post-processed after decoding.
type Options struct {
	// Unique drops entries that repeat an earlier one, ignoring case.
	Unique bool
}

// Default returns the built-in candidate list.
func Default() []string {
	list, err := Decode(bytes.NewReader(defaultList), FormatJSON)
	if err != nil {
		// embedded at build time, can only fail if default.json is edited badly
		panic(fmt.Sprintf("candidates: invalid embedded list: %v", err))
	}
	return list
}

// Load reads a candidate list from path. An empty path yields Default().
func Load(path string, opts Options) ([]string, error) {
	var list []string
	if path == "" {
		log.Debug("No candidate file given, using built-in list")
		list = Default()
	} else {
		format, err := DetectFileFormat(path)
		if err != nil {
			return nil, err
		}
		if info, ok := GetFormatInfo(format); ok {
			log.Debugf("Reading %s as %s (%s)", path, info.Description, strings.Join(info.Extensions, ", "))
		}

		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open candidate file %s: %w", path, err)
		}
		defer file.Close()

		list, err = Decode(file, format)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s as %s: %w", path, format, err)
		}
		log.Debugf("Loaded %d candidates from %s", len(list), path)
	}

	if opts.Unique {
		before := len(list)
		list = utils.Dedupe(list)
		if dropped := before - len(list); dropped > 0 {
			log.Debugf("Dropped %d duplicate candidates", dropped)
		}
	}
	if len(list) == 0 {
		log.Warn("Candidate list is empty, every query will show no matches", "path", path)
		return []string{}, nil
	}
	return list, nil
}

// Decode reads a whole candidate list in the given format.
func Decode(r io.Reader, format FileFormat) ([]string, error) {
	switch format {
	case FormatJSON:
		var list []string
		if err := json.NewDecoder(r).Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	case FormatMsgpack:
		var list []string
		if err := msgpack.NewDecoder(r).Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	case FormatText:
		return decodeText(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// decodeText returns one candidate per non-blank line, trimmed.
func decodeText(r io.Reader) ([]string, error) {
	var list []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list = append(list, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
