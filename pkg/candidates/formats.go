package candidates

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileFormat represents the supported candidate list encodings
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatJSON               // JSON array of strings
	FormatText               // one candidate per line
	FormatMsgpack            // msgpack array of strings
)

// FormatInfo contains metadata about a candidate file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatJSON: {
		Format:      FormatJSON,
		Description: "JSON string array",
		Extensions:  []string{".json"},
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain text, one entry per line",
		Extensions:  []string{".txt", ".list"},
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "MessagePack string array",
		Extensions:  []string{".msgpack", ".mpk"},
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFileFormat picks the format from the file extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s: %w", filename, ErrUnsupportedFormat)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
