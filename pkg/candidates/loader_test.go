package candidates

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
)

func TestDefaultList(t *testing.T) {
	list := Default()
	if len(list) == 0 {
		t.Fatal("embedded list is empty")
	}
	if list[0] != "Apple" {
		t.Errorf("expected first entry Apple, got %q", list[0])
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	want := []string{"Apple", "Banana", "Grape"}

	packed, err := msgpack.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	files := map[string][]byte{
		"fruits.json":    []byte(`["Apple", "Banana", "Grape"]`),
		"fruits.txt":     []byte("Apple\n\n  Banana  \n# comment\nGrape\n"),
		"fruits.msgpack": packed,
	}

	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, body, 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path, Options{})
			if err != nil {
				t.Fatalf("Load(%s): %v", name, err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadUnique(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupes.json")
	if err := os.WriteFile(path, []byte(`["Apple", "apple", "Banana", "APPLE"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path, Options{Unique: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Apple", "Banana"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	kept, err := Load(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 4 {
		t.Errorf("duplicates should be kept by default, got %v", kept)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "list.csv"), Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.json"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"not": "a list"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad, Options{}); err == nil {
		t.Error("expected decode error for a JSON object")
	}
}

func TestLoadEmptyList(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"empty.txt":  "\n# nothing here\n\n",
		"empty.json": "[]",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		list, err := Load(path, Options{})
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
			continue
		}
		if list == nil || len(list) != 0 {
			t.Errorf("%s: expected an empty non-nil list, got %#v", name, list)
		}
	}
}

func TestLoadLongTextLine(t *testing.T) {
	long := strings.Repeat("a", 200*1024)
	path := filepath.Join(t.TempDir(), "long.txt")
	if err := os.WriteFile(path, []byte("Apple\n"+long+"\nGrape\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Apple", long, "Grape"}, list); diff != "" {
		t.Errorf("unexpected list (-want +got):\n%s", diff)
	}
}

func TestGetFormatInfo(t *testing.T) {
	for _, format := range []FileFormat{FormatJSON, FormatText, FormatMsgpack} {
		info, ok := GetFormatInfo(format)
		if !ok {
			t.Fatalf("no info for %v", format)
		}
		for _, ext := range info.Extensions {
			detected, err := DetectFileFormat("list" + ext)
			if err != nil || detected != format {
				t.Errorf("DetectFileFormat(%q) = %v, %v; expected %v", "list"+ext, detected, err, format)
			}
		}
	}
	if _, ok := GetFormatInfo(FormatUnknown); ok {
		t.Error("FormatUnknown should have no info")
	}
}
