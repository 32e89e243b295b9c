package document

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxLineSize bounds a single line read from disk
const maxLineSize = 1024 * 1024

// Document is a file snapshot split into lines
type Document struct {
	Path  string
	Lines []string
}

// LineCount returns the number of lines
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// LineAt returns line i without its line terminator
func (d *Document) LineAt(i int) string {
	return d.Lines[i]
}

// Ext returns the lowercased file extension without the dot
func (d *Document) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Path)), ".")
}

// FromString splits text into a document with no path
func FromString(text string) *Document {
	return &Document{Lines: splitLines(text)}
}

// Load reads a single file
func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, path)
}

// Read reads a document from r. path is only recorded, not opened.
func Read(r io.Reader, path string) (*Document, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Document{Path: path, Lines: lines}, nil
}

// LoadDir recursively loads every file under dir whose extension is in exts.
// An empty exts loads every regular file. Documents are sorted by path.
func LoadDir(dir string, exts []string) ([]*Document, error) {
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		want[strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}

	var docs []*Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(want) > 0 && !want[strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")] {
			return nil
		}

		doc, err := Load(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// LoadPath loads path as a file, or as a directory via LoadDir
func LoadPath(path string, exts []string) ([]*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path, exts)
	}
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return []*Document{doc}, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
