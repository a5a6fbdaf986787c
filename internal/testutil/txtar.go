// Package testutil provides golden-file helpers for generator tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// InputFile is the archive member holding the catalog manifest.
const InputFile = "catalog.yaml"

// Case represents a parsed test case from a txtar archive.
type Case struct {
	// Name is the test case name (the file name without extension).
	Name string

	// Path is the archive file the case was loaded from.
	Path string

	// Description is the comment block before any files.
	Description string

	// Flags contains any flags parsed from a "Flags: ..." line in the
	// description.
	Flags []string

	// Input is the contents of catalog.yaml.
	Input []byte

	// Want maps generated file names (e.g. "api.ts") to expected content.
	Want map[string][]byte

	archive *txtar.Archive
}

// ParseCase parses a txtar archive into a test Case.
// The archive must contain a catalog.yaml file and one or more want/<file>
// entries. The description may contain a "Flags: a, b" line.
func ParseCase(name string, ar *txtar.Archive) (*Case, error) {
	c := &Case{
		Name:        name,
		Description: string(ar.Comment),
		Want:        make(map[string][]byte),
		archive:     ar,
	}
	c.parseFlags()

	for _, f := range ar.Files {
		switch {
		case f.Name == InputFile:
			c.Input = f.Data
		case strings.HasPrefix(f.Name, "want/"):
			c.Want[strings.TrimPrefix(f.Name, "want/")] = f.Data
		default:
			return nil, fmt.Errorf("unexpected file in archive: %q (expected %s or want/*)", f.Name, InputFile)
		}
	}

	if c.Input == nil {
		return nil, fmt.Errorf("missing %s in archive", InputFile)
	}
	if len(c.Want) == 0 {
		return nil, fmt.Errorf("missing want/* files in archive")
	}
	return c, nil
}

func (c *Case) parseFlags() {
	for _, line := range strings.Split(c.Description, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "Flags:")
		if !ok {
			continue
		}
		for _, f := range strings.Split(rest, ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.Flags = append(c.Flags, f)
			}
		}
		return
	}
}

// HasFlag reports whether the case lists flag.
func (c *Case) HasFlag(flag string) bool {
	for _, f := range c.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// FlagValues returns the values of "name=value" flags with the given name.
func (c *Case) FlagValues(name string) []string {
	var out []string
	for _, f := range c.Flags {
		if v, ok := strings.CutPrefix(f, name+"="); ok {
			out = append(out, v)
		}
	}
	return out
}

// GenerateFunc generates files from a case. It returns file name to content.
type GenerateFunc func(c *Case) (map[string][]byte, error)

// Run executes the case and compares the output with the expected files.
// When update is set, the archive is rewritten with the generated output
// instead.
func (c *Case) Run(t *testing.T, generate GenerateFunc, update bool) {
	t.Helper()

	got, err := generate(c)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if update {
		if err := os.WriteFile(c.Path, txtar.Format(c.updated(got)), 0o644); err != nil {
			t.Fatalf("update %s: %v", c.Path, err)
		}
		return
	}

	for name := range c.Want {
		if _, ok := got[name]; !ok {
			t.Errorf("missing output file: %q", name)
		}
	}
	for name := range got {
		if _, ok := c.Want[name]; !ok {
			t.Errorf("unexpected output file: %q", name)
		}
	}
	for name, want := range c.Want {
		g, ok := got[name]
		if !ok {
			continue
		}
		if diff := cmp.Diff(normalize(want), normalize(g)); diff != "" {
			t.Errorf("file %q mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func (c *Case) updated(got map[string][]byte) *txtar.Archive {
	ar := &txtar.Archive{Comment: c.archive.Comment}
	ar.Files = append(ar.Files, txtar.File{Name: InputFile, Data: c.Input})

	names := make([]string, 0, len(got))
	for name := range got {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data := got[name]
		if len(data) > 0 && data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		ar.Files = append(ar.Files, txtar.File{Name: "want/" + name, Data: data})
	}
	return ar
}

// normalize trims trailing newlines, which txtar adds to every file.
func normalize(content []byte) string {
	return strings.TrimRight(string(content), "\n")
}

// LoadCases loads all txtar cases from dir, sorted by name.
func LoadCases(t *testing.T, dir string) []*Case {
	t.Helper()

	pattern := filepath.Join(dir, "*.txtar")
	files, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("glob %q: %v", pattern, err)
	}
	if len(files) == 0 {
		t.Fatalf("no txtar files found in %q", dir)
	}

	var cases []*Case
	for _, file := range files {
		ar, err := txtar.ParseFile(file)
		if err != nil {
			t.Fatalf("parse %q: %v", file, err)
		}
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		c, err := ParseCase(name, ar)
		if err != nil {
			t.Fatalf("parse case %q: %v", name, err)
		}
		c.Path = file
		cases = append(cases, c)
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Name < cases[j].Name
	})
	return cases
}
