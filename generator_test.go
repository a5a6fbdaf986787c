package axiosgen

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"

	"github.com/broady/axiosgen/internal/gitsync"
	"github.com/broady/axiosgen/internal/testutil"
	"github.com/broady/axiosgen/ir"
	"github.com/broady/axiosgen/provider"
	"github.com/broady/axiosgen/sink"
)

var update = flag.Bool("update", false, "rewrite golden files in testdata")

func TestGenerateGolden(t *testing.T) {
	for _, c := range testutil.LoadCases(t, "testdata") {
		t.Run(c.Name, func(t *testing.T) {
			c.Run(t, generateCase, *update)
		})
	}
}

func generateCase(c *testutil.Case) (map[string][]byte, error) {
	m, err := provider.ParseManifest(c.Input)
	if err != nil {
		return nil, err
	}
	g := FromCatalog(m.Operations).ScanPackages(c.FlagValues("scan")...)
	if c.HasFlag("sort") {
		g.SortOperations()
	}
	if c.HasFlag("typed-query") {
		g.TypedQueryParams()
	}
	if fm := c.FlagValues("frontmatter"); len(fm) > 0 {
		g.Frontmatter(fm[0])
	}

	res, err := g.Generate(context.Background())
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(res.Files))
	for _, f := range res.Files {
		out[f.Path] = f.Content
	}
	return out, nil
}

func userCatalog() ir.Catalog {
	user := ir.Composite("User", "com.example.app",
		ir.Field("id", ir.Number()),
		ir.Field("created", ir.Composite("Instant", "java.time")),
	)
	return ir.Catalog{
		{
			Key: "get", URL: "/users/{id}", FunctionName: "getUser",
			Parameters: []ir.ParameterDescriptor{{Name: "id", Type: ir.Number(), Source: ir.SourcePath}},
			Return:     user,
		},
	}
}

func TestGenerateResult(t *testing.T) {
	res, err := FromCatalog(userCatalog()).ScanPackages("com.example").Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"User"}, res.Types); diff != "" {
		t.Errorf("Types mismatch (-want +got):\n%s", diff)
	}
	if res.Operations != 1 {
		t.Errorf("Operations = %d, want 1", res.Operations)
	}

	var paths []string
	for _, f := range res.Files {
		paths = append(paths, f.Path)
	}
	if diff := cmp.Diff([]string{"User.ts", "api.ts"}, paths); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	api, ok := res.File("api.ts")
	if !ok {
		t.Fatal("api.ts missing")
	}
	if api.Size() != int64(len(api.Content)) || api.Size() == 0 {
		t.Errorf("Size() = %d", api.Size())
	}
	user, _ := res.File("User.ts")
	if !bytes.Contains(user.Content, []byte("\tcreated: any;\n")) {
		t.Errorf("out-of-filter field not rendered as any:\n%s", user.Content)
	}
	if _, ok := res.File("Instant.ts"); ok {
		t.Error("Instant.ts emitted for a type outside the scanned namespaces")
	}
}

func TestGenerateIdempotent(t *testing.T) {
	ctx := context.Background()
	a, err := FromCatalog(userCatalog()).ScanPackages("com.example").Generate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromCatalog(userCatalog()).ScanPackages("com.example").Generate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestGenerateSameSimpleName(t *testing.T) {
	cat := ir.Catalog{
		{Key: "a", URL: "/a", FunctionName: "a", Return: ir.Composite("Item", "com.example.a", ir.Field("a", ir.String()))},
		{Key: "b", URL: "/b", FunctionName: "b", Return: ir.Composite("Item", "com.example.b", ir.Field("b", ir.Number()))},
	}
	res, err := FromCatalog(cat).ScanPackages("com.example").Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	item, _ := res.File("Item.ts")
	if !strings.Contains(string(item.Content), "\ta: string;") {
		t.Errorf("Item.ts should hold the first declaration:\n%s", item.Content)
	}
	api, _ := res.File("api.ts")
	if n := strings.Count(string(api.Content), "import type { Item }"); n != 1 {
		t.Errorf("api.ts imports Item %d times", n)
	}
}

func TestGenerateDefaultFunctions(t *testing.T) {
	res, err := FromCatalog(nil).
		WithDefaultFunction("export const setTimeout = (ms: number) => axios.defaults.timeout = ms;").
		APIFile("client.ts").
		Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	api, ok := res.File("client.ts")
	if !ok {
		t.Fatal("client.ts missing")
	}
	want := "import axios from 'axios';\n" +
		"\n" +
		"\n" +
		SetDefaultHeaderFunction + "\n" +
		SetBaseURLFunction + "\n" +
		"export const setTimeout = (ms: number) => axios.defaults.timeout = ms;\n"
	if diff := cmp.Diff(want, string(api.Content)); diff != "" {
		t.Errorf("client.ts mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateResolutionError(t *testing.T) {
	mem := sink.NewMemorySink()
	cat := append(userCatalog(), ir.OperationDescriptor{
		Key: "broken", URL: "/orgs/{org}", FunctionName: "getOrg",
		Return: ir.Composite("Org", "com.example.app"),
	})
	_, err := Generate(context.Background(), cat, &Config{Sink: mem, ScanPackages: []string{"com.example"}})

	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *ResolutionError", err)
	}
	if re.Operation != "broken" || re.Placeholder != "org" {
		t.Errorf("ResolutionError = %+v", re)
	}
	if paths := mem.Paths(); len(paths) != 0 {
		t.Errorf("files written despite resolution error: %v", paths)
	}
}

type failingSink struct{ err error }

func (s failingSink) WriteFile(context.Context, string, []byte) error { return s.err }

func TestGeneratePersistenceError(t *testing.T) {
	diskFull := errors.New("disk full")
	_, err := Generate(context.Background(), userCatalog(), &Config{
		Sink:         failingSink{diskFull},
		ScanPackages: []string{"com.example"},
	})
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *PersistenceError", err)
	}
	if pe.Path != "User.ts" {
		t.Errorf("Path = %q, want User.ts", pe.Path)
	}
	if !errors.Is(err, diskFull) {
		t.Error("error does not wrap the sink error")
	}

	_, err = Generate(context.Background(), nil, &Config{Sink: failingSink{diskFull}})
	if !errors.As(err, &pe) || pe.Path != "api.ts" {
		t.Errorf("error = %v, want *PersistenceError for api.ts", err)
	}
}

func TestGenerateEmptyArguments(t *testing.T) {
	cat := ir.Catalog{{
		Key: "bad", URL: "/x", FunctionName: "bad",
		Return: &ir.ParameterizedDescriptor{Raw: ir.RawCollection},
	}}
	_, err := FromCatalog(cat).Generate(context.Background())
	if !errors.Is(err, ErrEmptyArguments) {
		t.Errorf("error = %v, want ErrEmptyArguments", err)
	}
}

func TestGenerateConfigurationErrors(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantField string
	}{
		{"nil config", nil, "Config"},
		{"no output", &Config{}, "OutDir"},
		{"git without dir", &Config{Sink: sink.NewMemorySink(), Git: &GitConfig{URL: "x"}}, "Git"},
		{"bad api file", &Config{OutDir: "out", APIFile: "api.js"}, "APIFile"},
		{"nested api file", &Config{OutDir: "out", APIFile: "src/api.ts"}, "APIFile"},
		{"empty scan prefix", &Config{OutDir: "out", ScanPackages: []string{""}}, "ScanPackages[0]"},
		{"git email", &Config{OutDir: "out", Git: &GitConfig{URL: "x", AuthorEmail: "nope"}}, "Git.AuthorEmail"},
		{"git email without url", &Config{OutDir: "out", Git: &GitConfig{AuthorEmail: "nope"}}, "Git.AuthorEmail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.cfg != nil && tt.cfg.OutDir != "" {
				tt.cfg.OutDir = filepath.Join(dir, tt.cfg.OutDir)
			}
			_, err := Generate(context.Background(), userCatalog(), tt.cfg)

			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v, want *ConfigurationError", err)
			}
			if ce.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ce.Field, tt.wantField)
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("output written despite configuration error")
			}
		})
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	in := &Config{OutDir: "out", Git: &GitConfig{URL: "x"}}
	out := applyConfigDefaults(in)

	if in.APIFile != "" || in.Git.Message != "" || in.Logger != nil {
		t.Error("applyConfigDefaults mutated its input")
	}
	if out.APIFile != DefaultAPIFile {
		t.Errorf("APIFile = %q", out.APIFile)
	}
	if out.Git.Message != DefaultCommitMessage {
		t.Errorf("Git.Message = %q", out.Git.Message)
	}
	if out.Git.AuthorName == "" || out.Git.AuthorEmail == "" {
		t.Errorf("commit author not defaulted: %+v", out.Git)
	}
	if out.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestValidateConfigGitDefaults(t *testing.T) {
	tests := []struct {
		name string
		git  *GitConfig
	}{
		{"clone url only", &GitConfig{URL: "https://example.com/client.git"}},
		{"existing checkout", &GitConfig{}},
		{"explicit author", &GitConfig{AuthorName: "ci", AuthorEmail: "ci@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := applyConfigDefaults(&Config{OutDir: "out", Git: tt.git})
			if err := validateConfig(cfg); err != nil {
				t.Errorf("validateConfig() = %v, want nil", err)
			}
		})
	}
}

func TestToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "client")
	res, err := FromCatalog(userCatalog()).ScanPackages("com.example").ToDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range res.Files {
		got, err := os.ReadFile(filepath.Join(dir, f.Path))
		if err != nil {
			t.Fatalf("read %s: %v", f.Path, err)
		}
		if !bytes.Equal(got, f.Content) {
			t.Errorf("%s on disk differs from result", f.Path)
		}
	}
}

func TestGenerateGitSync(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	remote := seededRemote(t)
	dir := filepath.Join(t.TempDir(), "client")

	_, err := FromCatalog(userCatalog()).
		ScanPackages("com.example").
		WithGit(GitConfig{URL: remote, Message: "regenerate"}).
		ToDir(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}

	repo, err := git.PlainOpen(remote)
	if err != nil {
		t.Fatal(err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("remote head: %v", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(commit.Message) != "regenerate" {
		t.Errorf("commit message = %q", commit.Message)
	}
	if commit.Author.Email != gitsync.DefaultAuthorEmail {
		t.Errorf("author = %q", commit.Author.Email)
	}
	for _, name := range []string{"api.ts", "User.ts"} {
		if _, err := commit.File(name); err != nil {
			t.Errorf("%s not pushed: %v", name, err)
		}
	}
}

// seededRemote creates a bare repository holding a single README commit.
func seededRemote(t *testing.T) string {
	t.Helper()
	remote := filepath.Join(t.TempDir(), "remote.git")
	if _, err := git.PlainInit(remote, true); err != nil {
		t.Fatal(err)
	}

	seed := t.TempDir()
	repo, err := git.PlainInit(seed, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(seed, "README.md"), []byte("client\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatal(err)
	}
	sig := &object.Signature{Name: "seed", Email: "seed@localhost", When: time.Now()}
	if _, err := wt.Commit("seed", &git.CommitOptions{Author: sig}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remote}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Push(&git.PushOptions{RemoteName: "origin"}); err != nil {
		t.Fatal(err)
	}
	return remote
}

func TestGenerateGitSyncExistingCheckout(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	remote := seededRemote(t)
	dir := filepath.Join(t.TempDir(), "client")
	if _, err := git.PlainClone(dir, false, &git.CloneOptions{URL: remote}); err != nil {
		t.Fatal(err)
	}

	_, err := FromCatalog(userCatalog()).
		ScanPackages("com.example").
		WithGit(GitConfig{Message: "regenerate"}).
		ToDir(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}

	repo, err := git.PlainOpen(remote)
	if err != nil {
		t.Fatal(err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatal(err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(commit.Message) != "regenerate" {
		t.Errorf("commit message = %q, want regenerate", commit.Message)
	}
	if _, err := commit.File("api.ts"); err != nil {
		t.Errorf("api.ts not pushed: %v", err)
	}
}
