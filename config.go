package axiosgen

import (
	"context"
	"log/slog"

	"github.com/broady/axiosgen/internal/gitsync"
	"github.com/broady/axiosgen/ir"
	"github.com/broady/axiosgen/sink"
)

// DefaultAPIFile is the name of the generated client file.
const DefaultAPIFile = "api.ts"

// DefaultCommitMessage is used when GitConfig.Message is empty.
const DefaultCommitMessage = "Updated typescript interfaces"

// Built-in utility functions appended to every client file.
const (
	SetDefaultHeaderFunction = "export const setDefaultHeader = (header: string, value: string) => axios.defaults.headers.common[header] = value;"
	SetBaseURLFunction       = "export const setBaseUrl = (url: string) => axios.defaults.baseURL = url;"
)

// Config holds the configuration for client generation.
type Config struct {
	// OutDir is the directory where generated files are written.
	// Required unless Sink is set.
	OutDir string

	// Sink overrides the output destination. When nil, files are written
	// to OutDir.
	Sink sink.OutputSink `validate:"-"`

	// ScanPackages lists the namespace prefixes of types that get their own
	// declaration file. Composite types outside these prefixes become any.
	// e.g. []string{"com.example.app"}
	ScanPackages []string `validate:"dive,required"`

	// APIFile is the name of the client file.
	// Default: "api.ts"
	APIFile string `validate:"required,endswith=.ts,excludesall=/"`

	// Frontmatter is content added to the top of the client file.
	Frontmatter string

	// DefaultFunctions are extra statements appended to the client file
	// after setDefaultHeader and setBaseUrl.
	DefaultFunctions []string `validate:"dive,required"`

	// TypedQueryParams types query arguments with their mapped type
	// instead of string.
	TypedQueryParams bool

	// SortOperations emits client functions ordered by operation key
	// instead of catalog order.
	SortOperations bool

	// Git enables pulling (or cloning) OutDir before generation and
	// committing and pushing the result afterwards.
	Git *GitConfig

	// Logger receives progress and git sync failures.
	// Default: slog.Default()
	Logger *slog.Logger `validate:"-"`
}

// GitConfig configures source-control sync of the output directory.
type GitConfig struct {
	// URL is the remote cloned when OutDir is not a repository yet. It may be
	// empty when OutDir is already a checkout; its configured remote is used.
	URL string

	// Username and Token are used for HTTP basic auth when Token is set.
	Username string
	Token    string

	// Message is the commit message.
	// Default: "Updated typescript interfaces"
	Message string `validate:"required"`

	AuthorName  string `validate:"required"`
	AuthorEmail string `validate:"required,email"`
}

func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.APIFile == "" {
		result.APIFile = DefaultAPIFile
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}
	if result.Git != nil {
		git := *result.Git
		if git.Message == "" {
			git.Message = DefaultCommitMessage
		}
		if git.AuthorName == "" {
			git.AuthorName = gitsync.DefaultAuthorName
		}
		if git.AuthorEmail == "" {
			git.AuthorEmail = gitsync.DefaultAuthorEmail
		}
		result.Git = &git
	}

	return &result
}

// Generator provides a fluent API for client generation.
// Create with FromCatalog and configure with method chaining.
//
// Example:
//
//	axiosgen.FromCatalog(catalog).
//	    ScanPackages("com.example.app").
//	    ToDir("./client/src/api")
type Generator struct {
	catalog ir.Catalog
	cfg     Config
}

// FromCatalog creates a new Generator for the given operations.
func FromCatalog(catalog ir.Catalog) *Generator {
	return &Generator{catalog: catalog}
}

// ScanPackages adds namespace prefixes whose types are emitted.
func (g *Generator) ScanPackages(prefixes ...string) *Generator {
	g.cfg.ScanPackages = append(g.cfg.ScanPackages, prefixes...)
	return g
}

// WithDefaultFunction appends a statement to the end of the client file.
func (g *Generator) WithDefaultFunction(fn string) *Generator {
	g.cfg.DefaultFunctions = append(g.cfg.DefaultFunctions, fn)
	return g
}

// TypedQueryParams types query arguments with their mapped type.
func (g *Generator) TypedQueryParams() *Generator {
	g.cfg.TypedQueryParams = true
	return g
}

// SortOperations orders client functions by operation key.
func (g *Generator) SortOperations() *Generator {
	g.cfg.SortOperations = true
	return g
}

// APIFile sets the client file name.
func (g *Generator) APIFile(name string) *Generator {
	g.cfg.APIFile = name
	return g
}

// Frontmatter adds content to the top of the client file.
func (g *Generator) Frontmatter(content string) *Generator {
	g.cfg.Frontmatter = content
	return g
}

// WithGit syncs the output directory with a git remote. Only applies to ToDir.
func (g *Generator) WithGit(git GitConfig) *Generator {
	g.cfg.Git = &git
	return g
}

// WithLogger sets the logger.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.cfg.Logger = logger
	return g
}

// ToDir generates files to the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(ctx context.Context, dir string) (*GenerateResult, error) {
	cfg := g.cfg
	cfg.OutDir = dir
	return Generate(ctx, g.catalog, &cfg)
}

// Generate returns generated files in memory without writing to disk.
// Use ToDir() to write files to disk instead. Git sync is not performed.
func (g *Generator) Generate(ctx context.Context) (*GenerateResult, error) {
	cfg := g.cfg
	cfg.Sink = sink.NewMemorySink()
	cfg.Git = nil
	return Generate(ctx, g.catalog, &cfg)
}
