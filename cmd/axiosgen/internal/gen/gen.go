package gen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/broady/axiosgen"
	"github.com/broady/axiosgen/provider"
)

type Cmd struct {
	Out         string   `arg:"" help:"Output directory for generated files."`
	Manifest    string   `help:"Manifest declaring types and operations." short:"m" default:"axiosgen.yaml" type:"existingfile"`
	Scan        []string `help:"Namespace prefixes whose types are emitted." short:"s"`
	EnumsFrom   []string `help:"Go package patterns to load goEnum constants from." name:"enums-from"`
	TypedQuery  bool     `help:"Type query arguments instead of using string." name:"typed-query"`
	Sort        bool     `help:"Order client functions by operation key."`
	APIFile     string   `help:"Client file name." name:"api-file" default:"api.ts"`
	Frontmatter string   `help:"Content added to the top of the client file."`

	Git         bool   `help:"Commit and push the output directory, which must already be a checkout unless --git-url is set."`
	GitURL      string `help:"Remote to clone into the output directory and push to. Implies --git." name:"git-url"`
	GitUser     string `help:"Username for HTTP auth." name:"git-user"`
	GitToken    string `help:"Token for HTTP auth." name:"git-token" env:"AXIOSGEN_GIT_TOKEN"`
	Message     string `help:"Commit message." default:"Updated typescript interfaces"`
	AuthorName  string `help:"Commit author name." name:"author-name" default:"axiosgen"`
	AuthorEmail string `help:"Commit author email." name:"author-email" default:"axiosgen@localhost.localdomain"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	ctx := context.Background()

	m, err := LoadManifest(ctx, c.Manifest, c.EnumsFrom)
	if err != nil {
		return err
	}

	outDir, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	g := axiosgen.FromCatalog(m.Operations).
		ScanPackages(c.Scan...).
		APIFile(c.APIFile).
		Frontmatter(c.Frontmatter).
		WithLogger(logger)
	if c.TypedQuery {
		g.TypedQueryParams()
	}
	if c.Sort {
		g.SortOperations()
	}
	if c.Git || c.GitURL != "" {
		g.WithGit(axiosgen.GitConfig{
			URL:         c.GitURL,
			Username:    c.GitUser,
			Token:       c.GitToken,
			Message:     c.Message,
			AuthorName:  c.AuthorName,
			AuthorEmail: c.AuthorEmail,
		})
	}

	res, err := g.ToDir(ctx, outDir)
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		logger.Debug("wrote file", "path", filepath.Join(outDir, f.Path), "bytes", f.Size())
	}
	fmt.Printf("✓ Generated %d types and %d functions in %s\n", len(res.Types), res.Operations, outDir)
	return nil
}

// LoadManifest parses the manifest at path, loading goEnum constants from
// the given Go package patterns first.
func LoadManifest(ctx context.Context, path string, enumPatterns []string) (*provider.Manifest, error) {
	var opts []provider.ManifestOption
	if len(enumPatterns) > 0 {
		enums, err := provider.LoadEnums(ctx, enumPatterns...)
		if err != nil {
			return nil, fmt.Errorf("load enums: %w", err)
		}
		opts = append(opts, provider.WithEnums(enums))
	}
	m, err := provider.LoadManifest(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return m, nil
}
