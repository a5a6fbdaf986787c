package check

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/broady/axiosgen"
	"github.com/broady/axiosgen/cmd/axiosgen/internal/gen"
)

type Cmd struct {
	Manifest  string   `help:"Manifest declaring types and operations." short:"m" default:"axiosgen.yaml" type:"existingfile"`
	Scan      []string `help:"Namespace prefixes whose types are emitted." short:"s"`
	EnumsFrom []string `help:"Go package patterns to load goEnum constants from." name:"enums-from"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	ctx := context.Background()

	m, err := gen.LoadManifest(ctx, c.Manifest, c.EnumsFrom)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Parsed manifest: %d types, %d operations\n", len(m.Types), len(m.Operations))

	res, err := axiosgen.FromCatalog(m.Operations).
		ScanPackages(c.Scan...).
		WithLogger(logger).
		Generate(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %d declaration files, %d client functions\n", len(res.Types), res.Operations)
	return nil
}
