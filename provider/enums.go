package provider

import (
	"context"
	"fmt"
	"go/constant"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"
)

// LoadEnums loads the Go packages matching patterns and returns, for every
// defined type with an underlying string type, the values of the constants
// declared with that type in its package, in source order. Types without
// constants are omitted.
func LoadEnums(ctx context.Context, patterns ...string) (EnumTable, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no packages provided")
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	table := EnumTable{}
	for _, pkg := range pkgs {
		scanEnums(pkg.Types, table)
	}
	return table, nil
}

func scanEnums(pkg *types.Package, table EnumTable) {
	scope := pkg.Scope()
	byType := make(map[*types.Named][]*types.Const)
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}
		named, ok := c.Type().(*types.Named)
		if !ok || named.Obj().Pkg() != pkg {
			continue
		}
		if b, ok := named.Underlying().(*types.Basic); !ok || b.Info()&types.IsString == 0 {
			continue
		}
		byType[named] = append(byType[named], c)
	}

	for named, consts := range byType {
		sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })
		values := make([]string, 0, len(consts))
		for _, c := range consts {
			if c.Val().Kind() == constant.String {
				values = append(values, constant.StringVal(c.Val()))
			}
		}
		table[pkg.Path()+"."+named.Obj().Name()] = values
	}
}
