package axiosgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/broady/axiosgen/internal/gitsync"
	"github.com/broady/axiosgen/ir"
	"github.com/broady/axiosgen/sink"
	"github.com/broady/axiosgen/typescript"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files that were written, in write order.
	Files []OutputFile

	// Types lists the emitted declaration names, sorted.
	Types []string

	// Operations is the number of client functions generated.
	Operations int
}

// File returns the written file at path.
func (r *GenerateResult) File(path string) (OutputFile, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return OutputFile{}, false
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Content is the file content as written.
	Content []byte
}

// Size returns the number of bytes written.
func (f OutputFile) Size() int64 { return int64(len(f.Content)) }

// Generate writes one declaration file per referenced type and a client file
// with one axios function per operation.
//
// All URL placeholders are checked before anything is written; an unbound
// placeholder fails the run with a *ResolutionError. A write failure fails
// the run with a *PersistenceError. Git sync failures are logged and do not
// fail the run.
func Generate(ctx context.Context, catalog ir.Catalog, cfg *Config) (*GenerateResult, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Field: "Config", Reason: "required"}
	}
	cfg = applyConfigDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	logger := cfg.Logger

	ops := catalog
	if cfg.SortOperations {
		ops = catalog.Sorted()
	}
	for _, op := range ops {
		if err := typescript.CheckBindings(op); err != nil {
			return nil, err
		}
	}

	var repo *gitsync.Repo
	if cfg.Git != nil {
		r, err := gitsync.Open(ctx, gitsync.Options{
			Dir:         cfg.OutDir,
			URL:         cfg.Git.URL,
			Username:    cfg.Git.Username,
			Token:       cfg.Git.Token,
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("git open failed", "dir", cfg.OutDir, "error", err)
		} else {
			repo = r
		}
	}

	out := cfg.Sink
	if out == nil {
		out = sink.NewFilesystemSink(cfg.OutDir)
	}
	rec := &recordingSink{next: out}

	registry := typescript.NewRegistry()
	emitter := typescript.NewInterfaceEmitter(rec, registry, typescript.ScanFilter(cfg.ScanPackages)).WithLogger(logger)
	mapper := emitter.Mapper()
	client := typescript.NewClientGenerator(mapper, typescript.ClientOptions{TypedQueryParams: cfg.TypedQueryParams})

	for _, op := range ops {
		if err := emitReferencedTypes(ctx, mapper, op); err != nil {
			return nil, fmt.Errorf("operation %s: %w", op.Key, err)
		}
	}

	functions := make([]string, 0, len(ops))
	for _, op := range ops {
		fn, err := client.Generate(ctx, op)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", op.Key, err)
		}
		functions = append(functions, fn)
		logger.Debug("generated client function", "operation", op.Key, "function", op.FunctionName)
	}

	content := renderClientFile(cfg, registry.Names(), functions)
	if err := rec.WriteFile(ctx, cfg.APIFile, content); err != nil {
		return nil, &PersistenceError{Path: cfg.APIFile, Err: err}
	}

	result := &GenerateResult{
		Files:      rec.files(),
		Types:      registry.Names(),
		Operations: len(functions),
	}
	logger.Info("generated client", "dir", cfg.OutDir, "types", len(result.Types), "operations", result.Operations)

	if repo != nil {
		if err := repo.Sync(ctx, cfg.Git.Message); err != nil {
			logger.Error("git sync failed", "dir", cfg.OutDir, "error", err)
		}
	}

	return result, nil
}

func validateConfig(cfg *Config) error {
	if cfg.OutDir == "" && cfg.Sink == nil {
		return &ConfigurationError{Field: "OutDir", Reason: "required"}
	}
	if cfg.Git != nil && cfg.OutDir == "" {
		return &ConfigurationError{Field: "Git", Reason: "requires OutDir"}
	}
	if err := validate.Struct(cfg); err != nil {
		return configurationError(err)
	}
	return nil
}

// emitReferencedTypes emits every enum and in-filter composite reachable from
// the operation's return and parameter types without entering composite
// fields, which the emitter handles itself.
func emitReferencedTypes(ctx context.Context, m *typescript.Mapper, op ir.OperationDescriptor) error {
	roots := make([]ir.TypeDescriptor, 0, len(op.Parameters)+1)
	roots = append(roots, op.Return)
	for _, p := range op.Parameters {
		roots = append(roots, p.Type)
	}

	var errs []error
	for _, root := range roots {
		ir.Walk(root, func(td ir.TypeDescriptor) bool {
			switch td.(type) {
			case *ir.CompositeDescriptor, *ir.EnumDescriptor:
				if _, err := m.Map(ctx, td); err != nil {
					errs = append(errs, err)
				}
				return false
			}
			return true
		})
	}
	return errors.Join(errs...)
}

// renderClientFile assembles the client file: frontmatter, the axios import,
// one type import per emitted declaration, the functions and the utility
// functions.
func renderClientFile(cfg *Config, types []string, functions []string) []byte {
	var buf bytes.Buffer
	if cfg.Frontmatter != "" {
		buf.WriteString(cfg.Frontmatter)
		if cfg.Frontmatter[len(cfg.Frontmatter)-1] != '\n' {
			buf.WriteString("\n")
		}
	}

	buf.WriteString("import axios from 'axios';\n")
	sorted := append([]string(nil), types...)
	sort.Strings(sorted)
	for _, name := range sorted {
		buf.WriteString(typescript.ImportLine(name))
		buf.WriteString("\n")
	}

	buf.WriteString("\n")
	for _, fn := range functions {
		buf.WriteString(fn)
		buf.WriteString("\n")
	}

	buf.WriteString("\n")
	buf.WriteString(SetDefaultHeaderFunction)
	buf.WriteString("\n")
	buf.WriteString(SetBaseURLFunction)
	buf.WriteString("\n")
	for _, fn := range cfg.DefaultFunctions {
		buf.WriteString(fn)
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// recordingSink forwards writes and remembers what was written.
type recordingSink struct {
	next sink.OutputSink

	mu      sync.Mutex
	order   []string
	content map[string][]byte
}

func (s *recordingSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := s.next.WriteFile(ctx, path, content); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.content == nil {
		s.content = make(map[string][]byte)
	}
	if _, ok := s.content[path]; !ok {
		s.order = append(s.order, path)
	}
	s.content[path] = append([]byte(nil), content...)
	return nil
}

func (s *recordingSink) files() []OutputFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OutputFile, len(s.order))
	for i, p := range s.order {
		out[i] = OutputFile{Path: p, Content: s.content[p]}
	}
	return out
}

var _ sink.OutputSink = (*recordingSink)(nil)

