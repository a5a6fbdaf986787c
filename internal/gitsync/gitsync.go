// Package gitsync keeps a generated output directory in sync with a git
// remote: pull or clone before generation, then stage, commit and push.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// DefaultRemote is the remote pulled from and pushed to.
const DefaultRemote = "origin"

// Commit author used when Options leaves it empty.
const (
	DefaultAuthorName  = "axiosgen"
	DefaultAuthorEmail = "axiosgen@localhost.localdomain"
)

// Options configures a Repo.
type Options struct {
	// Dir is the working tree. It is cloned into when it is not a
	// repository yet.
	Dir string

	// URL is the remote cloned from when Dir has no .git directory.
	URL string

	// Username and Token are sent as HTTP basic auth when Token is set.
	Username string
	Token    string

	// AuthorName and AuthorEmail sign commits.
	AuthorName  string
	AuthorEmail string

	// RemoteName defaults to DefaultRemote.
	RemoteName string

	Logger *slog.Logger
}

// Repo is an opened working tree.
type Repo struct {
	repo   *git.Repository
	opts   Options
	logger *slog.Logger
}

// IsRepository reports whether dir contains a .git directory.
func IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// Open opens the repository in opts.Dir and pulls from the remote, or clones
// opts.URL into opts.Dir when it is not a repository. A failed pull is logged
// and the repository is still returned.
func Open(ctx context.Context, opts Options) (*Repo, error) {
	if opts.Dir == "" {
		return nil, errors.New("gitsync: Dir is required")
	}
	if opts.RemoteName == "" {
		opts.RemoteName = DefaultRemote
	}
	if opts.AuthorName == "" {
		opts.AuthorName = DefaultAuthorName
	}
	if opts.AuthorEmail == "" {
		opts.AuthorEmail = DefaultAuthorEmail
	}
	r := &Repo{opts: opts, logger: opts.Logger}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	if IsRepository(opts.Dir) {
		repo, err := git.PlainOpen(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", opts.Dir, err)
		}
		r.repo = repo
		if err := r.pull(ctx); err != nil {
			r.logger.Warn("git pull failed", "dir", opts.Dir, "error", err)
		} else {
			r.logger.Info("repository updated", "dir", opts.Dir)
		}
		return r, nil
	}

	if opts.URL == "" {
		return nil, fmt.Errorf("gitsync: %s is not a repository and no URL is set", opts.Dir)
	}
	repo, err := git.PlainCloneContext(ctx, opts.Dir, false, &git.CloneOptions{
		URL:        opts.URL,
		RemoteName: opts.RemoteName,
		Auth:       r.auth(),
	})
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", opts.URL, err)
	}
	r.repo = repo
	r.logger.Info("repository cloned", "url", opts.URL, "dir", opts.Dir)
	return r, nil
}

func (r *Repo) pull(ctx context.Context) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return err
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: r.opts.RemoteName,
		Auth:       r.auth(),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

// Sync stages every change in the working tree, commits it with message and
// pushes to the remote. A clean tree is not committed.
func (r *Repo) Sync(ctx context.Context, message string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if status.IsClean() {
		r.logger.Info("nothing to commit", "dir", r.opts.Dir)
		return nil
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  r.opts.AuthorName,
			Email: r.opts.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Info("changes committed", "commit", hash.String())

	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: r.opts.RemoteName,
		Auth:       r.auth(),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push: %w", err)
	}
	r.logger.Info("changes pushed", "remote", r.opts.RemoteName)
	return nil
}

func (r *Repo) auth() transport.AuthMethod {
	if r.opts.Token == "" {
		return nil
	}
	return &http.BasicAuth{Username: r.opts.Username, Password: r.opts.Token}
}
