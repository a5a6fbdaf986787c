package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/broady/axiosgen/cmd/axiosgen/internal/check"
	"github.com/broady/axiosgen/cmd/axiosgen/internal/gen"
)

type CLI struct {
	LogLevel slog.Level `help:"Log level (debug, info, warn, error)." default:"info" name:"log-level"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate TypeScript interfaces and an axios client."`
	Check   check.Cmd  `cmd:"" help:"Validate a manifest without writing files."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("axiosgen"),
		kong.Description("Generate TypeScript interfaces and an axios client from an operation manifest."),
		kong.UsageOnError(),
	)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cli.LogLevel}))
	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
