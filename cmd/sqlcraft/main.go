package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Context carries the flags every subcommand shares.
type Context struct {
	Config  string
	Verbose bool
}

// CLI is the top-level kong command tree.
var CLI struct {
	Config  string `help:"Configuration file path" default:"sqlcraft.yaml"`
	Verbose bool   `help:"Enable verbose output" short:"v"`

	Render   RenderCmd   `cmd:"" help:"Render a declarative statement tree to SQL"`
	Dialects DialectsCmd `cmd:"" help:"List supported dialects"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// Version is the CLI's own release tag, independent of the library's own
// versioning (there is no runtime way to derive it from go.mod without
// the toolchain, so it is a plain constant, exactly as the teacher's own
// VersionCmd hardcodes its string).
const Version = "0.1.0"

// VersionCmd prints the CLI version.
type VersionCmd struct{}

func (cmd *VersionCmd) Run(_ *Context) error {
	fmt.Println("sqlcraft v" + Version)
	return nil
}

func main() {
	parser := kong.Parse(&CLI,
		kong.Name("sqlcraft"),
		kong.Description("Render data-driven SQL statement trees to SQL text and parameters."),
	)

	appCtx := &Context{Config: CLI.Config, Verbose: CLI.Verbose}

	if err := parser.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
