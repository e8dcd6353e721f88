package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/sqlcraft/sqlcraft"
	"github.com/sqlcraft/sqlcraft/formatter"
)

// RenderCmd renders a declarative statement tree, read from a YAML/JSON
// file (or stdin), into a SQL string and its ordered parameter list.
type RenderCmd struct {
	Path string `arg:"" optional:"" help:"YAML or JSON file describing the statement tree (default: stdin, parsed as YAML)"`

	Dialect  string `help:"Target dialect for this render, overriding the config file" enum:"ansi,sqlserver,mysql,oracle,nrql," default:""`
	Quoted   *bool  `help:"Force quoting on (true) or off (false) for every identifier"`
	Numbered bool   `help:"Render $1, $2, ... placeholders instead of ?"`
	Inline   bool   `help:"Inline every leaf value as a literal instead of parameterizing it"`
	Pretty   bool   `help:"Re-indent the rendered SQL across multiple lines"`
	DSL      bool   `help:"Skip the final unwrap pass (format_dsl): leave deferred parameter carriers unresolved"`
	Params   string `help:"YAML or JSON file of named-parameter bindings (for ?name references)"`
}

func (cmd *RenderCmd) Run(ctx *Context) error {
	cfg, err := LoadConfig(ctx.Config)
	if err != nil {
		return err
	}

	raw, err := cmd.readTree()
	if err != nil {
		return err
	}

	stmt := decodeStmt(raw)

	bindings, err := cmd.readBindings()
	if err != nil {
		return err
	}

	opts := sqlcraft.Options{
		Dialect:  sqlcraft.Dialect(cmd.dialect(cfg)),
		Quoted:   cmd.quoted(cfg),
		Inline:   cmd.Inline,
		Numbered: cmd.numbered(cfg),
		Params:   bindings,
	}

	var (
		sql    string
		params []any
	)

	if cmd.DSL {
		sql, params, err = sqlcraft.FormatDSL(stmt, opts)
	} else {
		sql, params, err = sqlcraft.Format(stmt, opts)
	}

	if err != nil {
		color.Red("render failed: %v", err)
		return err
	}

	if cmd.pretty(cfg) {
		if pretty, err := formatter.NewSQLFormatter().Format(sql); err == nil {
			sql = pretty
		}
	}

	color.Cyan("%s", sql)

	if len(params) > 0 {
		if ctx.Verbose {
			for i, p := range params {
				fmt.Printf("  %s %v\n", color.YellowString("$%d", i+1), p)
			}
		} else {
			fmt.Println(params)
		}
	}

	return nil
}

func (cmd *RenderCmd) dialect(cfg *Config) string {
	if cmd.Dialect != "" {
		return cmd.Dialect
	}

	return cfg.Dialect
}

func (cmd *RenderCmd) quoted(cfg *Config) *bool {
	if cmd.Quoted != nil {
		return cmd.Quoted
	}

	return cfg.Quoted
}

func (cmd *RenderCmd) numbered(cfg *Config) bool {
	return cmd.Numbered || cfg.Numbered
}

func (cmd *RenderCmd) pretty(cfg *Config) bool {
	return cmd.Pretty || cfg.Pretty
}

func (cmd *RenderCmd) readTree() (map[string]any, error) {
	data, ext, err := readInput(cmd.Path)
	if err != nil {
		return nil, err
	}

	return unmarshalTree(data, ext)
}

func (cmd *RenderCmd) readBindings() (map[string]any, error) {
	if cmd.Params == "" {
		return nil, nil
	}

	data, err := os.ReadFile(cmd.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}

	tree, err := unmarshalTree(data, filepath.Ext(cmd.Params))
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(tree))
	for k, v := range tree {
		out[k] = decodeValue(v)
	}

	return out, nil
}

// readInput returns the raw bytes for the statement tree plus the file
// extension used to pick a decoder ("" for stdin, always parsed as YAML,
// whose syntax is a superset of JSON so either works).
func readInput(path string) ([]byte, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}

		return data, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, filepath.Ext(path), nil
}

func unmarshalTree(data []byte, ext string) (map[string]any, error) {
	switch strings.ToLower(ext) {
	case "", ".yaml", ".yml", ".json":
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse input: %w", err)
		}

		return tree, nil
	default:
		return nil, ErrUnsupportedInput
	}
}
