package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderCmdDialectPrefersFlagOverConfig(t *testing.T) {
	cfg := &Config{Dialect: "mysql"}

	cmd := &RenderCmd{}
	require.Equal(t, "mysql", cmd.dialect(cfg))

	cmd.Dialect = "sqlserver"
	require.Equal(t, "sqlserver", cmd.dialect(cfg))
}

func TestRenderCmdQuotedPrefersFlagOverConfig(t *testing.T) {
	cfgTrue := true
	cfg := &Config{Quoted: &cfgTrue}

	cmd := &RenderCmd{}
	require.NotNil(t, cmd.quoted(cfg))
	require.True(t, *cmd.quoted(cfg))

	flagFalse := false
	cmd.Quoted = &flagFalse
	require.False(t, *cmd.quoted(cfg))
}

func TestRenderCmdBooleanFlagsOrConfig(t *testing.T) {
	cfg := &Config{Numbered: true, Pretty: false}

	cmd := &RenderCmd{}
	require.True(t, cmd.numbered(cfg))
	require.False(t, cmd.pretty(cfg))

	cmd.Pretty = true
	require.True(t, cmd.pretty(cfg))
}

func TestUnmarshalTreeRejectsUnknownExtension(t *testing.T) {
	_, err := unmarshalTree([]byte("select: :id"), ".txt")
	require.ErrorIs(t, err, ErrUnsupportedInput)
}

func TestUnmarshalTreeAcceptsYAMLAndJSON(t *testing.T) {
	tree, err := unmarshalTree([]byte("select:\n  - :id\nfrom: :users\n"), ".yaml")
	require.NoError(t, err)
	require.Equal(t, ":users", tree["from"])

	tree, err = unmarshalTree([]byte(`{"select": [":id"], "from": ":users"}`), ".json")
	require.NoError(t, err)
	require.Equal(t, ":users", tree["from"])
}
