package mcp_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/github-mcp-bridge/mcp"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) mcp.Arguments {
	t.Helper()
	args, err := mcp.ParseArguments(json.RawMessage(raw))
	require.NoError(t, err)
	return args
}

func TestParseArguments(t *testing.T) {
	require.Empty(t, parse(t, ""))
	require.Empty(t, parse(t, "null"))

	_, err := mcp.ParseArguments(json.RawMessage(`[1,2]`))
	require.Error(t, err)
}

func TestArguments_String(t *testing.T) {
	args := parse(t, `{"repo":"api","empty":"","num":3}`)

	v, err := args.String("repo")
	require.NoError(t, err)
	require.Equal(t, "api", v)

	_, err = args.String("missing")
	require.EqualError(t, err, "missing required argument: missing")
	_, err = args.String("empty")
	require.EqualError(t, err, "missing required argument: empty")
	_, err = args.String("num")
	require.Error(t, err)

	v, err = args.OptionalString("missing", "main")
	require.NoError(t, err)
	require.Equal(t, "main", v)
	v, err = args.OptionalString("empty", "main")
	require.NoError(t, err)
	require.Equal(t, "main", v)
}

func TestArguments_Int(t *testing.T) {
	args := parse(t, `{"n":42,"s":"7","f":1.5,"zero":0,"b":true}`)

	n, err := args.Int("n")
	require.NoError(t, err)
	require.Equal(t, 42, n)

	n, err = args.Int("s")
	require.NoError(t, err)
	require.Equal(t, 7, n)

	_, err = args.Int("f")
	require.Error(t, err)
	_, err = args.Int("b")
	require.Error(t, err)
	_, err = args.Int("missing")
	require.EqualError(t, err, "missing required argument: missing")

	n, err = args.OptionalInt("missing", 30)
	require.NoError(t, err)
	require.Equal(t, 30, n)
	n, err = args.OptionalInt("zero", 30)
	require.NoError(t, err)
	require.Equal(t, 30, n)
}

func TestArguments_Bool(t *testing.T) {
	args := parse(t, `{"t":true,"s":"false","n":1}`)

	b, err := args.OptionalBool("t", false)
	require.NoError(t, err)
	require.True(t, b)

	b, err = args.OptionalBool("s", true)
	require.NoError(t, err)
	require.False(t, b)

	b, err = args.OptionalBool("missing", true)
	require.NoError(t, err)
	require.True(t, b)

	_, err = args.OptionalBool("n", false)
	require.Error(t, err)
}

func TestArguments_StringList(t *testing.T) {
	args := parse(t, `{"labels":["bug","p1"],"empty":[],"mixed":["a",1],"null":null}`)

	list, ok, err := args.StringList("labels")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"bug", "p1"}, list)

	list, ok, err = args.StringList("empty")
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, list)

	_, ok, err = args.StringList("missing")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = args.StringList("null")
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = args.StringList("mixed")
	require.Error(t, err)
}
