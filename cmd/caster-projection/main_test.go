package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRun(t *testing.T) {
	out, err := execute(t, "run")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"id":1,"name":"aaa","email":"aaa@example.com"}`, lines[0])
	assert.JSONEq(t, `{"id":3,"name":"ccc","email":"ccc@example.com"}`, lines[2])
}

func TestRun_First(t *testing.T) {
	out, err := execute(t, "run", "--first", "--contains", "bbb")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2,"name":"bbb","email":"bbb@example.com"}`, out)

	_, err = execute(t, "run", "--first", "--contains", "nobody")
	require.Error(t, err)
}

func TestRun_MappingFile(t *testing.T) {
	out, err := execute(t, "run", "--first", "--mapping", "testdata/records.yaml")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"AAA","email":"aaa@example.com"}`, out)
}

func TestRun_Dump(t *testing.T) {
	out, err := execute(t, "run", "--dump", "--contains", "ccc")
	require.NoError(t, err)
	assert.Contains(t, out, "sample.RecordDTO")
	assert.Contains(t, out, `Email: (string) (len=15) "ccc@example.com"`)
}

func TestExplain(t *testing.T) {
	out, err := execute(t, "explain", "--mapping", "testdata/records.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Name -> Name (transform, yaml:fields")
	assert.Contains(t, out, "All target fields mapped")

	out, err = execute(t, "explain", "--export")
	require.NoError(t, err)
	assert.Contains(t, out, "sample.RecordDTO")
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "check", "--mapping", "testdata/records.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, err = execute(t, "check", "--mapping", "testdata/unknown.yaml")
	require.ErrorIs(t, err, errInvalidMapping)
	assert.Contains(t, out, "target_type_not_found")

	_, err = execute(t, "check")
	require.Error(t, err)
}

func TestCategoriesFlag(t *testing.T) {
	_, err := execute(t, "run", "--categories", "bogus")
	require.ErrorContains(t, err, "unknown conversion category")
}
