package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formkit/internal/service"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newCommand(&out).Run(context.Background(), append([]string{"formkit"}, args...))
	return out.String(), err
}

func TestFormatCommand(t *testing.T) {
	out, err := runCLI(t, "format", "cpf", "39053344705")
	require.NoError(t, err)
	assert.Equal(t, "390.533.447-05\n", out)

	out, err = runCLI(t, "format", "cep", "24210-5109")
	require.NoError(t, err)
	assert.Equal(t, "24210-510\n", out)
}

func TestFormatCommandJSON(t *testing.T) {
	out, err := runCLI(t, "format", "--format", "json", "phone", "(11) 98765-4321")
	require.NoError(t, err)

	var output service.FormatOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	assert.Equal(t, "11987654321", output.Value)
	assert.True(t, output.Complete)
}

func TestFormatCommandRejectsUnknownKind(t *testing.T) {
	_, err := runCLI(t, "format", "rg", "123")
	require.Error(t, err)

	_, err = runCLI(t, "format", "cpf")
	require.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := runCLI(t, "validate", "cpf", "390.533.447-05")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, err = runCLI(t, "validate", "cpf", "111.111.111-11")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "invalid: "))
}

func TestAgeCommandUsesToday(t *testing.T) {
	out, err := runCLI(t, "age", "--today", "14/06/2025", "15/06/1990")
	require.NoError(t, err)
	assert.Equal(t, "34\n", out)

	out, err = runCLI(t, "age", "--today", "15/06/2025", "15/06/1990")
	require.NoError(t, err)
	assert.Equal(t, "35\n", out)

	_, err = runCLI(t, "age", "--today", "2025-06-15", "15/06/1990")
	require.Error(t, err)
}

func TestFieldCommand(t *testing.T) {
	out, err := runCLI(t, "field", "--required", "")
	require.NoError(t, err)
	assert.Equal(t, "Required field\n", out)

	out, err = runCLI(t, "field", "--min", "5", "abc")
	require.NoError(t, err)
	assert.Equal(t, "Minimum of 5 characters\n", out)

	out, err = runCLI(t, "field", "--max", "5", "--validator", "email", "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Maximum of 5 characters\n", out)

	out, err = runCLI(t, "field", "--validator", "email", "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, render(&out, "yaml", nil, "x"))
}
