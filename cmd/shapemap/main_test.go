package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

const ordersProfile = `
mappings:
  - source: Order
    target: OrderDTO
    121:
      Customer.Email: CustomerEmail
    ignore:
      - Internal
`

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "shapemap dev\n", out)
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "config", "--profile", "extra.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "flattening: true")
	assert.Contains(t, out, "- safe_number")
	assert.Contains(t, out, "- extra.yaml")
}

func TestCheckCommand(t *testing.T) {
	path := writeProfile(t, ordersProfile)

	out, err := run(t, "check", "--no-color", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (1 mapping)")
}

func TestCheckCommand_Strict(t *testing.T) {
	path := writeProfile(t, `
mappings:
  - source: Order
    target: OrderDTO
`)

	out, err := run(t, "check", "--no-color", path)
	require.NoError(t, err)
	assert.Contains(t, out, "warning: [fixtures.Order -> fixtures.OrderDTO] Internal")

	out, err = run(t, "check", "--no-color", "--strict", path)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "error: [fixtures.Order -> fixtures.OrderDTO] Internal")
}

func TestCheckCommand_Failures(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		want    string
	}{
		{
			name:    "schema",
			profile: "mappings:\n  - source: Order\n",
			want:    "invalid profile",
		},
		{
			name:    "unknown type",
			profile: "mappings:\n  - source: Invoice\n    target: OrderDTO\n",
			want:    "unknown_type",
		},
		{
			name:    "bad binding",
			profile: "mappings:\n  - source: Order\n    target: OrderDTO\n    121:\n      Items: ID\n",
			want:    "property types are not compatible",
		},
		{
			name:    "unknown key",
			profile: "mappings:\n  - source: Order\n    targets: OrderDTO\n",
			want:    "failed to parse profile YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "check", "--no-color", writeProfile(t, tt.profile))
			require.ErrorIs(t, err, errCheckFailed)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCheckCommand_MissingFile(t *testing.T) {
	out, err := run(t, "check", "--no-color", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "failed to read profile")
}

func TestShowCommand(t *testing.T) {
	path := writeProfile(t, ordersProfile)

	out, err := run(t, "show", "--profile", path)
	require.NoError(t, err)

	assert.Contains(t, out, "fixtures.Order -> fixtures.OrderDTO")
	assert.Contains(t, out, "fixtures.Address -> fixtures.AddressDTO (implicit)")
	assert.Contains(t, out, "Customer.FullName")
	assert.Contains(t, out, "flattened")
	assert.Contains(t, out, "profile")
	assert.Contains(t, out, "ignored")
}

func TestShowCommand_YAML(t *testing.T) {
	out, err := run(t, "show", "--format", "yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "pair: fixtures.Order -> fixtures.OrderDTO")
	assert.Contains(t, out, "unmapped_dest:")

	_, err = run(t, "show", "--format", "xml")
	require.Error(t, err)
}
