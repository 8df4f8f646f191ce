package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	assert.NoError(t, d.Err())

	d.AddInfo(CodeIgnoredMember, "member is ignored", "Order -> OrderDTO", "Secret")
	d.AddWarning(CodeUnmappedMember, "no source member", "Order -> OrderDTO", "Totl", "Total", "Tax")
	d.AddError(CodeInvalidPath, "empty segment", "", "A..B")

	require.Len(t, d.All(), 3)
	assert.Equal(t, SeverityError, d.All()[0].Severity)
	assert.Equal(t, SeverityInfo, d.All()[2].Severity)
	assert.False(t, d.IsValid())

	err := d.Err()
	require.Error(t, err)
	assert.Equal(t, "A..B: [invalid_path] empty segment", err.Error())

	assert.Equal(t,
		"[Order -> OrderDTO] Totl: [unmapped_member] no source member (did you mean Total, Tax?)",
		d.Warnings[0].String())

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeInvalidPath, de.Code)

	var other Diagnostics
	other.AddWarning(CodeUnusedSource, "not read", "", "Extra")
	d.Merge(other)
	assert.Len(t, d.Warnings, 2)
}

func TestDiagnostic_YAML(t *testing.T) {
	var d Diagnostics
	d.AddWarning(CodeUnmappedMember, "no source member", "A -> B", "X")

	out, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), "severity: warning")
	assert.Contains(t, string(out), "pair: A -> B")
	assert.NotContains(t, string(out), "errors:")
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "unknown", Severity(7).String())
}
