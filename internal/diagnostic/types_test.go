package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-projection/internal/diagnostic"
)

func TestDiagnostics_Error(t *testing.T) {
	var d diagnostic.Diagnostics

	require.NoError(t, d.Error())
	assert.True(t, d.IsValid())

	d.AddWarning("unmapped_target", "no source for field", "Record->RecordDTO", "Phone")
	require.NoError(t, d.Error())

	d.AddError("unknown_field", "field does not exist", "Record->RecordDTO", "Mail")
	d.AddError("type_mismatch", "cannot convert", "", "")

	err := d.Error()
	require.ErrorIs(t, err, diagnostic.ErrInvalid)
	assert.Equal(t,
		"invalid mapping: [Record->RecordDTO] Mail: [unknown_field] field does not exist; [type_mismatch] cannot convert",
		err.Error())
	assert.True(t, d.HasErrors())
}

func TestDiagnostics_MergeAndLines(t *testing.T) {
	var a, b diagnostic.Diagnostics

	a.AddInfo("auto_matched", "matched by name", "A->B", "Name")
	b.AddWarningWithSuggestions("ambiguous_match", "two candidates", "A->B", "Mail",
		[]string{"Email", "EMail"})
	b.AddError("unknown_field", "missing", "A->B", "X")

	a.Merge(b)

	assert.Equal(t, []string{
		"error: [A->B] X: [unknown_field] missing",
		"warning: [A->B] Mail: [ambiguous_match] two candidates (did you mean: Email, EMail?)",
		"info: [A->B] Name: [auto_matched] matched by name",
	}, a.Lines())
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", diagnostic.DiagnosticInfo.String())
	assert.Equal(t, "warning", diagnostic.DiagnosticWarning.String())
	assert.Equal(t, "error", diagnostic.DiagnosticError.String())
	assert.Equal(t, "unknown", diagnostic.DiagnosticSeverity(9).String())
}

func TestDiagnostics_ErrorWithSuggestions(t *testing.T) {
	var d diagnostic.Diagnostics

	d.AddErrorWithSuggestions("unmapped_field", "not mapped", "A->B", "Mail", []string{"Email"})

	require.ErrorIs(t, d.Error(), diagnostic.ErrInvalid)
	assert.Equal(t, []string{"error: [A->B] Mail: [unmapped_field] not mapped (did you mean: Email?)"}, d.Lines())
}
