package submission

import (
	"testing"

	"medibook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledForm(t *testing.T) *Form {
	t.Helper()
	f := NewForm()
	for k, v := range map[string]string{"name": "Ana", "age": "34", "gender": "Female", "bloodGroup": "O+"} {
		require.NoError(t, f.SetPersonal(k, v))
	}
	return f
}

func TestNewForm_Defaults(t *testing.T) {
	f := NewForm()
	assert.Equal(t, models.VisitInPerson, f.VisitMode)
	require.Len(t, f.Reports, 1)
	assert.Nil(t, f.Reports[0].File)
}

func TestForm_Build(t *testing.T) {
	f := filledForm(t)
	require.NoError(t, f.SetMedical("symptoms", "fever"))
	require.NoError(t, f.SetMedical("allergies", "penicillin"))
	require.NoError(t, f.SetAppointmentType(models.VisitVirtual))
	f.SetDescription("first visit")
	f.AddReportRow()
	require.NoError(t, f.SetReportName(1, "CBC"))
	require.NoError(t, f.SetReportFile(1, BytesFile("cbc.pdf", []byte("%PDF-1.4"))))

	d, err := f.Build("doc-7", testSlot())
	require.NoError(t, err)

	assert.Equal(t, "doc-7", d.SubjectID)
	assert.Equal(t, "first visit", d.Note)
	assert.Equal(t, models.VisitVirtual, d.VisitMode)
	assert.Equal(t, 34, d.Intake.Age)
	assert.Equal(t, models.GenderFemale, d.Intake.Gender)
	assert.Equal(t, "fever", d.Intake.Symptoms)
	assert.Equal(t, "penicillin", d.Intake.Allergies)
	require.Len(t, d.Reports, 2)
	assert.Equal(t, "CBC", d.Reports[1].Label)

	// The draft does not alias the form's rows.
	require.NoError(t, f.SetReportName(1, "changed"))
	assert.Equal(t, "CBC", d.Reports[1].Label)
}

func TestForm_BuildRequiresIdentity(t *testing.T) {
	f := NewForm()
	require.NoError(t, f.SetMedical("symptoms", "cough"))

	_, err := f.Build("doc-1", testSlot())
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "name")
	assert.Contains(t, vErr.Fields, "age")
	assert.Contains(t, vErr.Fields, "gender")
	assert.Contains(t, vErr.Fields, "bloodGroup")
	assert.NotContains(t, vErr.Fields, "symptoms")
}

func TestForm_BuildRejectsBadValues(t *testing.T) {
	f := filledForm(t)
	require.NoError(t, f.SetPersonal("age", "thirty"))
	require.NoError(t, f.SetPersonal("gender", "Unknown"))

	_, err := f.Build("doc-1", testSlot())
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "age must be a whole number", vErr.Fields["age"])
	assert.Equal(t, "gender must be one of Male Female Other", vErr.Fields["gender"])
	assert.Len(t, vErr.Fields, 2)
}

func TestForm_UnknownFieldsAndRows(t *testing.T) {
	f := NewForm()
	assert.Error(t, f.SetPersonal("email", "x"))
	assert.Error(t, f.SetMedical("diet", "x"))
	assert.Error(t, f.SetReportName(3, "x"))
	assert.Error(t, f.SetReportFile(-1, nil))
	assert.Error(t, f.SetAppointmentType("house-call"))
}

func TestForm_Reset(t *testing.T) {
	f := filledForm(t)
	f.AddReportRow()
	f.Reset()

	assert.Empty(t, f.Personal.Name)
	assert.Len(t, f.Reports, 1)
	assert.Equal(t, models.VisitInPerson, f.VisitMode)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "name is required", "age": "age is required"}}
	assert.Equal(t, "submission: invalid form: age is required; name is required", err.Error())
}
