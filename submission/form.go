package submission

import (
	"fmt"
	"strconv"
	"strings"

	"medibook/models"
)

// PersonalDetails holds the identity inputs as typed by the user.
type PersonalDetails struct {
	Name       string
	Gender     string
	Age        string
	BloodGroup string
}

// MedicalDetails holds the free-text clinical inputs.
type MedicalDetails struct {
	Symptoms          string
	History           string
	OngoingTreatment  string
	Medications       string
	Allergies         string
	ChronicConditions string
}

// Form is the editable state of one booking form session. It is owned by a
// single session and is not safe for concurrent use.
type Form struct {
	VisitMode   models.VisitMode
	Description string
	Personal    PersonalDetails
	Medical     MedicalDetails
	Reports     []ReportRow
}

// NewForm returns an empty form with one blank report row.
func NewForm() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// Reset clears every input.
func (f *Form) Reset() {
	*f = Form{
		VisitMode: models.VisitInPerson,
		Reports:   []ReportRow{{}},
	}
}

// SetPersonal sets an identity input by its field name.
func (f *Form) SetPersonal(field, value string) error {
	switch field {
	case "name":
		f.Personal.Name = value
	case "gender":
		f.Personal.Gender = value
	case "age":
		f.Personal.Age = value
	case "bloodGroup":
		f.Personal.BloodGroup = value
	default:
		return fmt.Errorf("Form.SetPersonal: unknown field %q", field)
	}
	return nil
}

// SetMedical sets a clinical input by its field name.
func (f *Form) SetMedical(field, value string) error {
	switch field {
	case "symptoms":
		f.Medical.Symptoms = value
	case "history":
		f.Medical.History = value
	case "ongoingTreatment":
		f.Medical.OngoingTreatment = value
	case "medications":
		f.Medical.Medications = value
	case "allergies":
		f.Medical.Allergies = value
	case "chronicConditions":
		f.Medical.ChronicConditions = value
	default:
		return fmt.Errorf("Form.SetMedical: unknown field %q", field)
	}
	return nil
}

// SetAppointmentType selects how the appointment takes place.
func (f *Form) SetAppointmentType(mode models.VisitMode) error {
	if !mode.Valid() {
		return fmt.Errorf("Form.SetAppointmentType: unsupported type %q", mode)
	}
	f.VisitMode = mode
	return nil
}

// SetDescription sets the optional free-text note.
func (f *Form) SetDescription(text string) {
	f.Description = text
}

// AddReportRow appends an empty report row.
func (f *Form) AddReportRow() {
	f.Reports = append(f.Reports, ReportRow{})
}

// SetReportName labels the report row at index i.
func (f *Form) SetReportName(i int, name string) error {
	if i < 0 || i >= len(f.Reports) {
		return fmt.Errorf("Form.SetReportName: no report row %d", i)
	}
	f.Reports[i].Label = name
	return nil
}

// SetReportFile attaches file to the report row at index i.
func (f *Form) SetReportFile(i int, file File) error {
	if i < 0 || i >= len(f.Reports) {
		return fmt.Errorf("Form.SetReportFile: no report row %d", i)
	}
	f.Reports[i].File = file
	return nil
}

// Build checks the required identity fields and returns the draft for one
// attempt. The form itself is left untouched.
func (f *Form) Build(subjectID string, slot models.Slot) (Draft, error) {
	fields := make(map[string]string)

	var age int
	ageText := strings.TrimSpace(f.Personal.Age)
	if ageText == "" {
		fields["age"] = "age is required"
	} else if n, err := strconv.Atoi(ageText); err != nil {
		fields["age"] = "age must be a whole number"
	} else {
		age = n
	}

	intake := models.IntakeRecord{
		Name:              strings.TrimSpace(f.Personal.Name),
		Gender:            models.Gender(f.Personal.Gender),
		Age:               age,
		BloodGroup:        strings.TrimSpace(f.Personal.BloodGroup),
		Symptoms:          f.Medical.Symptoms,
		History:           f.Medical.History,
		OngoingTreatment:  f.Medical.OngoingTreatment,
		Medications:       f.Medical.Medications,
		Allergies:         f.Medical.Allergies,
		ChronicConditions: f.Medical.ChronicConditions,
	}
	for k, v := range models.ValidateStruct(intake) {
		if _, seen := fields[k]; !seen {
			fields[k] = v
		}
	}
	if len(fields) > 0 {
		return Draft{}, &ValidationError{Fields: fields}
	}

	return Draft{
		SubjectID: subjectID,
		Slot:      slot,
		Note:      f.Description,
		VisitMode: f.VisitMode,
		Intake:    intake,
		Reports:   append([]ReportRow(nil), f.Reports...),
	}, nil
}
