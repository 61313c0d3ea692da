package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"time"

	"medibook/models"

	"golang.org/x/sync/errgroup"
)

// Outgoing multipart field names understood by the booking handler.
const (
	FieldSubjectID       = "subjectId"
	FieldStartTime       = "startTime"
	FieldEndTime         = "endTime"
	FieldDescription     = "description"
	FieldAppointmentType = "appointmentType"
	FieldMedicalForm     = "medicalForm"
	FieldReportFiles     = "reportFilesBase64"
)

// ReportRow is one "upload report" line on the form. File is nil until the
// user picks a file.
type ReportRow struct {
	Label string
	File  File
}

// Draft is the raw input of one submission attempt, before encoding.
type Draft struct {
	SubjectID string
	Slot      models.Slot
	Note      string
	VisitMode models.VisitMode
	Intake    models.IntakeRecord
	Reports   []ReportRow
}

// Field is one named value of the multipart body.
type Field struct {
	Name  string
	Value string
}

// Payload is an assembled booking request ready to be sent.
type Payload struct {
	Request models.BookingRequest
	Fields  []Field
}

// Get returns the value of the named field, or "" if absent.
func (p *Payload) Get(name string) string {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Encode writes the fields as a multipart/form-data body.
func (p *Payload) Encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range p.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return "", nil, fmt.Errorf("Payload.Encode: failed to write %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("Payload.Encode: failed to close writer: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

// Assemble encodes every selected report and builds the outgoing payload.
// If any report fails to encode nothing is returned.
func Assemble(ctx context.Context, d Draft) (*Payload, error) {
	attachments, err := EncodeReports(ctx, d.Reports)
	if err != nil {
		return nil, err
	}
	return BuildPayload(models.BookingRequest{
		SubjectID:   d.SubjectID,
		Slot:        d.Slot,
		Note:        d.Note,
		VisitMode:   d.VisitMode,
		Intake:      d.Intake,
		Attachments: attachments,
	})
}

// EncodeReports encodes the rows that have a file, concurrently, keeping row
// order. A row without a label is named after its file.
func EncodeReports(ctx context.Context, rows []ReportRow) ([]models.EncodedAttachment, error) {
	selected := make([]ReportRow, 0, len(rows))
	for _, r := range rows {
		if r.File != nil {
			selected = append(selected, r)
		}
	}

	out := make([]models.EncodedAttachment, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range selected {
		g.Go(func() error {
			data, err := EncodeFile(gctx, r.File)
			if err != nil {
				return err
			}
			label := r.Label
			if label == "" {
				label = r.File.Name()
			}
			if label == "" {
				label = fmt.Sprintf("report-%d", i+1)
			}
			out[i] = models.EncodedAttachment{Label: label, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// BuildPayload serializes an already encoded request.
func BuildPayload(req models.BookingRequest) (*Payload, error) {
	medicalForm, err := json.Marshal(req.Intake)
	if err != nil {
		return nil, fmt.Errorf("BuildPayload: failed to marshal medical form: %w", err)
	}
	attachments := req.Attachments
	if attachments == nil {
		attachments = []models.EncodedAttachment{}
	}
	reports, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("BuildPayload: failed to marshal reports: %w", err)
	}

	return &Payload{
		Request: req,
		Fields: []Field{
			{Name: FieldSubjectID, Value: req.SubjectID},
			{Name: FieldStartTime, Value: req.Slot.StartTime.UTC().Format(time.RFC3339)},
			{Name: FieldEndTime, Value: req.Slot.EndTime.UTC().Format(time.RFC3339)},
			{Name: FieldDescription, Value: req.Note},
			{Name: FieldAppointmentType, Value: string(req.VisitMode)},
			{Name: FieldMedicalForm, Value: string(medicalForm)},
			{Name: FieldReportFiles, Value: string(reports)},
		},
	}, nil
}
