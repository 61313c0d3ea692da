package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"medibook/config"
	"medibook/models"
	"medibook/submission"
	"medibook/utils"

	"go.uber.org/zap"
)

// reportFlag collects repeated -report path[=label] values.
type reportFlag []string

func (r *reportFlag) String() string { return strings.Join(*r, ",") }

func (r *reportFlag) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("empty report path")
	}
	*r = append(*r, v)
	return nil
}

type bookOptions struct {
	DoctorID    string
	Start       string
	Duration    time.Duration
	Type        string
	Description string

	Name       string
	Gender     string
	Age        string
	BloodGroup string

	Symptoms    string
	History     string
	Medications string
	Allergies   string

	Reports reportFlag
}

func main() {
	var opts bookOptions
	flag.StringVar(&opts.DoctorID, "doctor", "", "doctor id to book with")
	flag.StringVar(&opts.Start, "start", "", "slot start time (RFC3339)")
	flag.DurationVar(&opts.Duration, "duration", 30*time.Minute, "slot length")
	flag.StringVar(&opts.Type, "type", string(models.VisitInPerson), "appointment type (offline or virtual)")
	flag.StringVar(&opts.Description, "description", "", "note for the doctor")
	flag.StringVar(&opts.Name, "name", "", "patient name")
	flag.StringVar(&opts.Gender, "gender", "", "Male, Female or Other")
	flag.StringVar(&opts.Age, "age", "", "patient age")
	flag.StringVar(&opts.BloodGroup, "blood-group", "", "patient blood group")
	flag.StringVar(&opts.Symptoms, "symptoms", "", "current symptoms")
	flag.StringVar(&opts.History, "history", "", "medical history")
	flag.StringVar(&opts.Medications, "medications", "", "current medications")
	flag.StringVar(&opts.Allergies, "allergies", "", "known allergies")
	flag.Var(&opts.Reports, "report", "report file as path[=label], repeatable")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	outcome, err := run(context.Background(), config.AppConfig, opts, logger)
	if err != nil {
		logger.Fatal("book: submission failed", zap.Error(err))
	}
	logger.Info("book: submission finished",
		zap.String("attemptId", outcome.AttemptID),
		zap.Stringer("state", outcome.State))
}

// run fills a form from opts and submits it once to cfg.BookingEndpoint.
func run(ctx context.Context, cfg config.Config, opts bookOptions, logger *zap.Logger) (submission.Outcome, error) {
	form, draft, err := buildDraft(opts)
	if err != nil {
		return submission.Outcome{}, err
	}

	client := submission.NewClient(submission.Options{
		Endpoint: cfg.BookingEndpoint,
		Timeout:  cfg.SubmitTimeout,
		Logger:   logger.Named("SubmissionClient"),
	})
	submission.NewReactor(submission.LogNotifier{Logger: logger}, form.Reset).Attach(client)

	return client.Submit(ctx, draft)
}

func buildDraft(opts bookOptions) (*submission.Form, submission.Draft, error) {
	if strings.TrimSpace(opts.DoctorID) == "" {
		return nil, submission.Draft{}, fmt.Errorf("book: -doctor is required")
	}
	start, err := time.Parse(time.RFC3339, opts.Start)
	if err != nil {
		return nil, submission.Draft{}, fmt.Errorf("book: invalid -start: %w", err)
	}
	if opts.Duration <= 0 {
		return nil, submission.Draft{}, fmt.Errorf("book: -duration must be positive")
	}

	form := submission.NewForm()
	if err := form.SetAppointmentType(models.VisitMode(opts.Type)); err != nil {
		return nil, submission.Draft{}, err
	}
	form.SetDescription(opts.Description)

	personal := map[string]string{
		"name":       opts.Name,
		"gender":     opts.Gender,
		"age":        opts.Age,
		"bloodGroup": opts.BloodGroup,
	}
	for field, v := range personal {
		if err := form.SetPersonal(field, v); err != nil {
			return nil, submission.Draft{}, err
		}
	}
	medical := map[string]string{
		"symptoms":    opts.Symptoms,
		"history":     opts.History,
		"medications": opts.Medications,
		"allergies":   opts.Allergies,
	}
	for field, v := range medical {
		if err := form.SetMedical(field, v); err != nil {
			return nil, submission.Draft{}, err
		}
	}

	for i, r := range opts.Reports {
		if i > 0 {
			form.AddReportRow()
		}
		path, label, _ := strings.Cut(r, "=")
		if err := form.SetReportFile(i, submission.LocalFile(path)); err != nil {
			return nil, submission.Draft{}, err
		}
		if err := form.SetReportName(i, label); err != nil {
			return nil, submission.Draft{}, err
		}
	}

	draft, err := form.Build(opts.DoctorID, models.Slot{
		StartTime: start.UTC(),
		EndTime:   start.Add(opts.Duration).UTC(),
	})
	if err != nil {
		return nil, submission.Draft{}, err
	}
	return form, draft, nil
}
