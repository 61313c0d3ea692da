package submission

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"medibook/models"
)

var errRevoked = errors.New("file handle revoked")

// brokenFile cannot be opened.
type brokenFile struct {
	name string
}

func (f brokenFile) Name() string                 { return f.name }
func (f brokenFile) Open() (io.ReadCloser, error) { return nil, errRevoked }

// truncatedFile opens but fails part way through reading.
type truncatedFile struct {
	name string
}

func (f truncatedFile) Name() string { return f.name }
func (f truncatedFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(io.MultiReader(
		io.LimitReader(rand.New(rand.NewSource(1)), 512),
		errReader{},
	)), nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func fakePDF(size int) []byte {
	data := make([]byte, size)
	copy(data, "%PDF-1.4\n")
	rand.New(rand.NewSource(42)).Read(data[9:])
	return data
}

func testSlot() models.Slot {
	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return models.Slot{StartTime: start, EndTime: start.Add(30 * time.Minute)}
}

func anaIntake() models.IntakeRecord {
	return models.IntakeRecord{
		Name:       "Ana",
		Gender:     models.GenderFemale,
		Age:        34,
		BloodGroup: "O+",
		Symptoms:   "fever",
	}
}
