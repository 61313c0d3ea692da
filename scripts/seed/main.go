package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"medibook/config"
	"medibook/database"
	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var specialties = []string{
	"General Medicine",
	"Cardiology",
	"Dermatology",
	"Endocrinology",
	"Gastroenterology",
	"Neurology",
	"Obstetrics & Gynecology",
	"Oncology",
	"Ophthalmology",
	"Orthopedics",
	"Pediatrics",
	"Psychiatry",
	"Pulmonology",
	"Radiology",
	"Urology",
	"Other",
}

var firstNames = []string{
	"Robert", "John", "Michael", "William", "David",
	"Mary", "Patricia", "Linda", "Barbara", "Elizabeth",
	"James", "Jennifer", "Susan", "Jessica", "Daniel",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones",
	"Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
}

const doctorsPerSpecialty = 3

func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for generated names")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := database.InitDB(logger); err != nil {
		logger.Fatal("seed: failed to connect to MongoDB", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer database.Close(context.Background())

	repo := doctorRepo.NewMongoDoctorRepo(database.DB())
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("seed: failed to create indexes", zap.Error(err))
	}

	doctors := generateDoctors(rand.New(rand.NewSource(*seed)), time.Now().UTC())
	created := insertDoctors(ctx, repo, doctors, logger)
	logger.Info("Seeding finished", zap.Int("created", created), zap.Int("total", len(doctors)))
}

// generateDoctors returns doctorsPerSpecialty verified doctors for every specialty.
func generateDoctors(rng *rand.Rand, now time.Time) []models.Doctor {
	doctors := make([]models.Doctor, 0, len(specialties)*doctorsPerSpecialty)
	for _, specialty := range specialties {
		for i := 1; i <= doctorsPerSpecialty; i++ {
			first := firstNames[rng.Intn(len(firstNames))]
			last := lastNames[rng.Intn(len(lastNames))]
			name := first + " " + last

			doctors = append(doctors, models.Doctor{
				ID:                 uuid.New().String(),
				ClerkUserID:        uuid.New().String(),
				Email:              fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
				Name:               name,
				Role:               models.RoleDoctor,
				Specialty:          specialty,
				Experience:         rng.Intn(15) + 1,
				Description:        fmt.Sprintf("Dr. %s is an experienced %s specialist.", name, specialty),
				VerificationStatus: models.DoctorVerified,
				Credits:            0,
				CreatedAt:          now,
				UpdatedAt:          now,
			})
		}
	}
	return doctors
}

// insertDoctors stores each doctor, logging failures without stopping.
func insertDoctors(ctx context.Context, repo doctorRepo.DoctorRepository, doctors []models.Doctor, logger *zap.Logger) int {
	created := 0
	for i := range doctors {
		doc := &doctors[i]
		if err := repo.Create(ctx, doc); err != nil {
			logger.Error("Error creating doctor", zap.String("email", doc.Email), zap.Error(err))
			continue
		}
		created++
		logger.Info("Created doctor", zap.String("name", doc.Name), zap.String("specialty", doc.Specialty))
	}
	return created
}
