package handlers

import (
	"errors"
	"net/http"

	doctorRepo "medibook/database/repository/doctor"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DoctorHandler serves the doctor directory.
type DoctorHandler struct {
	Repo doctorRepo.DoctorRepository
}

func NewDoctorHandler(repo doctorRepo.DoctorRepository) *DoctorHandler {
	return &DoctorHandler{Repo: repo}
}

// ListDoctorsHandler lists the verified doctors of a specialty.
func (h *DoctorHandler) ListDoctorsHandler(c *gin.Context) {
	logger := getLogger(c)
	specialty := c.Param("specialty")

	doctors, err := h.Repo.ListBySpecialty(c.Request.Context(), specialty)
	if err != nil {
		logger.Error("Failed to list doctors", zap.String("specialty", specialty), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list doctors", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

// GetDoctorHandler returns one doctor of the given specialty.
func (h *DoctorHandler) GetDoctorHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	doctor, err := h.Repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, doctorRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "doctor not found", id)
		return
	}
	if err != nil {
		logger.Error("Failed to load doctor", zap.String("doctorId", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load doctor", "")
		return
	}
	if doctor.Specialty != c.Param("specialty") {
		utils.JSONError(c, http.StatusNotFound, "doctor not found", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctor": doctor})
}
