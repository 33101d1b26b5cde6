package api

import (
	"fmt"
	"net/http"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// StudentHandler serves student records to administrators and trainers.
type StudentHandler struct {
	studentService service.StudentService
}

func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// StudentRequest is the body of create and update. TrainerID is only honoured
// for administrators.
type StudentRequest struct {
	Name                string `json:"name" binding:"required"`
	Phone               string `json:"phone" binding:"required"`
	TrainerID           string `json:"trainerId"`
	IDNumber            string `json:"idNumber"`
	Email               string `json:"email" binding:"omitempty,email"`
	BirthDate           string `json:"dob"`
	Plan                string `json:"plan"`
	Address             string `json:"address"`
	Height              string `json:"height"`
	Weight              string `json:"weight"`
	HealthInfo          string `json:"healthInfo"`
	TrainingStartDate   string `json:"trainingStartDate"`
	TrainingFrequency   string `json:"trainingFrequency"`
	TrainingHistory     string `json:"trainingHistory"`
	PaymentMethod       string `json:"paymentMethod"`
	PaymentStatus       string `json:"paymentStatus"`
	RenewalDate         string `json:"renewalDate"`
	TrainerNotes        string `json:"trainerNotes"`
	GoalsAndPreferences string `json:"goalsAndPreferences"`
}

func (r StudentRequest) toDomain() (domain.Student, error) {
	trainerID, err := parseOptionalID(r.TrainerID)
	if err != nil {
		return domain.Student{}, fmt.Errorf("invalid trainerId: %w", err)
	}
	return domain.Student{
		TrainerID:           trainerID,
		Name:                r.Name,
		IDNumber:            r.IDNumber,
		Phone:               r.Phone,
		Email:               r.Email,
		BirthDate:           r.BirthDate,
		Plan:                r.Plan,
		Address:             r.Address,
		Height:              r.Height,
		Weight:              r.Weight,
		HealthInfo:          r.HealthInfo,
		TrainingStartDate:   r.TrainingStartDate,
		TrainingFrequency:   r.TrainingFrequency,
		TrainingHistory:     r.TrainingHistory,
		PaymentMethod:       r.PaymentMethod,
		PaymentStatus:       r.PaymentStatus,
		RenewalDate:         r.RenewalDate,
		TrainerNotes:        r.TrainerNotes,
		GoalsAndPreferences: r.GoalsAndPreferences,
	}, nil
}

func bindStudent(c *gin.Context) (domain.Student, bool) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return domain.Student{}, false
	}
	student, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return domain.Student{}, false
	}
	return student, true
}

// CreateStudent godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Param student body StudentRequest true "Student"
// @Success 201 {object} domain.Student
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	input, ok := bindStudent(c)
	if !ok {
		return
	}
	student, err := h.studentService.CreateStudent(c.Request.Context(), sess, input)
	if err != nil {
		abortWithServiceError(c, err, "create student")
		return
	}
	c.JSON(http.StatusCreated, student)
}

func (h *StudentHandler) ListStudents(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	students, err := h.studentService.ListStudents(c.Request.Context(), sess)
	if err != nil {
		abortWithServiceError(c, err, "list students")
		return
	}
	if students == nil {
		students = []domain.Student{} // Return empty array, not null
	}
	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "studentId")
	if !ok {
		return
	}
	student, err := h.studentService.GetStudent(c.Request.Context(), sess, id)
	if err != nil {
		abortWithServiceError(c, err, "get student")
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "studentId")
	if !ok {
		return
	}
	input, ok := bindStudent(c)
	if !ok {
		return
	}
	student, err := h.studentService.UpdateStudent(c.Request.Context(), sess, id, input)
	if err != nil {
		abortWithServiceError(c, err, "update student")
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "studentId")
	if !ok {
		return
	}
	if err := h.studentService.DeleteStudent(c.Request.Context(), sess, id); err != nil {
		abortWithServiceError(c, err, "delete student")
		return
	}
	c.Status(http.StatusNoContent)
}
