package api

import (
	"fmt"
	"net/http"
	"time"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineHandler serves routine editing and the per-day sharing actions.
type RoutineHandler struct {
	routineService service.RoutineService
}

func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs ---

type AssignmentRequest struct {
	ExerciseID  string `json:"exerciseId" binding:"required"`
	MuscleGroup string `json:"muscleGroup"`
	Series      int    `json:"series"`
	Repetitions int    `json:"repetitions"`
	Weight      string `json:"weight"`
}

// RoutineRequest is the body of create and update. Keys of routineByDay are
// weekday names (Lunes ... Domingo); each list is kept in the order given.
type RoutineRequest struct {
	Name           string                         `json:"name" binding:"required"`
	StudentID      string                         `json:"studentId"`
	ExpirationDate *time.Time                     `json:"expirationDate"`
	RoutineByDay   map[string][]AssignmentRequest `json:"routineByDay"`
}

func (r RoutineRequest) toInput() (service.RoutineInput, error) {
	studentID, err := parseOptionalID(r.StudentID)
	if err != nil {
		return service.RoutineInput{}, fmt.Errorf("invalid studentId: %w", err)
	}
	input := service.RoutineInput{
		Name:         r.Name,
		StudentID:    studentID,
		RoutineByDay: make(map[string][]domain.ExerciseAssignment, len(r.RoutineByDay)),
	}
	if r.ExpirationDate != nil {
		input.ExpirationDate = r.ExpirationDate.UTC()
	}
	for day, items := range r.RoutineByDay {
		assignments := make([]domain.ExerciseAssignment, len(items))
		for i, item := range items {
			exerciseID, err := primitive.ObjectIDFromHex(item.ExerciseID)
			if err != nil {
				return service.RoutineInput{}, fmt.Errorf("invalid exerciseId %q on %s", item.ExerciseID, day)
			}
			assignments[i] = domain.ExerciseAssignment{
				ExerciseID:  exerciseID,
				MuscleGroup: item.MuscleGroup,
				Series:      domain.Count(item.Series),
				Repetitions: domain.Count(item.Repetitions),
				Weight:      item.Weight,
			}
		}
		input.RoutineByDay[day] = assignments
	}
	return input, nil
}

// EmailDayRequest optionally overrides the student's address.
type EmailDayRequest struct {
	To string `json:"to" binding:"omitempty,email"`
}

func bindRoutine(c *gin.Context) (service.RoutineInput, bool) {
	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return service.RoutineInput{}, false
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return service.RoutineInput{}, false
	}
	return input, true
}

// --- CRUD ---

// CreateRoutine godoc
// @Summary Create a weekly routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body RoutineRequest true "Routine"
// @Success 201 {object} domain.Routine
// @Failure 400 {object} gin.H "Invalid input or unknown weekday"
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	input, ok := bindRoutine(c)
	if !ok {
		return
	}
	routine, err := h.routineService.CreateRoutine(c.Request.Context(), sess, input)
	if err != nil {
		abortWithServiceError(c, err, "create routine")
		return
	}
	c.JSON(http.StatusCreated, routine)
}

// ListRoutines handles GET /routines and GET /routines?studentId=...
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	studentID, err := parseOptionalID(c.Query("studentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid studentId format")
		return
	}
	routines, err := h.routineService.ListRoutines(c.Request.Context(), sess, studentID)
	if err != nil {
		abortWithServiceError(c, err, "list routines")
		return
	}
	if routines == nil {
		routines = []domain.Routine{}
	}
	c.JSON(http.StatusOK, routines)
}

func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}
	routine, err := h.routineService.GetRoutine(c.Request.Context(), sess, id)
	if err != nil {
		abortWithServiceError(c, err, "get routine")
		return
	}
	c.JSON(http.StatusOK, routine)
}

func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}
	input, ok := bindRoutine(c)
	if !ok {
		return
	}
	routine, err := h.routineService.UpdateRoutine(c.Request.Context(), sess, id, input)
	if err != nil {
		abortWithServiceError(c, err, "update routine")
		return
	}
	c.JSON(http.StatusOK, routine)
}

func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}
	if err := h.routineService.DeleteRoutine(c.Request.Context(), sess, id); err != nil {
		abortWithServiceError(c, err, "delete routine")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Per-day views and sharing ---

// GetDays returns the populated days Monday first with their composed text.
func (h *RoutineHandler) GetDays(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}
	views, err := h.routineService.DayViews(c.Request.Context(), sess, id)
	if err != nil {
		abortWithServiceError(c, err, "compose routine days")
		return
	}
	if views == nil {
		views = []service.DayView{}
	}
	c.JSON(http.StatusOK, views)
}

// GetDayMessage previews a day's message and chat link. No token is issued.
func (h *RoutineHandler) GetDayMessage(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}
	msg, err := h.routineService.ComposeDay(c.Request.Context(), sess, id, c.Param("day"))
	if err != nil {
		abortWithServiceError(c, err, "compose routine message")
		return
	}
	c.JSON(http.StatusOK, msg)
}

// SendDay godoc
// @Summary Prepare a day for sending
// @Description Issues a 12-hour timer token and returns the message, with the timer link appended, and the WhatsApp link carrying it.
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Param day path string true "Weekday (Lunes ... Domingo)"
// @Success 200 {object} service.SentDay
// @Router /routines/{routineId}/days/{day}/send [post]
func (h *RoutineHandler) SendDay(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}
	sent, err := h.routineService.SendDay(c.Request.Context(), sess, id, c.Param("day"))
	if err != nil {
		abortWithServiceError(c, err, "send routine day")
		return
	}
	c.JSON(http.StatusOK, sent)
}

// EmailDay is SendDay delivered by e-mail.
func (h *RoutineHandler) EmailDay(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}
	var req EmailDayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}
	res, err := h.routineService.EmailDay(c.Request.Context(), sess, id, c.Param("day"), req.To)
	if err != nil {
		abortWithServiceError(c, err, "e-mail routine day")
		return
	}
	c.JSON(http.StatusOK, res)
}

// IssueTimerLink backs the "start timer" action.
func (h *RoutineHandler) IssueTimerLink(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "routineId")
	if !ok {
		return
	}
	link, err := h.routineService.IssueTimerLink(c.Request.Context(), sess, id, c.Param("day"))
	if err != nil {
		abortWithServiceError(c, err, "issue timer link")
		return
	}
	c.JSON(http.StatusCreated, link)
}
