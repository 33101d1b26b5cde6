package api

import (
	"net/http"
	"time"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or updating an exercise.
type ExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`                       // Markdown
	MuscleGroup string `json:"muscleGroup"`                       // e.g., "Piernas", "Pecho"
	Difficulty  string `json:"difficulty"`                        // e.g., "Principiante", "Avanzado"
	WeightLabel string `json:"weight"`                            // e.g., "Moderado"
	VideoLink   string `json:"videoLink" binding:"omitempty,url"` // Optional, validated as URL if provided
}

func (r ExerciseRequest) toInput() service.ExerciseInput {
	return service.ExerciseInput{
		Name:        r.Name,
		Description: r.Description,
		MuscleGroup: r.MuscleGroup,
		Difficulty:  r.Difficulty,
		WeightLabel: r.WeightLabel,
		VideoLink:   r.VideoLink,
	}
}

// VideoUploadRequest asks for a presigned URL to upload a demonstration video.
type VideoUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID          string    `json:"id"`
	TrainerID   string    `json:"trainerId,omitempty"` // Empty for shared exercises
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MuscleGroup string    `json:"muscleGroup,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	WeightLabel string    `json:"weight,omitempty"`
	VideoLink   string    `json:"videoLink,omitempty"`
	HasVideo    bool      `json:"hasStoredVideo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:          ex.ID.Hex(),
		Name:        ex.Name,
		Description: ex.Description,
		MuscleGroup: ex.MuscleGroup,
		Difficulty:  ex.Difficulty,
		WeightLabel: ex.WeightLabel,
		VideoLink:   ex.VideoLink,
		HasVideo:    ex.VideoObjectKey != "",
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
	if ex.TrainerID != nil {
		resp.TrainerID = ex.TrainerID.Hex()
	}
	return resp
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Description Trainers create their own exercises; administrators create shared ones.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), sess, req.toInput())
	if err != nil {
		abortWithServiceError(c, err, "create exercise")
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// ListExercises godoc
// @Summary List exercises
// @Description Administrators get the whole library; trainers get their own plus the shared exercises.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param name query string false "Part of the exercise name"
// @Param muscleGroup query string false "Muscle group"
// @Success 200 {array} ExerciseResponse "List of exercises"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	filter := service.ExerciseFilter{Name: c.Query("name"), MuscleGroup: c.Query("muscleGroup")}
	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), sess, filter)
	if err != nil {
		abortWithServiceError(c, err, "list exercises")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), sess, id)
	if err != nil {
		abortWithServiceError(c, err, "get exercise")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), sess, id, req.toInput())
	if err != nil {
		abortWithServiceError(c, err, "update exercise")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise removes the exercise. Routines keep the reference and show
// it as unavailable.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), sess, id); err != nil {
		abortWithServiceError(c, err, "delete exercise")
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestVideoUpload godoc
// @Summary Get a presigned URL to upload a demonstration video
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VideoUploadRequest true "File details"
// @Success 200 {object} service.VideoUpload
// @Failure 503 {object} gin.H "Video storage not configured"
// @Router /exercises/{exerciseId}/video-upload [post]
func (h *ExerciseHandler) RequestVideoUpload(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}
	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	upload, err := h.exerciseService.RequestVideoUpload(c.Request.Context(), sess, id, req.FileName, req.ContentType)
	if err != nil {
		abortWithServiceError(c, err, "prepare video upload")
		return
	}
	c.JSON(http.StatusOK, upload)
}
