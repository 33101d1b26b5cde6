package api

import (
	"net/http"

	"gymdesk/routine-admin/internal/compose"
	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	studentService service.StudentService,
	exerciseService service.ExerciseService,
	routineService service.RoutineService,
	trainingService service.TrainingService,
	dashboardService service.DashboardService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	studentHandler := NewStudentHandler(studentService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	routineHandler := NewRoutineHandler(routineService)
	trainingHandler := NewTrainingHandler(trainingService)
	dashboardHandler := NewDashboardHandler(dashboardService)

	authMiddleware := AuthMiddleware(jwtSecret, authService)
	staffOnly := RoleMiddleware(domain.RoleAdmin, domain.RoleTrainer)

	router.SetHTMLTemplate(trainingTemplate)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Public timer page, the link embedded in routine messages.
	router.GET(compose.TimerPath+"/:routineId/:day", trainingHandler.TimerPage)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			// Anonymous only while no account exists; see AuthService.Register.
			authGroup.POST("/register", OptionalAuthMiddleware(jwtSecret, authService), authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		apiV1.GET("/public/training/:routineId/:day", trainingHandler.PublicTraining)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware, staffOnly)
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/dashboard", dashboardHandler.GetDashboard)

		// --- Staff accounts (administrators only) ---
		userGroup := protected.Group("/users")
		userGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			userGroup.GET("", userHandler.ListUsers)
			userGroup.GET("/:userId", userHandler.GetUser)
			userGroup.PUT("/:userId", userHandler.UpdateUser)
			userGroup.DELETE("/:userId", userHandler.DeleteUser)
		}

		// --- Students ---
		studentGroup := protected.Group("/students")
		{
			studentGroup.POST("", studentHandler.CreateStudent)
			studentGroup.GET("", studentHandler.ListStudents)
			studentGroup.GET("/:studentId", studentHandler.GetStudent)
			studentGroup.PUT("/:studentId", studentHandler.UpdateStudent)
			studentGroup.DELETE("/:studentId", studentHandler.DeleteStudent)
		}

		// --- Exercise library ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:exerciseId", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/video-upload", exerciseHandler.RequestVideoUpload)
		}

		// --- Routines ---
		routineGroup := protected.Group("/routines")
		{
			routineGroup.POST("", routineHandler.CreateRoutine)
			// GET /api/v1/routines?studentId=...
			routineGroup.GET("", routineHandler.ListRoutines)
			routineGroup.GET("/:routineId", routineHandler.GetRoutine)
			routineGroup.PUT("/:routineId", routineHandler.UpdateRoutine)
			routineGroup.DELETE("/:routineId", routineHandler.DeleteRoutine)

			routineGroup.GET("/:routineId/days", routineHandler.GetDays)
			routineGroup.GET("/:routineId/days/:day/message", routineHandler.GetDayMessage)
			routineGroup.POST("/:routineId/days/:day/send", routineHandler.SendDay)
			routineGroup.POST("/:routineId/days/:day/email", routineHandler.EmailDay)
			routineGroup.POST("/:routineId/days/:day/timer-link", routineHandler.IssueTimerLink)
		}
	}
}
