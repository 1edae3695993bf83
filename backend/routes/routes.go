package routes

import (
	"log"
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/middleware"
	"project/backend/realtime"
	"project/backend/services"
	"project/backend/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, bus realtime.Bus, files *storage.FileStore, transcriber services.Transcriber, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	tutorMiddleware := middleware.TutorMiddleware()

	app.Get("/api/user/profile", authMiddleware, authController.GetProfile)

	// Course catalog
	coursesController := controllers.NewCoursesController(db, cfg, files)
	contentsController := controllers.NewContentsController(db, cfg, files)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Get("/:id/contents", contentsController.GetContents)

	// Enrollment and completion
	enrollmentsController := controllers.NewEnrollmentsController(db, cfg)
	courses.Post("/:id/enroll", enrollmentsController.Enroll)
	courses.Get("/:id/enrollment", enrollmentsController.GetEnrollment)
	app.Get("/api/enrollments", authMiddleware, enrollmentsController.GetEnrollments)
	app.Put("/api/enrollments/:id/lessons/:lessonId", authMiddleware, enrollmentsController.ToggleCompletion)

	// Course chat
	chatController := controllers.NewChatController(db, cfg, bus, logger)
	courses.Get("/:id/chat", chatController.GetMessages)
	courses.Post("/:id/chat", chatController.PostMessage)
	courses.Get("/:id/chat/stream", chatController.StreamMessages)

	// Tutor routes for courses and contents
	tutorCourses := app.Group("/api/tutor/courses", authMiddleware, tutorMiddleware)
	tutorCourses.Get("/", coursesController.GetTutorCourses)
	tutorCourses.Post("/", coursesController.CreateCourse)
	tutorCourses.Put("/:id", coursesController.UpdateCourse)
	tutorCourses.Put("/:id/status", coursesController.UpdateCourseStatus)
	tutorCourses.Put("/:id/thumbnail", coursesController.UpdateThumbnail)
	tutorCourses.Delete("/:id", coursesController.DeleteCourse)
	tutorCourses.Post("/:id/contents", contentsController.AddContent)
	tutorCourses.Put("/:id/contents/:contentId", contentsController.UpdateContent)
	tutorCourses.Delete("/:id/contents/:contentId", contentsController.DeleteContent)
	tutorCourses.Post("/:id/contents/:contentId/move", contentsController.MoveContent)
	tutorCourses.Post("/:id/contents/reorder", contentsController.ReorderContent)

	// Transcription helpers
	transcriptsController := controllers.NewTranscriptsController(db, cfg, transcriber)
	tutor := app.Group("/api/tutor", authMiddleware, tutorMiddleware)
	tutor.Post("/transcribe", transcriptsController.Transcribe)
	tutor.Post("/contents/:id/transcribe", transcriptsController.TranscribeContent)
	tutor.Put("/contents/:id/transcript", transcriptsController.SaveTranscript)
}
