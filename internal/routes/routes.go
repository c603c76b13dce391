package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Setup registers every API route. storage may be nil, in which case the
// rate limiters keep their counters in process memory.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	users store.UserStore,
	storage fiber.Storage,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	learningHandler *handlers.LearningHandler,
	statsHandler *handlers.StatisticsHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	api.Use(rateLimiter("api", cfg.RateLimitMax, storage))

	api.Get("/health", healthHandler.Check)

	// Stricter limit for credential endpoints
	auth := api.Group("/auth")
	auth.Use(rateLimiter("auth", cfg.AuthRateLimitMax, storage))
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Put("/change-password", middleware.JWTProtected(cfg), authHandler.ChangePassword)

	api.Get("/courses", middleware.JWTProtected(cfg), learningHandler.ListCourses)

	user := api.Group("/user", middleware.JWTProtected(cfg), middleware.ResolveUser(users))
	user.Post("/add-course", learningHandler.AddCourse)
	user.Put("/update-progress/:courseId", learningHandler.UpdateProgress)
	user.Put("/mark-complete/:courseId", learningHandler.MarkComplete)
	user.Post("/submit-to-supervisor/:courseId", learningHandler.SubmitToSupervisor)
	user.Get("/learning-bucket", learningHandler.GetLearningBucket)
	user.Get("/scores", learningHandler.GetScores)
	user.Get("/verified-courses", learningHandler.GetVerifiedCourses)
	user.Get("/skills", learningHandler.GetSkills)
	user.Get("/skills-by-department", learningHandler.GetSkillsByDepartment)
	user.Get("/profile", learningHandler.GetProfile)
	user.Get("/certifications", learningHandler.GetCertifications)
	user.Get("/statistics/:employeeId", statsHandler.GetStatistics)
	user.Get("/recommendations/:employeeId", statsHandler.GetRecommendations)

	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(users))
	admin.Post("/add", adminHandler.CreateEmployee)
	admin.Post("/bulk-upload", adminHandler.BulkUpload)
	admin.Get("/employees", adminHandler.ListEmployees)
	admin.Delete("/employees/:id", adminHandler.DeleteEmployee)
	admin.Get("/departments", adminHandler.ListDepartments)
	admin.Post("/departments", adminHandler.CreateDepartment)
	admin.Delete("/departments/:id", adminHandler.DeleteDepartment)
	admin.Get("/skills", adminHandler.ListSkills)
	admin.Post("/skills", adminHandler.CreateSkill)
	admin.Get("/courses", learningHandler.ListCourses)
	admin.Post("/courses", adminHandler.CreateCourse)
	admin.Delete("/courses/:id", adminHandler.DeleteCourse)
	admin.Put("/verify/:userId/:courseId", adminHandler.VerifyEnrollment)
}

// rateLimiter counts per client IP under its own key prefix, so limiters
// sharing one storage never add to each other's counters.
func rateLimiter(name string, limit int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return name + ":" + c.IP() },
		Storage:           storage,
	})
}
