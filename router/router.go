package router

import (
	"github.com/RigelNana/edubridge/docs"
	"github.com/RigelNana/edubridge/handler"
	"github.com/RigelNana/edubridge/middleware"
	ginmetrics "github.com/RigelNana/edubridge/pkg/metrics/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const serviceName = "edubridge"

type Handlers struct {
	Users       *handler.UserHandler
	Tasks       *handler.TaskHandler
	Submissions *handler.SubmissionHandler
	Portfolio   *handler.PortfolioHandler
	EduPoints   *handler.EduPointsHandler
}

// Setup builds the engine. auth guards the routes that need a caller
// identity.
func Setup(h Handlers, auth gin.HandlerFunc, log logrus.FieldLogger, maxUploadBytes int64) *gin.Engine {
	r := gin.New()
	if maxUploadBytes > 0 {
		r.MaxMultipartMemory = maxUploadBytes
	}
	r.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		ginmetrics.PrometheusMiddleware(serviceName),
		cors.New(corsConfig()),
	)
	r.NoRoute(handler.NotFound)

	r.GET("/", handler.Health)
	docs.RegisterRoutes(r)

	users := r.Group("/users")
	{
		users.GET("", h.Users.ListUsers)
		users.POST("", h.Users.CreateUser)
		users.GET("/me", auth, h.Users.Me)
		users.GET("/:id", h.Users.GetUser)
		users.PATCH("/:id/skills", h.Users.ReplaceSkills)
		users.POST("/:id/skills", h.Users.AddSkills)
		users.DELETE("/:id/skills", h.Users.RemoveSkills)
	}

	tasks := r.Group("/tasks")
	{
		tasks.POST("", h.Tasks.CreateTask)
		tasks.GET("", h.Tasks.ListTasks)
		tasks.GET("/company/:companyId", h.Tasks.ListCompanyTasks)
		tasks.GET("/:id", h.Tasks.GetTask)
		tasks.GET("/:id/submissions", h.Tasks.ListTaskSubmissions)
	}

	submissions := r.Group("/submissions")
	{
		submissions.POST("", auth, h.Submissions.CreateSubmission)
		submissions.GET("/task/:id", h.Submissions.ListByTask)
		submissions.GET("/user/:id", h.Submissions.ListByUser)
		submissions.GET("/:id", h.Submissions.GetSubmission)
		submissions.GET("/:id/files", h.Submissions.ListFiles)
		submissions.PATCH("/:id/status", h.Submissions.UpdateStatus)
		submissions.PATCH("/:id/grade", h.Submissions.GradeSubmission)
	}

	portfolio := r.Group("/portfolio")
	{
		portfolio.GET("/:user_id", h.Portfolio.GetPortfolio)
		portfolio.POST("", h.Portfolio.AddEntry)
	}

	edupoints := r.Group("/edupoints")
	{
		edupoints.POST("/award", h.EduPoints.Award)
		edupoints.POST("/redeem", h.EduPoints.Redeem)
		edupoints.GET("/:user_id", h.EduPoints.GetLedger)
	}

	return r
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cfg
}
