package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-collab-api/internal/client"
	"project-collab-api/internal/handler"
	"project-collab-api/internal/metrics"
	"project-collab-api/internal/middleware"
	"project-collab-api/internal/repository"
	"project-collab-api/internal/service"
)

// Config holds the dependencies the router wires together
type Config struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *zap.Logger
	JWTSecret      string
	UserClient     client.UserClient
	BasePath       string
	AllowedOrigins []string
	Metrics        *metrics.Metrics
}

// Setup builds the gin engine with all routes and middleware wired
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Repositories
	projectRepo := repository.NewProjectRepository(cfg.DB)
	memberRepo := repository.NewMemberRepository(cfg.DB)
	invitationRepo := repository.NewInvitationRepository(cfg.DB)
	statusRepo := repository.NewStatusRepository(cfg.DB)
	taskRepo := repository.NewTaskRepository(cfg.DB)

	// Services
	gate := service.NewRoleGate(memberRepo, cfg.Redis, cfg.Logger)
	projectService := service.NewProjectService(projectRepo, memberRepo, invitationRepo, statusRepo, gate, cfg.Metrics, cfg.Logger)
	memberService := service.NewMemberService(memberRepo, projectRepo, cfg.UserClient, gate, cfg.Logger)
	invitationService := service.NewInvitationService(invitationRepo, memberRepo, cfg.UserClient, gate, cfg.Metrics, cfg.Logger)
	statusService := service.NewStatusService(statusRepo, gate, cfg.Logger)
	taskService := service.NewTaskService(taskRepo, statusRepo, gate, cfg.Metrics, cfg.Logger)

	// Handlers
	projectHandler := handler.NewProjectHandler(projectService)
	memberHandler := handler.NewMemberHandler(memberService)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	statusHandler := handler.NewStatusHandler(statusService)
	taskHandler := handler.NewTaskHandler(taskService)
	healthHandler := handler.NewHealthHandler(cfg.Redis)

	// Health and metrics endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group(cfg.BasePath)
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		projects := api.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:projectId", projectHandler.GetProject)
			projects.PUT("/:projectId", projectHandler.UpdateProject)
			projects.DELETE("/:projectId", projectHandler.DeleteProject)

			projects.POST("/:projectId/members", memberHandler.AddMember)
			projects.GET("/:projectId/members", memberHandler.ListMembers)
			projects.PUT("/:projectId/members/:userId", memberHandler.ChangeRole)
			projects.DELETE("/:projectId/members/:userId", memberHandler.RemoveMember)

			projects.POST("/:projectId/invitations", invitationHandler.Invite)
			projects.GET("/:projectId/invitations", invitationHandler.ListProjectInvitations)
			projects.DELETE("/:projectId/invitations/:invitationId", invitationHandler.Cancel)

			projects.POST("/:projectId/statuses", statusHandler.CreateStatus)
			projects.GET("/:projectId/statuses", statusHandler.ListStatuses)
			projects.PUT("/:projectId/statuses/reorder", statusHandler.ReorderStatuses)
			projects.PUT("/:projectId/statuses/:statusId", statusHandler.UpdateStatus)
			projects.DELETE("/:projectId/statuses/:statusId", statusHandler.DeleteStatus)

			projects.POST("/:projectId/tasks", taskHandler.CreateTask)
			projects.GET("/:projectId/board", taskHandler.GetBoard)
			projects.GET("/:projectId/tasks/:taskId", taskHandler.GetTask)
			projects.PUT("/:projectId/tasks/:taskId", taskHandler.UpdateTask)
			projects.PUT("/:projectId/tasks/:taskId/move", taskHandler.MoveTask)
			projects.DELETE("/:projectId/tasks/:taskId", taskHandler.DeleteTask)
		}

		invitations := api.Group("/invitations")
		{
			invitations.GET("", invitationHandler.ListMyInvitations)
			invitations.POST("/:invitationId/accept", invitationHandler.Accept)
			invitations.POST("/:invitationId/reject", invitationHandler.Reject)
		}
	}

	return r
}
