package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/prioplan/backend/api/handler"
)

type Handlers struct {
	Task     *apiHandler.TaskHandler
	Schedule *apiHandler.ScheduleHandler
	Snapshot *apiHandler.SnapshotHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// "what next" queries registered before the {id} wildcard
	r.GET("/api/v1/tasks/next", handlers.Schedule.NextTask)
	r.POST("/api/v1/tasks/next/claim", handlers.Schedule.ClaimNextTask)
	r.GET("/api/v1/schedule", handlers.Schedule.GlobalSchedule)

	r.GET("/api/v1/tasks", handlers.Task.ListTasks)
	r.POST("/api/v1/tasks", handlers.Task.CreateTask)
	r.GET("/api/v1/tasks/{id}", handlers.Task.GetTask)
	r.PUT("/api/v1/tasks/{id}", handlers.Task.UpdateTask)
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.DeleteTask)
	r.POST("/api/v1/tasks/{id}/complete", handlers.Task.CompleteTask)
	r.POST("/api/v1/tasks/{id}/progress", handlers.Task.SetProgress)
	r.POST("/api/v1/tasks/{id}/reminded", handlers.Task.MarkReminded)

	r.GET("/api/v1/snapshot", handlers.Snapshot.Export)
	r.PUT("/api/v1/snapshot", handlers.Snapshot.Import)

	return r
}
