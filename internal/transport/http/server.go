package http

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	appsvc "usersvc/internal/app"
	"usersvc/internal/bootstrap"
	rabbitmqClient "usersvc/internal/platform/rabbitmq"
	"usersvc/internal/ratelimit"
	"usersvc/internal/repository"
	"usersvc/internal/transport/http/handler"
	"usersvc/internal/transport/http/middleware"
	"usersvc/internal/transport/http/response"
)

// NewRouter assembles the production router from bootstrapped resources.
func NewRouter(app *bootstrap.App) *gin.Engine {
	userRepo := repository.NewUserRepository(app.MySQL)
	publisher := rabbitmqClient.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.UserEventsQueue)
	userService := appsvc.NewUserService(userRepo, publisher)

	router := NewEngine(app.Config.App.GinMode, userService, app.Limiter)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	return router
}

// NewEngine wires the per-request pipeline: request log first (so rejected
// requests are still logged), panic recovery into the error envelope, then
// the rate-limited user routes. Separate from NewRouter so tests can build
// the same pipeline around an in-memory service.
func NewEngine(mode string, userService *appsvc.UserService, limiter ratelimit.Admitter) *gin.Engine {
	gin.SetMode(mode)
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	router.Use(middleware.RequestLog(), gin.CustomRecovery(response.Recovery))

	userHandler := handler.NewUserHandler(userService)
	users := router.Group("/users", middleware.RateLimit(limiter))
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)

	return router
}
