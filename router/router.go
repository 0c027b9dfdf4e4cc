// router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/accessledger/controller"
	"github.com/dev-mohitbeniwal/accessledger/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	jwtSecret string,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	api.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	controllers.Grant.RegisterRoutes(api)
	controllers.Permission.RegisterRoutes(api)
	controllers.User.RegisterRoutes(api)
	controllers.Group.RegisterRoutes(api)
	controllers.Resource.RegisterRoutes(api)
	controllers.Profile.RegisterRoutes(api)
	controllers.History.RegisterRoutes(api)

	return router
}
