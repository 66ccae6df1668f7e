package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tteokbok/tteokbok-backend/config"
	"github.com/tteokbok/tteokbok-backend/internal/app/controller"
	"github.com/tteokbok/tteokbok-backend/internal/middleware"
)

type Router struct {
	userController    *controller.UserController
	projectController *controller.ProjectController
	pledgeController  *controller.PledgeController
	likeController    *controller.LikeController
	liveController    *controller.LiveController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	userController *controller.UserController,
	projectController *controller.ProjectController,
	pledgeController *controller.PledgeController,
	likeController *controller.LikeController,
	liveController *controller.LiveController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		userController:    userController,
		projectController: projectController,
		pledgeController:  pledgeController,
		likeController:    likeController,
		liveController:    liveController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "TTEOKBOK API is running",
		})
	})

	users := router.Group("/users")
	{
		users.POST("/signup", r.userController.Signup)
		users.POST("/signin", r.userController.Signin)
		users.POST("/signin/kakao", r.userController.KakaoSignin)
		users.POST("/signout", r.authMiddleware.Authenticate(), r.userController.Signout)
		users.GET("/me", r.authMiddleware.Authenticate(), r.userController.Me)
	}

	projects := router.Group("/projects")
	{
		projects.GET("", r.authMiddleware.OptionalAuthenticate(), r.projectController.List)
		projects.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.projectController.Detail)
		projects.POST("", r.authMiddleware.Authenticate(), r.projectController.Create)
		projects.PUT("", r.authMiddleware.Authenticate(), r.pledgeController.Pledge)
		projects.PATCH("/:id", r.authMiddleware.Authenticate(), r.likeController.Toggle)
		projects.DELETE("/:id", r.authMiddleware.Authenticate(), r.projectController.Delete)
		projects.GET("/:id/donations/export", r.authMiddleware.Authenticate(), r.projectController.ExportDonations)
		projects.GET("/:id/live", r.liveController.Feed)
	}

	router.GET("/categories", r.projectController.Categories)

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
