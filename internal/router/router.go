package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/directorio-backend/config"
	"github.com/ikkim/directorio-backend/internal/app/controller"
	"github.com/ikkim/directorio-backend/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by the router.
type Controllers struct {
	Wizard    *controller.WizardController
	Slug      *controller.SlugController
	Workspace *controller.WorkspaceController
	Media     *controller.MediaController
	Hours     *controller.HoursController
	Review    *controller.ReviewController
	Blog      *controller.BlogController
	Public    *controller.PublicController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(controllers Controllers, authMiddleware *middleware.AuthMiddleware, cfg *config.Config) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Directorio API is running",
		})
	})

	// Local blobs are served by the API itself
	if r.config.Storage.Driver == "file" {
		router.Static("/uploads", r.config.Storage.LocalDir)
	}

	ctrl := r.controllers
	v1 := router.Group("/api/v1")
	{
		v1.GET("/platforms", ctrl.Public.ListPlatforms)
		v1.GET("/categories", ctrl.Public.ListCategories)

		slugs := v1.Group("/slugs")
		{
			slugs.GET("/check", ctrl.Slug.Check)
			slugs.GET("/derive", ctrl.Slug.Derive)
			slugs.GET("/live", r.authMiddleware.OptionalAuthenticate(), ctrl.Slug.Live)
		}

		// Guests may fill the wizard; submit answers 401 until they sign in
		wizard := v1.Group("/wizard/sessions", r.authMiddleware.OptionalAuthenticate())
		{
			wizard.POST("", ctrl.Wizard.StartSession)
			wizard.GET("/:id", ctrl.Wizard.GetSession)
			wizard.POST("/:id/steps/:step", ctrl.Wizard.CompleteStep)
			wizard.POST("/:id/back", ctrl.Wizard.Back)
			wizard.POST("/:id/submit", ctrl.Wizard.Submit)
			wizard.DELETE("/:id", ctrl.Wizard.Discard)
		}

		companies := v1.Group("/companies")
		{
			companies.GET("/:slug", ctrl.Public.GetProfile)
			companies.POST("/:slug/reviews", ctrl.Review.CreateReview)
			companies.GET("/:slug/blogs/:blogSlug", ctrl.Blog.GetPublished)
		}

		v1.POST("/links/:id/click", ctrl.Public.ClickLink)
		v1.POST("/products/:id/click", ctrl.Public.ClickProduct)

		admin := v1.Group("/admin/companies", r.authMiddleware.Authenticate())
		{
			admin.GET("", ctrl.Workspace.ListCompanies)

			company := admin.Group("/:companyId")
			{
				company.DELETE("/workspace", ctrl.Workspace.Close)
				ctrl.Workspace.Links.Routes(company.Group("/links"))
				ctrl.Workspace.Products.Routes(company.Group("/products"))

				company.GET("/media", ctrl.Media.Slots)
				company.POST("/media/:slot", ctrl.Media.Upload)
				company.DELETE("/media/:imageId", ctrl.Media.Remove)

				company.GET("/hours", ctrl.Hours.ListHours)
				company.PUT("/hours/:day", ctrl.Hours.SetHours)
				company.DELETE("/hours/:day", ctrl.Hours.ClearDay)

				company.GET("/reviews", ctrl.Review.ListReviews)
				company.PUT("/reviews/:reviewId", ctrl.Review.UpdateReview)
				company.POST("/reviews/:reviewId/approve", ctrl.Review.ApproveReview)
				company.DELETE("/reviews/:reviewId", ctrl.Review.DeleteReview)

				company.GET("/blogs", ctrl.Blog.ListBlogs)
				company.POST("/blogs", ctrl.Blog.CreateBlog)
				company.PUT("/blogs/:blogId", ctrl.Blog.UpdateBlog)
				company.PUT("/blogs/:blogId/published", ctrl.Blog.SetPublished)
				company.DELETE("/blogs/:blogId", ctrl.Blog.DeleteBlog)
			}
		}
	}

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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
