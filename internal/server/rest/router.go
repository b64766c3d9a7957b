package rest

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/dkireev/realty/internal/server/config"
)

func (s *Server) buildRouter(cfg *config.Config, us UserService, ls ListingService, ps PhotoService, limiter RateLimiter) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("password", passwordRule)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handlers{users: us, listings: ls, photos: ps}

	api := router.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", h.signup)
			// The limiter covers only token issuance; everything else
			// bypasses it.
			authRoutes.POST("/token", rateLimit(limiter), h.login)
			authRoutes.POST("/logout", requireAuth(us), h.logout)
		}

		userRoutes := api.Group("/users", requireAuth(us))
		{
			userRoutes.GET("/me", h.currentUser)
			userRoutes.PATCH("/me", h.updateProfile)
			userRoutes.PUT("/me/password", h.changePassword)
			userRoutes.DELETE("/me", h.deleteAccount)
			userRoutes.GET("/me/listings", h.myListings)

			admin := userRoutes.Group("", requireSuperuser(us))
			{
				admin.GET("", h.listUsers)
				admin.GET("/:id", h.getUser)
				admin.DELETE("", h.deleteAllUsers)
				admin.POST("/fake", h.generateFakeUsers)
			}
		}

		listingRoutes := api.Group("/listings")
		{
			listingRoutes.GET("", h.listListings)
			listingRoutes.GET("/:id", h.getListing)
			listingRoutes.GET("/:id/photos", h.listPhotos)

			authed := listingRoutes.Group("", requireAuth(us))
			{
				authed.POST("", h.createListing)
				authed.PATCH("/:id", h.updateListing)
				authed.DELETE("/:id", h.deleteListing)
				authed.DELETE("", h.deleteListings)
				authed.POST("/:id/photos", h.addPhoto)
			}
		}

		photoRoutes := api.Group("/photos")
		{
			photoRoutes.GET("/:id/url", h.photoURL)
			photoRoutes.DELETE("/:id", requireAuth(us), h.deletePhoto)
		}
	}

	return router
}
