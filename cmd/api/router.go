package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookcatalog/internal/shared/middleware"
	"bookcatalog/internal/shared/response"
	"bookcatalog/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
	)

	cartSession := middleware.DefaultCartSessionConfig()
	if c.Config.IsDevelopment() {
		cartSession.CookieSecure = false
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupBookRoutes(v1, c)
		setupCartRoutes(v1, c, cartSession)
	}

	return router
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/categories", c.BookHandler.ListCategories)
		books.GET("/export", c.BookHandler.ExportBooks)
		books.GET("/:id", c.BookHandler.GetBook)
		books.POST("", c.BookHandler.CreateBook)
		books.PUT("/:id", c.BookHandler.UpdateBook)
		books.DELETE("/:id", c.BookHandler.DeleteBook)
	}
}

func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container, cfg middleware.CartSessionConfig) {
	cart := v1.Group("/cart")
	cart.Use(middleware.CartSession(cfg))
	{
		cart.GET("", c.CartHandler.GetCart)
		cart.DELETE("", c.CartHandler.ClearCart)
		cart.POST("/items", c.CartHandler.AddItem)
		cart.DELETE("/items/:bookId", c.CartHandler.RemoveItem)
		cart.POST("/checkout", c.CartHandler.Checkout)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status, healthy := c.HealthCheck(ctx.Request.Context())
		if !healthy {
			response.ErrorWithDetails(ctx, http.StatusServiceUnavailable, response.CodeStorageUnavailable, "unhealthy", status)
			return
		}
		response.Success(ctx, http.StatusOK, gin.H{
			"status":       "healthy",
			"version":      c.Config.App.Version,
			"dependencies": status,
		})
	}
}
