// Package router HTTP路由表
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/rebook/internal/domain/user"
	"github.com/xiebiao/rebook/internal/infrastructure/config"
	"github.com/xiebiao/rebook/internal/interface/http/handler"
	"github.com/xiebiao/rebook/internal/interface/http/middleware"
	"github.com/xiebiao/rebook/pkg/response"
)

// Handlers 路由用到的全部处理器
type Handlers struct {
	User     *handler.UserHandler
	Book     *handler.BookHandler
	Category *handler.CategoryHandler
	File     *handler.FileHandler
}

// New 创建Gin引擎并注册路由
//
//	GET    /ping                  健康检查
//	GET    /metrics               Prometheus
//	GET    /swagger/*any          API文档（server.enable_swagger）
//	POST   /user/signup|login     公开
//	POST   /user/logout           登录
//	GET    /api/v1/books          登录，?sort=latest
//	GET    /api/v1/categories     登录
//	GET    /api/v1/book/:id       登录
//	POST   /api/v1/book           图书管理员
//	DELETE /api/v1/book/:id       图书管理员
//	POST   /api/v1/category       图书管理员
//	GET    /api/v1/file/*ref      登录
func New(cfg config.ServerConfig, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.Metrics(), middleware.CORS(cfg.CORS))

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	users := r.Group("/user")
	{
		users.POST("/signup", h.User.Signup)
		users.POST("/login", h.User.Login)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
	}

	v1 := r.Group("/api/v1")

	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())
	{
		authorized.GET("/books", h.Book.ListBooks)
		authorized.GET("/book/:id", h.Book.GetBook)
		authorized.GET("/categories", h.Category.ListCategories)
		authorized.GET("/file/*ref", h.File.GetFile)
	}

	librarian := authorized.Group("")
	librarian.Use(middleware.RequireRole(user.RoleLibrarian))
	{
		librarian.POST("/book", h.Book.PublishBook)
		librarian.DELETE("/book/:id", h.Book.DeleteBook)
		librarian.POST("/category", h.Category.CreateCategory)
	}

	return r
}
