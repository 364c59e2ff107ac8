package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-service/config"
	_ "github.com/d60-Lab/blog-service/docs"
	"github.com/d60-Lab/blog-service/internal/api/handler"
	"github.com/d60-Lab/blog-service/internal/middleware"
	"github.com/d60-Lab/blog-service/internal/repository"
	"github.com/d60-Lab/blog-service/internal/usecase"
	"github.com/d60-Lab/blog-service/pkg/metrics"
	"github.com/d60-Lab/blog-service/pkg/response"
)

// Store 路由装配需要的数据库能力，由 database.Manager 实现
type Store interface {
	Client() *gorm.DB
	IsConnected(ctx context.Context) bool
}

// Deps 路由依赖
type Deps struct {
	Config        *config.Config
	Store         Store
	SentryEnabled bool
}

// NewRouter 启动时装配一次依赖图：repository -> usecase -> handler -> route
func NewRouter(d Deps) *gin.Engine {
	db := d.Store.Client()
	posts := usecase.NewPostUseCases(repository.NewPostRepository(db))
	blogs := usecase.NewBlogUseCases(repository.NewBlogRepository(db))

	h := handler.NewHandler(handler.Options{
		Posts:        posts,
		Blogs:        blogs,
		DB:           d.Store,
		App:          d.Config.App,
		ProbeTimeout: d.Config.Health.ProbeTimeout,
	})

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Middleware(),
		middleware.Recovery(),
	)
	if d.SentryEnabled {
		r.Use(middleware.Sentry())
	}
	if d.Config.Tracing.Enabled {
		r.Use(otelgin.Middleware(d.Config.App.Name))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerPostRoutes(r, h)
	registerBlogRoutes(r, h)

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "route not found")
	})
	return r
}

func registerPostRoutes(r gin.IRouter, h *handler.Handler) {
	r.GET("/posts", h.ListPosts)
	r.GET("/posts/:id", h.GetPost)
	r.POST("/posts", h.CreatePost)
	r.PATCH("/posts/:id", h.UpdatePost)
	r.DELETE("/posts/:id", h.DeletePost)
}

func registerBlogRoutes(r gin.IRouter, h *handler.Handler) {
	r.GET("/blogs", h.ListBlogs)
	r.GET("/blogs/:id", h.GetBlog)
	r.POST("/blogs", h.CreateBlog)
}
