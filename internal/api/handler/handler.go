package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-service/config"
	"github.com/d60-Lab/blog-service/internal/usecase"
)

// ConnectionChecker 数据库存活探测
type ConnectionChecker interface {
	IsConnected(ctx context.Context) bool
}

// Options 构造 Handler 所需依赖
type Options struct {
	Posts        usecase.PostUseCases
	Blogs        usecase.BlogUseCases
	DB           ConnectionChecker
	App          config.AppConfig
	ProbeTimeout time.Duration
}

// Handler HTTP 处理器，只负责请求/响应转换
type Handler struct {
	posts        usecase.PostUseCases
	blogs        usecase.BlogUseCases
	db           ConnectionChecker
	app          config.AppConfig
	probeTimeout time.Duration
	now          func() time.Time
}

func NewHandler(opts Options) *Handler {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 2 * time.Second
	}
	return &Handler{
		posts:        opts.Posts,
		blogs:        opts.Blogs,
		db:           opts.DB,
		app:          opts.App,
		probeTimeout: opts.ProbeTimeout,
		now:          time.Now,
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
