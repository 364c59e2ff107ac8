package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-service/config"
	"github.com/d60-Lab/blog-service/internal/api"
	"github.com/d60-Lab/blog-service/internal/middleware"
	"github.com/d60-Lab/blog-service/internal/model"
	"github.com/d60-Lab/blog-service/internal/server"
	"github.com/d60-Lab/blog-service/pkg/database"
	"github.com/d60-Lab/blog-service/pkg/logger"
	"github.com/d60-Lab/blog-service/pkg/tracing"
)

const (
	flushTimeout       = 5 * time.Second
	sentryFlushTimeout = 2 * time.Second
	// 强制关闭时 drain 已经用满，退出前只留很短的收尾时间
	forcedFlushTimeout = 500 * time.Millisecond
)

// notifyContext 可在测试中替换
var notifyContext = signal.NotifyContext

// @title Blog Service API
// @version 0.1.0
// @description Posts and blogs over a relational store.
// @BasePath /
func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		// logger 尚未初始化
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		return 1
	}
	if err := logger.Init(cfg.Log); err != nil {
		_, _ = os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()
	gin.SetMode(cfg.Server.Mode)

	shutdownTracing, err := tracing.Init(context.Background(), cfg.App, cfg.Tracing)
	if err != nil {
		logger.Error("init tracing", zap.Error(err))
		return 1
	}
	budget := flushTimeout
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), budget)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	sentryEnabled, err := middleware.InitSentry(cfg.App, cfg.Sentry)
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	if sentryEnabled {
		defer func() { middleware.FlushSentry(min(budget, sentryFlushTimeout)) }()
	}

	mgr, err := database.NewManager(cfg.Database)
	if err != nil {
		logger.Error("database config", zap.Error(err))
		return 1
	}

	srv := server.New(server.Options{
		Addr:              cfg.Server.Addr(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		DrainTimeout:      cfg.Server.DrainTimeout,
	}, mgr, func() (http.Handler, error) {
		if cfg.Database.AutoMigrate {
			if err := mgr.Migrate(model.All()...); err != nil {
				return nil, err
			}
		}
		return api.NewRouter(api.Deps{Config: cfg, Store: mgr, SentryEnabled: sentryEnabled}), nil
	})

	ctx, stop := shutdownContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		budget = flushBudget(err)
		logger.Error("server stopped with error", zap.Error(err), zap.Stringer("state", srv.State()))
		return 1
	}
	logger.Info("server stopped")
	return 0
}

// shutdownContext 第一个信号取消 ctx 并恢复默认信号处理，drain 期间再发一次信号可直接终止进程
func shutdownContext(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := notifyContext(parent, sigs...)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}

// flushBudget 返回退出前 tracing/sentry 收尾的时间上限
func flushBudget(runErr error) time.Duration {
	if errors.Is(runErr, server.ErrForcedShutdown) {
		return forcedFlushTimeout
	}
	return flushTimeout
}
