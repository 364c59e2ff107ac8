package middleware

import (
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-service/config"
)

// InitSentry 初始化 Sentry，DSN 为空时不启用
func InitSentry(app config.AppConfig, cfg config.SentryConfig) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      app.Environment,
		Release:          app.Name + "@" + app.Version,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// FlushSentry 退出前发送缓冲事件
func FlushSentry(timeout time.Duration) { sentry.Flush(timeout) }

// Sentry 上报 panic，之后继续交给 Recovery 处理
func Sentry() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second})
}
