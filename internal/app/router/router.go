// Package router はHTTPルーティングを定義します。
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "auth_backend/internal/feature/auth/transport/handler"
	platformhandler "auth_backend/internal/platform/http/handler"
	"auth_backend/internal/platform/http/middleware"
	"auth_backend/internal/platform/metrics"
)

// NewRouter はすべてのルートとミドルウェアを登録したgin.Engineを返します。
// /auth/me は認証ミドルウェアを使わず、ハンドラー内でトークンを検証します。
func NewRouter(authHandler *authhandler.AuthHandler, ready *platformhandler.ReadinessHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.OPTIONS("/healthz", platformhandler.Health)
	r.GET("/readyz", ready.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := r.Group("/auth")
	{
		// 新規ユーザー登録
		auth.POST("/register", authHandler.Register)
		// ログイン（JWT 発行）
		auth.POST("/login", authHandler.Login)
		// 現在のユーザー
		auth.GET("/me", authHandler.Me)
	}

	return r
}
