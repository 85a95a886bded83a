// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// readyTimeout は依存先ごとの疎通確認のタイムアウトです。
const readyTimeout = 2 * time.Second

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// プロセスが応答できることだけを示し、依存先には触れません。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Checker は依存先（DB、Redisなど）への疎通を確認する関数です。
type Checker func(ctx context.Context) error

// ReadinessHandler は /readyz エンドポイントを処理します。
type ReadinessHandler struct {
	checks map[string]Checker
}

// NewReadinessHandler は名前付きの疎通確認を受け取ります。nilのCheckerは無視されます。
func NewReadinessHandler(checks map[string]Checker) *ReadinessHandler {
	filtered := make(map[string]Checker, len(checks))
	for name, check := range checks {
		if check != nil {
			filtered[name] = check
		}
	}
	return &ReadinessHandler{checks: filtered}
}

// Ready はすべての依存先が応答する場合に200、いずれかが失敗した場合に503を返します。
// 失敗の詳細はログにのみ出力します。
func (h *ReadinessHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	results := make(gin.H, len(h.checks))
	ready := true
	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		err := check(ctx)
		cancel()
		if err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			results[name] = "unavailable"
			ready = false
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": results})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": results})
}
