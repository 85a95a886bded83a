// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/transport/http/dto"
	"auth_backend/internal/feature/auth/usecase"
	jwtmw "auth_backend/internal/platform/jwt"
	"auth_backend/internal/platform/metrics"
)

const (
	msgInvalidRequest     = "invalid request"
	msgInvalidCredentials = "invalid email or password"
	msgUnauthorized       = "unauthorized"
	msgInternal           = "internal server error"
	msgSignedUp           = "Successfully signed up"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、作成されたユーザーを返します。
	Register(ctx context.Context, email, password string, profile map[string]any) (*entity.User, error)
	// ValidateUser は資格情報を検証します。不一致の場合は (nil, nil) を返します。
	ValidateUser(ctx context.Context, email, password string) (*entity.User, error)
	// Login は検証済みユーザーのJWTトークンを発行します。
	Login(user *entity.User) (string, error)
	// Authenticate はトークンが指すユーザーを返します。
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - email/password以外のトップレベル項目はプロフィールとして保存
// - バリデーションエラー時は400を返却
// - メール重複時は403を返却
// - その他の失敗時は500を返却
// - 成功時はパスワードハッシュを除いたユーザーと共に201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.RegisterReq
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		slog.WarnContext(ctx, "register validation failed", "error", err, "remote_addr", c.ClientIP())
		metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return
	}
	var body map[string]any
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		slog.WarnContext(ctx, "register validation failed", "error", err, "remote_addr", c.ClientIP())
		metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return
	}

	user, err := h.auth.Register(ctx, req.Email, req.Password, dto.ProfileFields(body))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			slog.WarnContext(ctx, "register rejected: duplicate email", "email", req.Email, "remote_addr", c.ClientIP())
			metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeDuplicate)
			c.JSON(http.StatusForbidden, dto.ErrorRes{Error: usecase.ErrEmailAlreadyExists.Error()})
		case errors.Is(err, usecase.ErrInvalidInput):
			slog.WarnContext(ctx, "register validation failed", "error", err, "remote_addr", c.ClientIP())
			metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeInvalid)
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		default:
			slog.ErrorContext(ctx, "register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
			metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeError)
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
		}
		return
	}

	slog.InfoContext(ctx, "user registration successful", "email", user.Email, "remote_addr", c.ClientIP())
	metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeSuccess)
	c.JSON(http.StatusCreated, dto.RegisterRes{
		Message: msgSignedUp,
		Data:    dto.RegisterResData{NewUser: dto.NewUserRes(user)},
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 資格情報の検証（ValidateUser）を先に行い、成功した場合のみトークンを発行（Login）します。
// - 資格情報の欠落・不一致は401を返却
// - ストレージ障害やトークン生成失敗は500を返却
// - 成功時はaccess_token付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "login validation failed", "error", err, "remote_addr", c.ClientIP())
		metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeDenied)
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgInvalidCredentials})
		return
	}

	user, err := h.auth.ValidateUser(ctx, req.Email, req.Password)
	if err != nil {
		slog.ErrorContext(ctx, "login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeError)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
		return
	}
	if user == nil {
		// ユーザー列挙攻撃を防止するため、未登録と不一致を区別しない
		slog.WarnContext(ctx, "login failed", "email", req.Email, "remote_addr", c.ClientIP())
		metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeDenied)
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgInvalidCredentials})
		return
	}

	token, err := h.auth.Login(user)
	if err != nil {
		slog.ErrorContext(ctx, "token issuance failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeError)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
		return
	}

	slog.InfoContext(ctx, "user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, dto.LoginRes{AccessToken: token})
}

// Me は現在のユーザーを返すAPIエンドポイントを処理します。
// Authorizationヘッダーのベアラートークンをリクエストごとに検証します。
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.auth.Authenticate(ctx, jwtmw.BearerToken(c))
	if err != nil {
		if errors.Is(err, usecase.ErrUnauthenticated) {
			slog.WarnContext(ctx, "authentication failed", "error", err, "remote_addr", c.ClientIP())
			metrics.RecordAuth(metrics.OpAuthenticate, metrics.OutcomeDenied)
			c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgUnauthorized})
			return
		}
		slog.ErrorContext(ctx, "authentication lookup failed", "error", err, "remote_addr", c.ClientIP())
		metrics.RecordAuth(metrics.OpAuthenticate, metrics.OutcomeError)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
		return
	}

	metrics.RecordAuth(metrics.OpAuthenticate, metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}
