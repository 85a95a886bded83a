// Package di はauthフィーチャーの依存関係を組み立てます。
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "auth_backend/internal/feature/auth/adapters"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/cache"
	jwtmw "auth_backend/internal/platform/jwt"
)

// NewUserRepository はUserRepositoryの実装を生成します。
// Redisが利用可能な場合はFindByIDをキャッシュするデコレーターで包み、
// そうでなければGORM実装をそのまま返します。
func NewUserRepository(rdb *redis.Client, db *gorm.DB, cacheTTL time.Duration) usecase.UserRepository {
	users := authadapters.NewUserGorm(db)
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, cacheTTL, users, "users")
	}
	return users
}

// NewAuthHandler はユースケースとトークン生成・検証器を組み立ててハンドラーを返します。
// トークンの有効期限は15分固定です。
func NewAuthHandler(users usecase.UserRepository, hasher usecase.PasswordHasher, secret string, opts ...jwtmw.Option) (*authhandler.AuthHandler, error) {
	generator := jwtmw.NewGenerator(secret, jwtmw.AccessTokenTTL, opts...)
	verifier := jwtmw.NewVerifier(secret, opts...)

	authUC, err := usecase.NewAuthUsecase(users, hasher, generator, verifier)
	if err != nil {
		return nil, err
	}
	return authhandler.NewAuthHandler(authUC), nil
}
