// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"auth_backend/internal/feature/auth/domain/entity"
)

// dummyPassword はユーザー未検出時のダミー検証に使うハッシュの元になる文字列です。
const dummyPassword = "timing-equalization-placeholder"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化し、採番されたIDとタイムスタンプを設定します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// PasswordHasher はメモリハードなパスワードハッシュの生成と検証を定義します。
type PasswordHasher interface {
	// Hash はソルト付きのハッシュ文字列を生成します。
	Hash(password string) (string, error)
	// Verify はパスワードがハッシュと一致するかを返します。
	Verify(password, encodedHash string) (bool, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email string) (string, error)
}

// JWTVerifier はJWTトークン検証のインターフェースを定義します。
type JWTVerifier interface {
	// VerifyToken は署名と有効期限を検証し、subクレームのユーザーIDを返します。
	VerifyToken(token string) (uint, error)
}

// authUsecase は認証ビジネスロジックを実装します。
// 生成後は読み取り専用のため、並行リクエストから安全に呼び出せます。
type authUsecase struct {
	users        UserRepository
	hasher       PasswordHasher
	jwtGenerator JWTGenerator
	jwtVerifier  JWTVerifier
	dummyHash    string
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// ユーザー未検出時の検証コストを揃えるため、ここでダミーハッシュを一度だけ計算します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, jwtGenerator JWTGenerator, jwtVerifier JWTVerifier) (*authUsecase, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &authUsecase{
		users:        users,
		hasher:       hasher,
		jwtGenerator: jwtGenerator,
		jwtVerifier:  jwtVerifier,
		dummyHash:    dummyHash,
	}, nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、作成されたユーザーを返します。
// プロフィール項目はそのまま保存されます。
func (u *authUsecase) Register(ctx context.Context, email, password string, profile map[string]any) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Email: email, Password: hashed, Profile: profile}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ValidateUser はメールアドレスとパスワードを検証します。
// ユーザー未検出とパスワード不一致はどちらも (nil, nil) を返し、どちらで失敗したかを区別しません。
// エラーを返すのはストレージ障害の場合のみです。
func (u *authUsecase) ValidateUser(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, nil
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// ユーザーが存在しない場合もダミーハッシュで検証し、応答時間の差をなくす
	passwordHash := u.dummyHash
	if user != nil {
		passwordHash = user.Password
	}
	ok, verifyErr := u.hasher.Verify(password, passwordHash)

	if user == nil || verifyErr != nil || !ok {
		return nil, nil
	}
	return user, nil
}

// Login は検証済みユーザーに対して署名済みJWTトークンを発行します。
// 資格情報の検証は呼び出し側がValidateUserで事前に行います。
func (u *authUsecase) Login(user *entity.User) (string, error) {
	if user == nil {
		return "", ErrUnauthenticated
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Authenticate はトークンを検証し、subクレームが指すユーザーを返します。
// トークンが不正・期限切れ、またはユーザーが存在しない場合はErrUnauthenticatedを返します。
func (u *authUsecase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	userID, err := u.jwtVerifier.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
