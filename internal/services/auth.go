package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/contacthub/backend/internal/logger"
	"github.com/contacthub/backend/internal/repos"
	"github.com/contacthub/backend/internal/types"
)

// Claims is the identity claim carried by an access token. ID is kept
// as an explicit claim rather than the registered subject because
// every protected handler keys authorization off it.
type Claims struct {
	Username string          `json:"username"`
	ID       string          `json:"id"`
	Photo    types.PhotoInfo `json:"photoInfo"`
	jwt.RegisteredClaims
}

// LoginResult is the login response payload: the signed token plus the
// public identity fields the client renders without another round trip.
type LoginResult struct {
	Token    string          `json:"token"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Photo    types.PhotoInfo `json:"photoInfo"`
	ID       uuid.UUID       `json:"id"`
}

type AuthService interface {
	Register(ctx context.Context, username, name, password string) (*types.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	VerifyToken(tokenString string) (*Claims, error)
	AccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Register(ctx context.Context, username, name, password string) (*types.User, error) {
	if username == "" {
		return nil, NewValidationError("A username is required to register")
	}
	if name == "" {
		return nil, NewValidationError("A name is required to register")
	}
	if password == "" {
		return nil, NewValidationError("A password is required to register")
	}

	exists, err := as.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, NewValidationError("Username is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
		Photo:        types.DefaultPhoto(),
		ContactRefs:  []string{},
	}
	created, err := as.userRepo.Create(ctx, nil, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	as.log.Info("User registered", "user_id", created.ID)
	return created, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same failure as a wrong password, so the response does
			// not reveal whether the username exists.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		Username: user.Username,
		ID:       user.ID.String(),
		Photo:    user.Photo,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{
		Token:    signed,
		Username: user.Username,
		Name:     user.Name,
		Photo:    user.Photo,
		ID:       user.ID,
	}, nil
}

// VerifyToken checks signature and expiry only. The presence of the id
// claim is checked per handler, not here; not every endpoint requires
// it.
func (as *authService) VerifyToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return nil, ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (as *authService) AccessTTL() time.Duration {
	return as.accessTTL
}
