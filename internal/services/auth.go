package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/seojin-dev/moodshift-backend/internal/normalization"
	"github.com/seojin-dev/moodshift-backend/internal/platform/apierr"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/repos"
	"github.com/seojin-dev/moodshift-backend/internal/requestdata"
	"github.com/seojin-dev/moodshift-backend/internal/types"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, username, password string) (*types.User, string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^010-\d{4}-\d{4}$`)
)

func validateRegistration(user *types.User) error {
	if len(user.Username) < 4 || len(user.Username) > 50 {
		return apierr.New(http.StatusBadRequest, "invalid_username",
			fmt.Errorf("username must be 4 to 50 characters"))
	}
	if len(user.Password) < 8 {
		return apierr.New(http.StatusBadRequest, "invalid_password",
			fmt.Errorf("password must be at least 8 characters"))
	}
	if len(user.PersonName) < 2 || len(user.NickName) < 2 {
		return apierr.New(http.StatusBadRequest, "invalid_name",
			fmt.Errorf("person name and nickname must be at least 2 characters"))
	}
	if !emailPattern.MatchString(user.Email) {
		return apierr.New(http.StatusBadRequest, "invalid_email",
			fmt.Errorf("malformed email address"))
	}
	if !phonePattern.MatchString(user.Phone) {
		return apierr.New(http.StatusBadRequest, "invalid_phone",
			fmt.Errorf("phone must look like 010-1234-5678"))
	}
	return nil
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	user.Username = normalization.ParseInputString(user.Username)
	user.Email = normalization.ParseInputString(user.Email)
	user.PersonName = normalization.TrimInputString(user.PersonName)
	user.NickName = normalization.TrimInputString(user.NickName)
	user.Phone = normalization.TrimInputString(user.Phone)

	if err := validateRegistration(user); err != nil {
		return err
	}

	exists, err := as.userRepo.UsernameExists(ctx, nil, user.Username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists {
		return apierr.New(http.StatusConflict, "username_taken",
			fmt.Errorf("username %q already in use", user.Username))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashed)
	if user.Role == "" {
		user.Role = types.RoleMember
	}
	user.ID = uuid.New()

	if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return apierr.New(http.StatusConflict, "user_exists", err)
		}
		return fmt.Errorf("create user: %w", err)
	}

	as.log.Info("User registered", "user_id", user.ID.String(), "username", user.Username)
	return nil
}

func (as *authService) LoginUser(ctx context.Context, username, password string) (*types.User, string, string, error) {
	username = normalization.ParseInputString(username)
	if username == "" || password == "" {
		return nil, "", "", apierr.New(http.StatusBadRequest, "missing_credentials",
			fmt.Errorf("username and password are required"))
	}

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, "", "", apierr.New(http.StatusUnauthorized, "invalid_credentials",
				fmt.Errorf("unknown username or wrong password"))
		}
		return nil, "", "", fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", apierr.New(http.StatusUnauthorized, "invalid_credentials",
			fmt.Errorf("unknown username or wrong password"))
	}

	var accessToken, refreshToken string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// One live session per user: drop any previous tokens.
		if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("clear previous tokens: %w", err)
		}

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()

		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, &userToken); cErr != nil {
			return fmt.Errorf("create user token: %w", cErr)
		}
		return nil
	}); err != nil {
		return nil, "", "", err
	}

	as.log.Info("User logged in", "user_id", user.ID.String())
	return user, accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", apierr.New(http.StatusUnauthorized, "missing_refresh_token",
			fmt.Errorf("no refresh token in request context"))
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ftErr := as.userTokenRepo.GetByRefreshToken(ctx, tx, rd.RefreshToken)
		if ftErr != nil {
			if errors.Is(ftErr, repos.ErrNotFound) {
				return apierr.New(http.StatusUnauthorized, "invalid_refresh_token",
					fmt.Errorf("refresh token not recognized"))
			}
			return fmt.Errorf("fetch refresh token: %w", ftErr)
		}
		if existing.ExpiresAt.Before(time.Now()) {
			_ = as.userTokenRepo.Delete(ctx, tx, existing.ID)
			return apierr.New(http.StatusUnauthorized, "refresh_token_expired",
				fmt.Errorf("refresh token expired"))
		}

		user, uErr := as.userRepo.GetByID(ctx, tx, existing.UserID)
		if uErr != nil {
			return fmt.Errorf("load user for refresh: %w", uErr)
		}

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()

		newToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, &newToken); cErr != nil {
			return fmt.Errorf("create rotated token: %w", cErr)
		}
		// Rotation: the old pair stops working immediately.
		if dErr := as.userTokenRepo.Delete(ctx, tx, existing.ID); dErr != nil {
			return fmt.Errorf("remove old token: %w", dErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.New(http.StatusUnauthorized, "missing_token",
			fmt.Errorf("no access token in request context"))
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, ftErr := as.userTokenRepo.GetByAccessToken(ctx, tx, rd.TokenString)
		if ftErr != nil {
			if errors.Is(ftErr, repos.ErrNotFound) {
				// Already logged out.
				return nil
			}
			return fmt.Errorf("find token for logout: %w", ftErr)
		}
		if dErr := as.userTokenRepo.Delete(ctx, tx, found.ID); dErr != nil {
			return fmt.Errorf("delete token: %w", dErr)
		}
		return nil
	})
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}
	if found, ftErr := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString); ftErr == nil {
		rd.RefreshToken = found.RefreshToken
	} else if !errors.Is(ftErr, repos.ErrNotFound) {
		return ctx, fmt.Errorf("fetch token record: %w", ftErr)
	} else {
		return ctx, fmt.Errorf("token revoked")
	}

	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
