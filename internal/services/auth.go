package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/apierr"
	"github.com/oddjobz/oddjobz-backend/internal/clients/resend"
	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/normalization"
	"github.com/oddjobz/oddjobz-backend/internal/repos"
	"github.com/oddjobz/oddjobz-backend/internal/requestdata"
	"github.com/oddjobz/oddjobz-backend/internal/types"
)

const minPasswordLength = 6

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	ServiceType string
	Area        string
}

type LoginResult struct {
	User         *types.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

type AuthService interface {
	RegisterUser(ctx context.Context, input RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (*LoginResult, error)
	RefreshUser(ctx context.Context, refreshToken string) (*LoginResult, error)
	LogoutUser(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	mailClient    resend.Client
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTokenTTL time.Duration
	baseURL       string
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	mailClient resend.Client,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	resetTokenTTL time.Duration,
	baseURL string,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		mailClient:    mailClient,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		resetTokenTTL: resetTokenTTL,
		baseURL:       baseURL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, input RegisterInput) (*types.User, error) {
	input.Email = normalization.ParseInputString(input.Email)
	input.Name = normalization.TrimInputString(input.Name)
	input.ServiceType = normalization.ParseInputString(input.ServiceType)
	input.Area = normalization.TrimInputString(input.Area)

	switch {
	case input.Email == "":
		return nil, apierr.Validation("email is required")
	case input.Password == "":
		return nil, apierr.Validation("password is required")
	case len(input.Password) < minPasswordLength:
		return nil, apierr.Validation("password must be at least %d characters", minPasswordLength)
	case input.Name == "":
		return nil, apierr.Validation("name is required")
	case input.ServiceType == "":
		return nil, apierr.Validation("service type is required")
	case input.Area == "":
		return nil, apierr.Validation("area is required")
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, input.Email)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("check email: %w", err))
	}
	if exists {
		return nil, apierr.Conflict("email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("hash password: %w", err))
	}

	user := &types.User{
		ID:          uuid.New(),
		Email:       input.Email,
		Password:    string(hashed),
		Name:        input.Name,
		ServiceType: input.ServiceType,
		Area:        input.Area,
	}
	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		// The unique index is the backstop against a concurrent registration
		// racing past the EmailExists check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict("email already exists")
		}
		return nil, apierr.Storage(fmt.Errorf("create user: %w", err))
	}
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalization.ParseInputString(email)
	if email == "" || password == "" {
		return nil, apierr.Validation("email and password are required")
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("load user: %w", err))
	}
	if len(users) == 0 {
		return nil, apierr.Auth("invalid email or password")
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Auth("invalid email or password")
	}

	var result *LoginResult
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		issued, err := as.issueTokenPair(ctx, tx, user)
		if err != nil {
			return err
		}
		result = issued
		return nil
	})
	if err != nil {
		return nil, apierr.From(err)
	}
	return result, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, apierr.Validation("refresh token is required")
	}

	var result *LoginResult
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foundTokens, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{refreshToken})
		if err != nil {
			return apierr.Storage(fmt.Errorf("load refresh token: %w", err))
		}
		if len(foundTokens) == 0 {
			return apierr.Auth("invalid refresh token")
		}
		existing := foundTokens[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
				return apierr.Storage(fmt.Errorf("delete expired token: %w", err))
			}
			return apierr.Auth("refresh token expired")
		}

		users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if err != nil {
			return apierr.Storage(fmt.Errorf("load user for refresh: %w", err))
		}
		if len(users) == 0 {
			return apierr.Auth("no user for refresh token")
		}

		issued, err := as.issueTokenPair(ctx, tx, users[0])
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
			return apierr.Storage(fmt.Errorf("delete rotated token: %w", err))
		}
		result = issued
		return nil
	})
	if err != nil {
		return nil, apierr.From(err)
	}
	return result, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Auth("no session in request context")
	}
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foundTokens, err := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if err != nil {
			return apierr.Storage(fmt.Errorf("load session token: %w", err))
		}
		if len(foundTokens) == 0 {
			return nil
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{foundTokens[0].ID}); err != nil {
			return apierr.Storage(fmt.Errorf("delete session token: %w", err))
		}
		return nil
	})
	if err != nil {
		return apierr.From(err)
	}
	return nil
}

// ForgotPassword always reports success for unknown emails so the endpoint
// cannot be used to enumerate accounts.
func (as *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalization.ParseInputString(email)
	if email == "" {
		return apierr.Validation("email is required")
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return apierr.Storage(fmt.Errorf("load user: %w", err))
	}
	if len(users) == 0 {
		as.log.Debug("Password reset requested for unknown email")
		return nil
	}
	user := users[0]

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return apierr.Storage(fmt.Errorf("generate reset token: %w", err))
	}
	resetToken := hex.EncodeToString(tokenBytes)
	expiry := time.Now().Add(as.resetTokenTTL)

	if err := as.userRepo.SetResetToken(ctx, nil, user.ID, resetToken, expiry); err != nil {
		return apierr.Storage(fmt.Errorf("store reset token: %w", err))
	}

	if as.mailClient == nil {
		return apierr.Dependency(fmt.Errorf("mail service not configured"))
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", as.baseURL, resetToken)
	_, err = as.mailClient.Send(ctx, resend.SendEmailRequest{
		To:      []string{user.Email},
		Subject: "Reset Your Password - OddJobz",
		HTML:    resetEmailHTML(user.Name, resetURL),
	})
	if err != nil {
		as.log.Error("Failed to send password reset email", "error", err)
		return apierr.Dependency(fmt.Errorf("send reset email: %w", err))
	}
	return nil
}

func (as *authService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" || password == "" {
		return apierr.Validation("token and password are required")
	}
	if len(password) < minPasswordLength {
		return apierr.Validation("password must be at least %d characters", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apierr.Storage(fmt.Errorf("hash password: %w", err))
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := as.userRepo.GetByValidResetToken(ctx, tx, token, time.Now())
		if err != nil {
			return apierr.Storage(fmt.Errorf("load reset token: %w", err))
		}
		if user == nil {
			return apierr.Auth("invalid or expired reset token")
		}
		// Clearing the token makes it single use.
		if err := as.userRepo.UpdatePasswordAndClearResetToken(ctx, tx, user.ID, string(hashed)); err != nil {
			return apierr.Storage(fmt.Errorf("update password: %w", err))
		}
		// A successful reset revokes every open session for the account.
		if err := as.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{user.ID}); err != nil {
			return apierr.Storage(fmt.Errorf("revoke sessions: %w", err))
		}
		return nil
	})
	if err != nil {
		return apierr.From(err)
	}
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Auth("missing token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, apierr.Auth("failed to parse token")
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.Auth("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Auth("invalid user id in token")
	}

	// The session row must still exist; logout deletes it.
	foundTokens, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return ctx, apierr.Storage(fmt.Errorf("load session token: %w", err))
	}
	if len(foundTokens) == 0 {
		return ctx, apierr.Auth("session revoked")
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueTokenPair(ctx context.Context, tx *gorm.DB, user *types.User) (*LoginResult, error) {
	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("generate access token: %w", err))
	}
	refreshToken := uuid.New().String()
	userToken := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
		return nil, apierr.Storage(fmt.Errorf("create user token: %w", err))
	}
	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	// The jti keeps tokens unique even when two are issued for the same
	// user within one second; access_token carries a unique index.
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func resetEmailHTML(name, resetURL string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Reset Your Password</h2>
  <p>Hi %s,</p>
  <p>You requested to reset your password for your OddJobz account.</p>
  <p><a href="%s">Reset Password</a></p>
  <p>Or copy and paste this link into your browser:</p>
  <p>%s</p>
  <p>This link will expire in 1 hour. If you didn't request this, please ignore this email.</p>
</div>`, name, resetURL, resetURL)
}
