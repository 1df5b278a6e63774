package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"user-auth-api/internal/config"
	"user-auth-api/internal/model"
	"user-auth-api/internal/repository"
	"user-auth-api/shared/auth"
	"user-auth-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, error)
	VerifyEmail(ctx context.Context, code string) error
	Login(ctx context.Context, params LoginParams) (*Tokens, error)
	Logout(ctx context.Context, userID string) error
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// Tokens is the pair issued on login.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

var (
	ErrEmailAlreadyRegistered = errors.New("email is already registered")
	ErrInvalidCode            = errors.New("invalid verification code")
	ErrUserNotRegistered      = errors.New("user not registered")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

// Mailer sends outbound mail. Satisfied by shared/mailer.
type Mailer interface {
	SendHTML(to []string, subject, htmlBody string) error
}

type authUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	mailer   Mailer
	cfg      *config.Config
	logger   *zerolog.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer Mailer,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	if _, err := u.userRepo.GetUserByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:        params.Name,
		Email:       params.Email,
		Password:    passwordHash,
		VerifyEmail: false,
		Status:      model.StatusActive,
	})
	if err != nil {
		// The unique email index closes the check-then-insert race.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyRegistered
		}

		return nil, err
	}

	// Account creation succeeds even if the verification mail does not go out.
	if err := u.sendVerificationEmail(user); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send verification email")
	}

	return user, nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, code string) error {
	if _, err := bson.ObjectIDFromHex(code); err != nil {
		return ErrInvalidCode
	}

	if _, err := u.userRepo.GetUser(ctx, code); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidCode
		}

		return err
	}

	// Unconditional set keeps re-verification idempotent.
	verified := true
	if _, err := u.userRepo.UpdateUser(ctx, code, repository.UpdateUserParams{
		VerifyEmail: &verified,
	}); err != nil {
		return err
	}

	return nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*Tokens, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotRegistered
		}

		return nil, err
	}

	if user.Status != model.StatusActive {
		return nil, ErrAccountInactive
	}

	if !security.VerifyPassword(params.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := u.issueAccessToken(ctx, user.ID.Hex())
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.issueRefreshToken(ctx, user.ID.Hex())
	if err != nil {
		return nil, err
	}

	return &Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID string) error {
	// Only the stored refresh token is cleared. Already-issued access tokens
	// stay cryptographically valid until expiry; validation is stateless.
	empty := ""
	if _, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		RefreshToken: &empty,
	}); err != nil {
		return err
	}

	return nil
}

// issueAccessToken signs a short-lived access token and persists it onto the
// user document before returning.
func (u *authUsecase) issueAccessToken(ctx context.Context, userID string) (string, error) {
	token, err := u.jwtAuth.GenerateToken(
		userID,
		u.cfg.Token.AccessTokenSecret,
		u.cfg.Token.AccessTokenExpiresIn,
	)
	if err != nil {
		return "", err
	}

	if _, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		AccessToken: &token,
	}); err != nil {
		return "", err
	}

	return token, nil
}

// issueRefreshToken signs a long-lived refresh token and persists it onto the
// user document before returning.
func (u *authUsecase) issueRefreshToken(ctx context.Context, userID string) (string, error) {
	token, err := u.jwtAuth.GenerateToken(
		userID,
		u.cfg.Token.RefreshTokenSecret,
		u.cfg.Token.RefreshTokenExpiresIn,
	)
	if err != nil {
		return "", err
	}

	if _, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		RefreshToken: &token,
	}); err != nil {
		return "", err
	}

	return token, nil
}

func (u *authUsecase) sendVerificationEmail(user *model.User) error {
	verifyEmailURL := fmt.Sprintf("%s/verify-email?code=%s", u.cfg.FrontendURL, user.ID.Hex())

	htmlBody := fmt.Sprintf(`
		<p>Dear %s</p>
		<p>Thank you for registering authentication.</p>
		<a href=%q style="color:white; background: #071263; margin-top: 10px; padding:20px">
		Verify Email
		</a>
	`, user.Name, verifyEmailURL)

	return u.mailer.SendHTML([]string{user.Email}, "Verify your email", htmlBody)
}
