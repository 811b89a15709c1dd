package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gynergy/internal/models/db_models"
	"gynergy/internal/models/request_models"
	"gynergy/internal/repositories"
	mem "gynergy/pkg/memcache"
	"gynergy/pkg/utils"
)

// Session is an issued session token for an account.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *db_models.Account
}

type AccountServiceInterface interface {
	// RequestSignIn creates the account on first use and mails a magic
	// link plus a one-time code.
	RequestSignIn(ctx context.Context, email string) error
	CompleteMagicLink(ctx context.Context, token string) (*Session, error)
	VerifyOtp(ctx context.Context, request request_models.VerifyOtpRequest) (*Session, error)
	Register(ctx context.Context, request request_models.SignUpRequest) (*Session, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*Session, error)
}

type AuthSettings struct {
	BaseURL      string
	MagicLinkTTL time.Duration
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	mail        IMailService
	tokens      mem.TokenStore
	jwt         *utils.JWTManager
	settings    AuthSettings
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	mail IMailService,
	tokens mem.TokenStore,
	jwt *utils.JWTManager,
	settings AuthSettings,
) AccountServiceInterface {
	if settings.MagicLinkTTL <= 0 {
		settings.MagicLinkTTL = 15 * time.Minute
	}
	return &AccountService{
		accountRepo: accountRepo,
		mail:        mail,
		tokens:      tokens,
		jwt:         jwt,
		settings:    settings,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func linkKey(token string) string { return "link:" + token }

func otpKey(email, code string) string { return "otp:" + email + ":" + code }

func (a *AccountService) RequestSignIn(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return fmt.Errorf("%w: invalid email address", utils.ErrValidation)
	}

	if _, err := a.findOrCreate(ctx, email); err != nil {
		return err
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return err
	}
	code, err := utils.GenerateOtpCode(6)
	if err != nil {
		return err
	}

	if err := a.tokens.Set(ctx, linkKey(token), email, a.settings.MagicLinkTTL); err != nil {
		return fmt.Errorf("%w: store sign-in token: %v", utils.ErrUpstream, err)
	}
	if err := a.tokens.Set(ctx, otpKey(email, code), email, a.settings.MagicLinkTTL); err != nil {
		return fmt.Errorf("%w: store sign-in code: %v", utils.ErrUpstream, err)
	}

	link := fmt.Sprintf("%s/api/auth/callback?token=%s", strings.TrimRight(a.settings.BaseURL, "/"), url.QueryEscape(token))
	if err := a.mail.SendSignInMail(ctx, email, link, code); err != nil {
		return fmt.Errorf("%w: send sign-in mail: %v", utils.ErrUpstream, err)
	}
	return nil
}

func (a *AccountService) findOrCreate(ctx context.Context, email string) (*db_models.Account, error) {
	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account != nil {
		return account, nil
	}

	account = &db_models.Account{Email: email}
	if err := a.accountRepo.Create(ctx, account); err != nil {
		// lost a race with a concurrent first sign-in
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if account, err = a.accountRepo.FindByEmail(ctx, email); err == nil && account != nil {
				return account, nil
			}
		}
		return nil, fmt.Errorf("%w: create account: %v", utils.ErrDatabaseError, err)
	}
	zap.L().Info("account created", zap.String("account_id", account.ID.String()))
	return account, nil
}

func (a *AccountService) CompleteMagicLink(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, utils.ErrInvalidToken
	}
	email, err := a.tokens.Consume(ctx, linkKey(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}
	if email == "" {
		return nil, utils.ErrInvalidToken
	}
	return a.sessionForEmail(ctx, email)
}

func (a *AccountService) VerifyOtp(ctx context.Context, request request_models.VerifyOtpRequest) (*Session, error) {
	email := normalizeEmail(request.Email)
	got, err := a.tokens.Consume(ctx, otpKey(email, request.Code))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}
	if got == "" || got != email {
		return nil, utils.ErrInvalidToken
	}
	return a.sessionForEmail(ctx, email)
}

func (a *AccountService) sessionForEmail(ctx context.Context, email string) (*Session, error) {
	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return a.issue(account)
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*Session, error) {
	email := normalizeEmail(request.Email)

	existingAccount, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	account := &db_models.Account{
		Email:        email,
		DisplayName:  strings.TrimSpace(request.DisplayName),
		PasswordHash: hashedPassword,
	}
	if err := a.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return a.issue(account)
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*Session, error) {
	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	// Same answer for unknown email, passwordless account and wrong password.
	if account == nil || account.PasswordHash == "" {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	return a.issue(account)
}

func (a *AccountService) issue(account *db_models.Account) (*Session, error) {
	token, err := a.jwt.CreateToken(account.ID, account.Email)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(a.jwt.TTL()),
		Account:   account,
	}, nil
}

// accountOrUnauthenticated loads the caller; a token for a vanished account
// is treated as unauthenticated.
func accountOrUnauthenticated(ctx context.Context, repo repositories.AccountRepository, userID uuid.UUID) (*db_models.Account, error) {
	account, err := repo.FindById(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrUnauthenticated
	}
	return account, nil
}
