package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "gynergy/internal/models/db_models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *dbm.Account) error
	FindById(ctx context.Context, id uuid.UUID) (*dbm.Account, error)
	FindByEmail(ctx context.Context, email string) (*dbm.Account, error)
	// UpdateProfile persists the editable profile fields only.
	UpdateProfile(ctx context.Context, account *dbm.Account) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) Create(ctx context.Context, account *dbm.Account) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*dbm.Account, error) {
	var account dbm.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*dbm.Account, error) {
	var account dbm.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) UpdateProfile(ctx context.Context, account *dbm.Account) error {
	return a.db.WithContext(ctx).
		Model(account).
		Select("email", "display_name", "avatar_url").
		Updates(account).Error
}
