package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/pkg/accounts/models"
)

// ============================================
// ACCOUNT OPERATIONS
// ============================================

func (s *GORMStore) GetByLogin(ctx context.Context, login string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).
		Where("LOWER(login) = LOWER(?)", login).
		First(&account).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrAccountNotFound)
	}
	return &account, nil
}

func (s *GORMStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return getByField[models.Account](s.db, ctx, "id", id, models.ErrAccountNotFound)
}

func (s *GORMStore) Create(ctx context.Context, login string, passwordHash []byte, name string, accessMask uint64) (*models.Account, error) {
	account := &models.Account{
		Login:        login,
		PasswordHash: passwordHash,
		Name:         name,
		AccessMask:   accessMask,
	}
	id, err := createWithID(s.db, ctx, account, func(a *models.Account, id string) { a.ID = id }, account.ID, models.ErrDuplicateAccount)
	if err != nil {
		return nil, err
	}
	account.ID = id
	return account, nil
}

func (s *GORMStore) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (s *GORMStore) UpdateAccess(ctx context.Context, id string, accessMask uint64) error {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("access_mask", accessMask)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (s *GORMStore) Delete(ctx context.Context, login string) error {
	result := s.db.WithContext(ctx).
		Where("LOWER(login) = LOWER(?)", login).
		Delete(&models.Account{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (s *GORMStore) Exists(ctx context.Context, login string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("LOWER(login) = LOWER(?)", login).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GORMStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	err := s.db.WithContext(ctx).Order("login").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// ============================================
// ADMIN BOOTSTRAP
// ============================================

// EnsureAdminAccount creates the sysop-privileged admin account if no
// accounts exist yet, so a fresh server is never unreachable by its operator.
func (s *GORMStore) EnsureAdminAccount(ctx context.Context) (string, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}

	passwordFromEnv := os.Getenv(models.EnvAdminInitialPassword)
	password := passwordFromEnv
	if password == "" {
		generated, err := generateRandomPassword()
		if err != nil {
			return "", fmt.Errorf("failed to generate admin password: %w", err)
		}
		password = generated
	}

	if _, err := s.Create(ctx, models.AdminLogin, trtp.Scramble([]byte(password)), "Administrator", uint64(trtp.AccessSysop())); err != nil {
		if !errors.Is(err, models.ErrDuplicateAccount) {
			return "", fmt.Errorf("failed to create admin account: %w", err)
		}
		return "", nil
	}

	if passwordFromEnv != "" {
		return "", nil
	}
	return password, nil
}

// generateRandomPassword returns a URL-safe base64 password sourced from
// crypto/rand, long enough to be memorable for one-time operator use.
func generateRandomPassword() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
