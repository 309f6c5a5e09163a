// Package repository stores the user accounts served by the reference
// backend in SQLite through gorm.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Repository struct {
	db *gorm.DB
}

// Open connects to the SQLite database at dsn and migrates the schema.
func Open(dsn string) (*Repository, error) {

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	// SQLite has a single writer, and every in-memory connection would be a
	// separate database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&UserRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"dsn": dsn,
	}).Debugln("Database ready")

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) Create(ctx context.Context, user models.NewUser) (*models.User, error) {

	email := normalizeEmail(user.Email)

	var count int64
	if err := r.db.WithContext(ctx).Model(&UserRecord{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := UserRecord{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(user.Name),
		SurName:       strings.TrimSpace(user.SurName),
		FullName:      strings.TrimSpace(user.FullName),
		Email:         email,
		Telephone:     strings.TrimSpace(user.Telephone),
		Employment:    string(user.Employment),
		UserAgreement: user.UserAgreement,
		PasswordHash:  string(hash),
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created := record.ToUser()
	return &created, nil
}

// List returns every user, oldest first.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {

	var records []UserRecord
	if err := r.db.WithContext(ctx).
		Order("created_at asc").Order("id asc").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]models.User, 0, len(records))
	for _, record := range records {
		users = append(users, record.ToUser())
	}
	return users, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.User, error) {
	record, err := r.find(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	user := record.ToUser()
	return &user, nil
}

// Update applies patch to id. A nil employment keeps the stored value.
func (r *Repository) Update(ctx context.Context, id string, patch models.UserPatch) error {

	changes := map[string]any{
		"name":           patch.Name,
		"sur_name":       patch.SurName,
		"full_name":      patch.FullName,
		"telephone":      patch.Telephone,
		"user_agreement": patch.UserAgreement,
	}
	if patch.Employment != nil {
		changes["employment"] = string(*patch.Employment)
	}

	result := r.db.WithContext(ctx).Model(&UserRecord{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Authenticate checks a password and returns the matching identity. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (r *Repository) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {

	record, err := r.find(ctx, "email = ?", normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &models.Identity{ID: record.ID, Email: record.Email}, nil
}

// EnsureSeed creates the first operator account when the database is empty
// and a password was configured. It reports whether an account was created.
func (r *Repository) EnsureSeed(ctx context.Context, email, password string) (bool, error) {

	if len(password) == 0 {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&UserRecord{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	_, err := r.Create(ctx, models.NewUser{
		Name:          "Admin",
		SurName:       "User",
		FullName:      models.ComposeFullName("Admin", "User"),
		Email:         email,
		Password:      password,
		UserAgreement: true,
	})
	if err != nil {
		return false, err
	}

	logrus.WithFields(logrus.Fields{
		"email": email,
	}).Infoln("Created initial operator account")

	return true, nil
}

func (r *Repository) find(ctx context.Context, query string, args ...any) (*UserRecord, error) {
	var record UserRecord
	err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &record, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
