// file: internals/features/users/auth/model/user_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`

	UserName  string `gorm:"type:varchar(60);not null;uniqueIndex:uq_users_user_name;column:user_name" json:"user_name"`
	UserEmail string `gorm:"type:varchar(120);not null;uniqueIndex:uq_users_email;column:user_email" json:"user_email"`

	// bcrypt hash, tidak pernah keluar lewat JSON
	UserPassword string `gorm:"type:varchar(100);not null;column:user_password" json:"-"`

	UserIsAdmin  bool `gorm:"not null;column:user_is_admin" json:"user_is_admin"`
	UserIsActive bool `gorm:"not null;column:user_is_active" json:"user_is_active"`

	UserCreatedAt time.Time      `gorm:"not null;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"not null;column:user_updated_at" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"-"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	now := time.Now()
	if m.UserCreatedAt.IsZero() {
		m.UserCreatedAt = now
	}
	m.UserUpdatedAt = now
	m.UserName = strings.TrimSpace(m.UserName)
	m.UserEmail = strings.ToLower(strings.TrimSpace(m.UserEmail))
	return nil
}

// SetPassword menyimpan bcrypt hash dari password plaintext.
func (m *UserModel) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.UserPassword = string(hash)
	return nil
}

// CheckPassword membandingkan plaintext dengan hash tersimpan.
func (m *UserModel) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.UserPassword), []byte(plain)) == nil
}
