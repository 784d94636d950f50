package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ShareIt-Platform/service-sharing/internal/common/database"
	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
	userDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/user"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(512);not null;uniqueIndex"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*userDomain.User, error) {
	var model UserModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.NotFoundFor(id)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toUserDomain(&model), nil
}

func (r *GormUserRepository) FindAll(ctx context.Context) ([]*userDomain.User, error) {
	var models []UserModel
	if err := database.Conn(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*userDomain.User, len(models))
	for i := range models {
		users[i] = toUserDomain(&models[i])
	}
	return users, nil
}

// ExistsByEmail reports whether a user other than excludeID already uses email.
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	if err := database.Conn(ctx, r.db).
		Model(&UserModel{}).
		Where("LOWER(email) = LOWER(?) AND id <> ?", email, excludeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	model := toUserModel(u)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return userDomain.ErrEmailConflict
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	u.AssignID(model.ID)
	return nil
}

func (r *GormUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	result := database.Conn(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ? AND version = ?", u.ID(), u.Version()-1).
		Updates(map[string]interface{}{
			"name":       u.Name(),
			"email":      u.Email(),
			"version":    u.Version(),
			"updated_at": u.UpdatedAt(),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return userDomain.ErrEmailConflict
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("user was modified by another transaction")
	}
	return nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	result := database.Conn(ctx, r.db).Delete(&UserModel{}, id)
	if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
		return userDomain.ErrUserHasBookings
	}
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return userDomain.NotFoundFor(id)
	}
	return nil
}

func toUserModel(u *userDomain.User) *UserModel {
	return &UserModel{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		Version:   u.Version(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func toUserDomain(m *UserModel) *userDomain.User {
	return userDomain.Reconstruct(m.ID, m.Name, m.Email, m.Version, m.CreatedAt, m.UpdatedAt)
}
