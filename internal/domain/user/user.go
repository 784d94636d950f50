package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

var (
	ErrUserNotFound    = domain.New(domain.KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrEmailConflict   = domain.New(domain.KindConflict, "EMAIL_CONFLICT", "User with this email already exists")
	ErrUserHasBookings = domain.New(domain.KindConflict, "USER_HAS_BOOKINGS", "User has bookings and can't be deleted")
)

// NotFoundFor returns ErrUserNotFound naming the user id.
func NotFoundFor(id int64) error {
	return domain.New(ErrUserNotFound.Kind, ErrUserNotFound.Code, fmt.Sprintf("User not found: %d", id))
}

var validate = validator.New()

// User is a registered participant: an item owner, a booker, or both.
type User struct {
	id        int64
	name      string
	email     string
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new user with validated fields.
func NewUser(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		name:      name,
		email:     email,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, name, email string, version int64, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (u *User) ID() int64            { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) Version() int64       { return u.version }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// AssignID records the identifier given by the store on insert.
func (u *User) AssignID(id int64) { u.id = id }

// Patch applies the non-nil fields.
func (u *User) Patch(name, email *string) error {
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return domain.NewValidationError("name must not be blank")
		}
		u.name = n
	}
	if email != nil {
		e, err := normalizeEmail(*email)
		if err != nil {
			return err
		}
		u.email = e
	}
	u.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (u *User) IncrementVersion() { u.version++ }

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.NewValidationError("email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return "", domain.NewValidationError(fmt.Sprintf("invalid email: %s", email))
	}
	return email, nil
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
