package application

import (
	"context"

	"go.uber.org/zap"

	bookingDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/booking"
	userDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/user"
)

// CreateUserRequest holds the data needed to register a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest carries a partial user update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserService orchestrates user management.
type UserService struct {
	users    userDomain.UserRepository
	bookings bookingDomain.BookingRepository
	tx       Transactor
	logger   *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users userDomain.UserRepository, bookings bookingDomain.BookingRepository, tx Transactor, logger *zap.Logger) *UserService {
	return &UserService{users: users, bookings: bookings, tx: tx, logger: logger}
}

// CreateUser registers a user with a unique email.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		taken, err := s.users.ExistsByEmail(ctx, u.Email(), 0)
		if err != nil {
			return err
		}
		if taken {
			return userDomain.ErrEmailConflict
		}
		return s.users.Save(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("user_id", u.ID()))
	result := toUserDTO(u)
	return &result, nil
}

// UpdateUser applies a partial update. A new email must not belong to another user.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, req UpdateUserRequest) (*UserDTO, error) {
	var u *userDomain.User
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if u, err = s.users.FindByID(ctx, userID); err != nil {
			return err
		}
		if err := u.Patch(req.Name, req.Email); err != nil {
			return err
		}
		if req.Email != nil {
			taken, err := s.users.ExistsByEmail(ctx, u.Email(), u.ID())
			if err != nil {
				return err
			}
			if taken {
				return userDomain.ErrEmailConflict
			}
		}
		u.IncrementVersion()
		return s.users.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	result := toUserDTO(u)
	return &result, nil
}

// GetUser returns one user.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// ListUsers returns all users ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]UserDTO, len(users))
	for i, u := range users {
		result[i] = toUserDTO(u)
	}
	return result, nil
}

// DeleteUser removes a user along with their items and requests. Users with
// booking history on either side are kept.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			return err
		}
		booked, err := s.bookings.ExistsForUser(ctx, userID)
		if err != nil {
			return err
		}
		if booked {
			return userDomain.ErrUserHasBookings
		}
		return s.users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{ID: u.ID(), Name: u.Name(), Email: u.Email()}
}
