package services

import (
	"context"
	"fmt"
	"strings"

	"todolist-service/apperrors"
	"todolist-service/models"

	"github.com/umakantv/go-utils/errs"
)

// UserService implements the user operations
type UserService struct {
	users  UserStore
	hasher PasswordHasher
}

// NewUserService creates a user service
func NewUserService(users UserStore, hasher PasswordHasher) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
	}
}

// Register creates a user from dto. A client-supplied id is discarded and the
// password is stored as a hash.
func (s *UserService) Register(ctx context.Context, dto models.UserDto) (models.UserDto, error) {
	dto.ID = nil
	if _, err := s.validate(ctx, dto, false); err != nil {
		return models.UserDto{}, err
	}

	user := models.UserFromDto(dto)
	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		return models.UserDto{}, fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash

	if err := s.users.Create(ctx, &user); err != nil {
		return models.UserDto{}, err
	}
	return models.UserToDto(user), nil
}

// Update changes the display name of an existing user. Id, username and
// password are kept from the stored record whatever dto says.
func (s *UserService) Update(ctx context.Context, dto models.UserDto) (models.UserDto, error) {
	dto.Password = ""
	existing, err := s.validate(ctx, dto, true)
	if err != nil {
		return models.UserDto{}, err
	}

	existing.ApplyUpdate(dto)
	if err := s.users.Update(ctx, existing); err != nil {
		return models.UserDto{}, err
	}
	return models.UserToDto(*existing), nil
}

// validate returns the stored user when isUpdate is set and it exists.
func (s *UserService) validate(ctx context.Context, dto models.UserDto, isUpdate bool) (*models.User, error) {
	var failures apperrors.Collector
	var existing *models.User

	if isUpdate {
		if dto.ID == nil {
			failures.Add("Id", "Id is not valid!")
		} else {
			user, err := s.users.GetByID(ctx, *dto.ID)
			ok, err := found(err)
			if err != nil {
				return nil, err
			}
			if ok {
				existing = &user
			} else {
				failures.Add("Id", "Id is not valid!")
			}
		}
	}

	if !isUpdate {
		if strings.TrimSpace(dto.Username) == "" {
			failures.Add("username", "Username is required!")
		}
		if dto.Password == "" {
			failures.Add("password", "Password is required!")
		}
	}

	taken, err := s.users.ExistsByUsername(ctx, dto.Username)
	if err != nil {
		return nil, err
	}
	if !isUpdate && taken {
		failures.Add("username", "There is an account with that username: "+dto.Username)
	}
	if isUpdate && !taken {
		failures.Add("username", "This username doesn't exist!")
	}

	if err := failures.Failure("Validation errors"); err != nil {
		return nil, err
	}
	return existing, nil
}

// Login checks the credentials in dto and returns the matching user
func (s *UserService) Login(ctx context.Context, dto models.LoginDto) (models.UserDto, error) {
	user, err := s.users.GetByUsername(ctx, dto.Username)
	ok, err := found(err)
	if err != nil {
		return models.UserDto{}, err
	}
	if !ok || !s.hasher.Verify(dto.Password, user.Password) {
		return models.UserDto{}, errs.NewAuthenticationError("Username or password are not valid!")
	}
	return models.UserToDto(user), nil
}

// GetAll returns every user
func (s *UserService) GetAll(ctx context.Context) ([]models.UserDto, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]models.UserDto, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, models.UserToDto(user))
	}
	return dtos, nil
}

// GetByID returns the user with id or a 404 *errs.AppError
func (s *UserService) GetByID(ctx context.Context, id int64) (models.UserDto, error) {
	user, err := s.users.GetByID(ctx, id)
	ok, err := found(err)
	if err != nil {
		return models.UserDto{}, err
	}
	if !ok {
		return models.UserDto{}, errs.NewNotFoundError("There isn't a user with this Id!")
	}
	return models.UserToDto(user), nil
}

// ChangePassword replaces the password of dto.UserID after checking that the
// user exists, that both copies of the new password agree and that the old
// password is correct. All problems are reported together.
func (s *UserService) ChangePassword(ctx context.Context, dto models.NewPasswordDto) (bool, error) {
	user, err := s.users.GetByID(ctx, dto.UserID)
	exists, err := found(err)
	if err != nil {
		return false, err
	}

	var failures apperrors.Collector
	if !exists {
		failures.Add("UserId", "User does not exist!")
	}
	if dto.NewPassword != dto.RepeatedNewPassword {
		failures.Add("NewPassword", "The new password does not match the repeated one!")
	} else if dto.NewPassword == "" {
		failures.Add("NewPassword", "The new password must not be empty!")
	}
	if exists && !s.hasher.Verify(dto.OldPassword, user.Password) {
		failures.Add("oldPassword", "Old password is incorrect!")
	}
	if err := failures.Failure("Change Password Errors"); err != nil {
		return false, err
	}

	hash, err := s.hasher.Hash(dto.NewPassword)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash
	if err := s.users.Update(ctx, &user); err != nil {
		return false, err
	}
	return true, nil
}
