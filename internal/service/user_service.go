package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCannotDeleteSelf = errors.New("administrators cannot delete their own account")
)

// UpdateUserInput holds the editable account fields. An empty Password keeps
// the current one.
type UpdateUserInput struct {
	Name        string
	Email       string
	Password    string
	Role        domain.Role
	PhoneNumber string
	Gym         string
	City        string
}

// UserService manages staff accounts. Every method requires an administrator
// session.
type UserService interface {
	ListUsers(ctx context.Context, sess domain.Session, role domain.Role) ([]domain.User, error)
	GetUser(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.User, error)
	UpdateUser(ctx context.Context, sess domain.Session, id primitive.ObjectID, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, sess domain.Session, id primitive.ObjectID) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(ctx context.Context, sess domain.Session, role domain.Role) ([]domain.User, error) {
	if !sess.IsAdmin() {
		return nil, ErrAccessDenied
	}
	if role != "" && !role.Valid() {
		return nil, ErrInvalidRole
	}
	users, err := s.userRepo.List(ctx, role)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, ErrAccessDenied
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) getUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser overwrites the profile. Blank name or email keep the stored value.
func (s *userService) UpdateUser(ctx context.Context, sess domain.Session, id primitive.ObjectID, input UpdateUserInput) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, ErrAccessDenied
	}
	if input.Role != "" && !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if email := normalizeEmail(input.Email); email != "" {
		user.Email = email
	}
	if input.Role != "" {
		// An administrator demoting themselves would lock the gym out.
		if id == sess.UserID && input.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: cannot change your own role", ErrValidationFailed)
		}
		user.Role = input.Role
	}
	user.PhoneNumber = input.PhoneNumber
	user.Gym = input.Gym
	user.City = input.City

	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, sess domain.Session, id primitive.ObjectID) error {
	if !sess.IsAdmin() {
		return ErrAccessDenied
	}
	if id == sess.UserID {
		return ErrCannotDeleteSelf
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	log.Printf("INFO: User %s deleted by %s", id.Hex(), sess.UserID.Hex())
	return nil
}
