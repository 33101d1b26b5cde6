package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrRegistrationClosed   = errors.New("only an administrator can register new users")
	ErrInvalidRole          = errors.New("role must be administrador or entrenador")
	ErrAccountRemoved       = errors.New("account no longer exists")
)

// Issuer is written into every session token.
const jwtIssuer = "routine-admin"

// RegisterInput carries the fields of a new staff account.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        domain.Role
	PhoneNumber string
	Gym         string
	City        string
}

type AuthService interface {
	// Register creates a staff account. While no user exists anyone may
	// register and the account becomes the first administrator; after that
	// only an administrator session may register users.
	Register(ctx context.Context, sess *domain.Session, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	Me(ctx context.Context, sess domain.Session) (*domain.User, error)
	// CurrentSession re-reads the account named by a token's claims, so a
	// role change or deletion applies to the next request instead of when
	// the token expires.
	CurrentSession(ctx context.Context, claimed domain.Session) (domain.Session, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 12 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// Register handles new staff registration.
func (s *authService) Register(ctx context.Context, sess *domain.Session, input RegisterInput) (*domain.User, error) {
	input.Email = normalizeEmail(input.Email)
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidationFailed)
	}

	bootstrap, err := s.claimBootstrap(ctx)
	if err != nil {
		return nil, err
	}
	created := false
	if bootstrap {
		// The very first account administers the gym.
		input.Role = domain.RoleAdmin
		defer func() {
			if !created {
				s.releaseBootstrap(ctx)
			}
		}()
	} else {
		if sess == nil || !sess.IsAdmin() {
			return nil, ErrRegistrationClosed
		}
		if input.Role == "" {
			input.Role = domain.RoleTrainer
		}
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	_, err = s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		PhoneNumber:  input.PhoneNumber,
		Gym:          input.Gym,
		City:         input.City,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique index catches a registration racing this one.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID
	created = true
	log.Printf("INFO: Registered %s %s", user.Role, user.Email)

	user.PasswordHash = ""
	return user, nil
}

// claimBootstrap reports whether this registration creates the first
// administrator. Only one concurrent registration on an empty store wins the
// marker; the others are treated as ordinary registrations.
func (s *authService) claimBootstrap(ctx context.Context) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		log.Printf("ERROR: Failed to count users during registration: %v", err)
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := s.userRepo.ClaimBootstrap(ctx); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		log.Printf("ERROR: Failed to claim first-admin marker: %v", err)
		return false, err
	}
	return true, nil
}

// releaseBootstrap lets a later registration retry after a failed bootstrap.
func (s *authService) releaseBootstrap(ctx context.Context) {
	if err := s.userRepo.ReleaseBootstrap(context.WithoutCancel(ctx)); err != nil {
		log.Printf("ERROR: Failed to release first-admin marker: %v", err)
	}
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		err = ErrAuthenticationFailed
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed // User not found maps to auth failure
		}
		user = nil
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user)
	if err != nil {
		log.Printf("ERROR: Failed to sign session token for %s: %v", user.Email, err)
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// Me returns the account behind the session.
func (s *authService) Me(ctx context.Context, sess domain.Session) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) CurrentSession(ctx context.Context, claimed domain.Session) (domain.Session, error) {
	user, err := s.userRepo.GetByID(ctx, claimed.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Session{}, ErrAccountRemoved
		}
		log.Printf("ERROR: Failed to load session user %s: %v", claimed.UserID.Hex(), err)
		return domain.Session{}, err
	}
	return user.Session(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
