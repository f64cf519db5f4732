package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/accounthub/internal/domain/user"
	"github.com/geocoder89/accounthub/internal/security"
)

// UserStore is the persistence collaborator. The postgres repo implements
// it; tests fake it.
type UserStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) error
	Update(ctx context.Context, u user.User) error
}

type TokenIssuer interface {
	Generate(userID, email string) (string, error)
}

// AuthContext carries the caller's resolved identity, if any. It is an
// explicit argument on every operation rather than ambient request state.
type AuthContext struct {
	User *user.User
}

func (a AuthContext) Authenticated() bool {
	return a.User != nil
}

type LoginResult struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// Service implements the account operations. Each one is a flat sequence of
// precondition checks plus a single store call; none call each other.
type Service struct {
	store      UserStore
	tokens     TokenIssuer
	bcryptCost int
}

func NewService(store UserStore, tokens TokenIssuer, bcryptCost int) *Service {
	return &Service{
		store:      store,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) ListAllUsers(ctx context.Context, actx AuthContext) ([]user.User, error) {
	if !actx.Authenticated() {
		return nil, ErrUnauthorized
	}

	return s.store.List(ctx)
}

func (s *Service) GetUserByID(ctx context.Context, actx AuthContext, id string) (user.User, error) {
	if !actx.Authenticated() {
		return user.User{}, ErrUnauthorized
	}

	u, err := s.store.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNoUserWithThatID
		}

		return user.User{}, err
	}

	return u, nil
}

// CurrentUser returns the identity already resolved into the auth context;
// no store lookup happens here.
func (s *Service) CurrentUser(actx AuthContext) (user.User, error) {
	if !actx.Authenticated() {
		return user.User{}, ErrUnauthorized
	}

	return *actx.User, nil
}

// SignUp registers an account and returns a signed credential for it.
// Anonymous operation. The email format check runs before anything is
// persisted, so a rejected signup leaves no record behind.
func (s *Service) SignUp(ctx context.Context, firstName, secondName, email, password string) (string, error) {
	if !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}

	_, err := s.store.GetByEmail(ctx, email)

	if err == nil {
		return "", ErrEmailAlreadyRegistered
	}

	if !errors.Is(err, user.ErrNotFound) {
		return "", err
	}

	hash, err := security.HashPassword(password, s.bcryptCost)

	if err != nil {
		return "", err
	}

	u := user.New(firstName, secondName, email, hash)

	err = s.store.Create(ctx, u)

	if err != nil {
		// the unique index closes the race the pre-check above leaves open
		if errors.Is(err, user.ErrEmailTaken) {
			return "", ErrEmailAlreadyRegistered
		}

		return "", err
	}

	return s.tokens.Generate(u.ID, u.Email)
}

// Login checks credentials and returns a signed token plus the full record.
// A missing email fails closed before any password comparison is attempted.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.store.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return LoginResult{}, ErrNoUserWithThatEmail
		}

		return LoginResult{}, err
	}

	err = security.CheckPassword(u.PasswordHash, password)

	if err != nil {
		return LoginResult{}, ErrIncorrectPassword
	}

	token, err := s.tokens.Generate(u.ID, u.Email)

	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, User: u}, nil
}

// EditUser overwrites all four mutable fields of the target record. The
// password is always re-hashed; there is no leave-unchanged mode. Any
// authenticated caller may edit any user — the system has no ownership or
// role model beyond "a caller is present".
func (s *Service) EditUser(ctx context.Context, actx AuthContext, id, email, firstName, secondName, password string) (user.User, error) {
	if !actx.Authenticated() {
		return user.User{}, ErrUnauthorized
	}

	if !strings.Contains(email, "@") {
		return user.User{}, ErrInvalidEmail
	}

	u, err := s.store.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNoUserFound
		}

		return user.User{}, err
	}

	hash, err := security.HashPassword(password, s.bcryptCost)

	if err != nil {
		return user.User{}, err
	}

	u.Email = email
	u.FirstName = firstName
	u.SecondName = secondName
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()

	err = s.store.Update(ctx, u)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrEmailAlreadyRegistered
		}

		return user.User{}, err
	}

	return u, nil
}
