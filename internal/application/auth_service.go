package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	repo "github.com/oksasatya/identity-service/internal/domain/repository"
	"github.com/oksasatya/identity-service/internal/domain/valueobject"
	"github.com/oksasatya/identity-service/pkg/apperror"
	"github.com/oksasatya/identity-service/pkg/helpers"
	"github.com/oksasatya/identity-service/pkg/mailer"
)

const tokenType = "Bearer"

// Service orchestrates the identity use cases over the repository, hasher
// and token ports. Pub is optional; when configured, registration enqueues
// a welcome email.
type Service struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Tokens TokenService
	Logger *logrus.Logger
	Pub    *helpers.RabbitPublisher
}

func NewService(r repo.UserRepository, hasher PasswordHasher, tokens TokenService, logger *logrus.Logger, pub *helpers.RabbitPublisher) *Service {
	return &Service{Repo: r, Hasher: hasher, Tokens: tokens, Logger: logger, Pub: pub}
}

// Register creates a new account. Uniqueness pre-checks give fast, friendly
// conflicts; the database constraint remains the authoritative guard, and
// the repository surfaces its violation as the same conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*UserResponse, error) {
	if existing, err := s.Repo.FindByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}

	if existing, err := s.Repo.FindByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperror.Conflict("username already taken")
	}

	password, err := valueobject.NewPassword(in.Password)
	if err != nil {
		return nil, err
	}
	email, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return nil, err
	}

	digest, err := s.Hasher.Hash(password.Value())
	if err != nil {
		return nil, err
	}

	u := entity.NewUser(email, in.Username, valueobject.NewHashedPassword(digest), in.FullName)
	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, err
	}

	s.enqueueWelcomeEmail(ctx, u)

	out := toUserResponse(u)
	return &out, nil
}

// Login authenticates by email or username. "No such user" and "wrong
// password" are deliberately indistinguishable to block enumeration.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	u, err := s.findByUsernameOrEmail(ctx, in.UsernameOrEmail)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if !u.CanLogin() {
		return nil, apperror.Forbidden("account is not active")
	}
	if !s.Hasher.Verify(in.Password, u.Password.Value()) {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	u.UpdateLastLogin()
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.Tokens.Generate(u)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: toUserResponse(u),
		Token: TokenResponse{
			AccessToken: token,
			TokenType:   tokenType,
			ExpiresIn:   int64(s.Tokens.TTL().Seconds()),
		},
	}, nil
}

// ChangePassword verifies the old credential before accepting a new one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperror.NotFound("user not found")
	}
	if !s.Hasher.Verify(oldPassword, u.Password.Value()) {
		return apperror.Unauthorized("invalid password")
	}
	password, err := valueobject.NewPassword(newPassword)
	if err != nil {
		return err
	}
	digest, err := s.Hasher.Hash(password.Value())
	if err != nil {
		return err
	}
	u.ChangePassword(valueobject.NewHashedPassword(digest))
	return s.Repo.Update(ctx, u)
}

// GetUserDetail returns the summary for a persisted user.
func (s *Service) GetUserDetail(ctx context.Context, userID int64) (*UserResponse, error) {
	u, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("user not found")
	}
	out := toUserResponse(u)
	return &out, nil
}

// VerifyToken resolves a bearer token to a user identifier.
func (s *Service) VerifyToken(token string) (int64, error) {
	return s.Tokens.Verify(token)
}

// findByUsernameOrEmail tries the email lookup first; on a tie between an
// email of one account and a username of another, the email match wins.
func (s *Service) findByUsernameOrEmail(ctx context.Context, input string) (*entity.User, error) {
	u, err := s.Repo.FindByEmail(ctx, input)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}
	return s.Repo.FindByUsername(ctx, input)
}

func (s *Service) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:      u.Email.Value(),
		Subject: "Welcome aboard",
		Text:    "Hi " + displayName(u) + ", your account was created successfully.",
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue welcome email")
	}
}

func displayName(u *entity.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
