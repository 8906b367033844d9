// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/pkg/logger"
	"notefiber-todo/internal/repository/memory"
	"notefiber-todo/internal/repository/specification"
	"notefiber-todo/internal/repository/unitofwork"
	"notefiber-todo/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, userId uuid.UUID) error
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
}

// TokenIssuer is satisfied by serverutils.TokenIssuer.
type TokenIssuer interface {
	Issue(userId uuid.UUID) (string, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	tokens         TokenIssuer
	accountCache   *memory.AccountCache
	changes        IChangePublisher
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens TokenIssuer,
	accountCache *memory.AccountCache,
	changes IChangePublisher,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		tokens:         tokens,
		accountCache:   accountCache,
		changes:        changes,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := normalizeEmail(req.Email)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.AccountCreated, user)
	return s.authResponse(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	s.publish(ctx, events.UserLogin, user)
	return s.authResponse(user)
}

// Logout is stateless; tokens expire on their own. It only records the event.
func (s *authService) Logout(ctx context.Context, userId uuid.UUID) error {
	s.publish(ctx, events.UserLogout, &entity.User{Id: userId})
	return nil
}

// DeleteAccount hard-deletes the user with every row it owns, in one transaction.
func (s *authService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if err := uow.TaskRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if err := uow.NotebookRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("delete notebooks: %w", err)
	}
	if err := uow.AccountRepository().DeleteUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if err := uow.UserRepository().DeleteUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.accountCache.Delete(userId)
	s.changes.NotebooksChanged(ctx, userId)
	s.publish(ctx, events.AccountDeleted, user)
	return nil
}

func (s *authService) authResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.Id)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		User:        dto.UserDTO{Id: user.Id, Email: user.Email},
	}, nil
}

func (s *authService) publish(ctx context.Context, eventType string, user *entity.User) {
	payload := map[string]interface{}{"user_id": user.Id.String()}
	if user.Email != "" {
		payload["email"] = user.Email
	}
	publishEvent(ctx, s.logger, s.eventPublisher, eventType, payload)
}
