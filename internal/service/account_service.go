package service

import (
	"context"
	"strings"
	"time"

	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/pkg/logger"
	"notefiber-todo/internal/pkg/mailer"
	"notefiber-todo/internal/repository/memory"
	"notefiber-todo/internal/repository/specification"
	"notefiber-todo/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAccountService interface {
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveAccountRequest) (*dto.AccountResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.AccountResponse, error)
}

type accountService struct {
	uowFactory   unitofwork.RepositoryFactory
	accountCache *memory.AccountCache
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewAccountService(
	uowFactory unitofwork.RepositoryFactory,
	accountCache *memory.AccountCache,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IAccountService {
	return &accountService{
		uowFactory:   uowFactory,
		accountCache: accountCache,
		emailService: emailService,
		logger:       log,
	}
}

// Save writes the caller's own profile. The first write sends the welcome mail.
func (s *accountService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveAccountRequest) (*dto.AccountResponse, error) {
	if req.Id != userId {
		return nil, apperror.ErrForbidden
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}

	account := &entity.Account{
		Id:        req.Id,
		Name:      strings.TrimSpace(req.Name),
		Email:     normalizeEmail(req.Email),
		CreatedAt: req.CreatedAt,
	}
	if existing != nil {
		account.CreatedAt = existing.CreatedAt
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return nil, err
	}
	s.accountCache.Save(account)

	if existing == nil {
		go func() {
			if err := s.emailService.SendWelcome(account.Email, account.Name); err != nil {
				s.logger.Warn("AccountService", "Failed to send welcome mail", map[string]interface{}{
					"account_id": account.Id.String(),
					"error":      err.Error(),
				})
			}
		}()
	}

	return toAccountResponse(account), nil
}

func (s *accountService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.AccountResponse, error) {
	if id != userId {
		return nil, apperror.ErrForbidden
	}
	if cached, ok := s.accountCache.Get(id); ok {
		return toAccountResponse(cached), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.ErrNotFound
	}

	s.accountCache.Save(account)
	return toAccountResponse(account), nil
}
