package implementation

import (
	"context"
	"errors"

	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/mapper"
	"notefiber-todo/internal/model"
	"notefiber-todo/internal/repository/contract"
	"notefiber-todo/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := specification.Chain(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.Chain(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type AccountRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewAccountRepository(db *gorm.DB) contract.AccountRepository {
	return &AccountRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *AccountRepositoryImpl) Save(ctx context.Context, account *entity.Account) error {
	m := r.mapper.AccountToModel(account)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*account = *r.mapper.AccountToEntity(m)
	return nil
}

func (r *AccountRepositoryImpl) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Account{}).Error
}

func (r *AccountRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error) {
	var m model.Account
	query := specification.Chain(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AccountToEntity(&m), nil
}
