package memory

import (
	"time"

	"notefiber-todo/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// AccountCache keeps recently read account profiles in process memory.
type AccountCache struct {
	cache *cache.Cache
}

func NewAccountCache(ttl time.Duration) *AccountCache {
	return &AccountCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *AccountCache) Save(account *entity.Account) {
	copied := *account
	r.cache.Set(account.Id.String(), &copied, cache.DefaultExpiration)
}

func (r *AccountCache) Get(id uuid.UUID) (*entity.Account, bool) {
	if x, found := r.cache.Get(id.String()); found {
		copied := *x.(*entity.Account)
		return &copied, true
	}
	return nil, false
}

func (r *AccountCache) Delete(id uuid.UUID) {
	r.cache.Delete(id.String())
}
