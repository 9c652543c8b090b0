// Package profile serves and updates the caller's display profile.
package profile

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"recipebox/accounts"
	"recipebox/filemgr"
	"recipebox/models"
	"recipebox/rdx"
)

// AvatarSaver stores an uploaded avatar and returns its public path.
type AvatarSaver interface {
	SaveAvatar(ctx context.Context, up filemgr.Upload) (string, error)
}

type Service struct {
	store   accounts.Store
	avatars AvatarSaver
	cache   rdx.Cache
	ttl     time.Duration
}

func NewService(store accounts.Store, avatars AvatarSaver, cache rdx.Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = rdx.NopCache{}
	}
	return &Service{store: store, avatars: avatars, cache: cache, ttl: ttl}
}

func cacheKey(accountID string) string {
	return "profile:" + accountID
}

// GetProfile returns the display profile for accountID, served from the
// cache when possible.
func (s *Service) GetProfile(ctx context.Context, accountID string) (models.Profile, error) {
	key := cacheKey(accountID)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("profile cache get %s: %v", key, err)
	} else if ok {
		var p models.Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return p, nil
		}
	}

	acct, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return models.Profile{}, err
	}
	p := models.ProfileOf(acct)

	if raw, err := json.Marshal(p); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
			log.Printf("profile cache set %s: %v", key, err)
		}
	}
	return p, nil
}

// UpdateProfile merges a new display name and optional avatar into the
// account. A blank displayName leaves the stored name untouched.
func (s *Service) UpdateProfile(ctx context.Context, accountID string, displayName *string, avatar *filemgr.Upload) (*models.Account, error) {
	acct, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var upd models.AccountUpdate
	if displayName != nil {
		if name := strings.TrimSpace(*displayName); name != "" {
			upd.DisplayName = &name
		}
	}
	if avatar != nil {
		path, err := s.avatars.SaveAvatar(ctx, *avatar)
		if err != nil {
			return nil, err
		}
		upd.AvatarPath = &path
	}
	if upd.Empty() {
		return acct.Normalize(), nil
	}

	acct, err = s.store.UpdateByID(ctx, accountID, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, accountID)
	return acct.Normalize(), nil
}

// ByEmail looks an account up for the legacy public profile route.
func (s *Service) ByEmail(ctx context.Context, email string) (*models.Account, error) {
	acct, err := s.store.FindByEmail(ctx, accounts.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return acct.Normalize(), nil
}

func (s *Service) invalidate(ctx context.Context, accountID string) {
	if err := s.cache.Del(ctx, cacheKey(accountID)); err != nil {
		log.Printf("profile cache invalidate %s: %v", accountID, err)
	}
}
