package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classwork_service/internal/cache"
	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
)

// Access answers "may this user touch this group". Admin-role callers bypass
// the membership check entirely; everyone else must be in the member set.
// Lookups are cached; join/leave invalidate the cached entry.
type Access struct {
	groups GroupRepository
	cache  cache.Cache
	ttl    time.Duration
}

func NewAccess(groups GroupRepository, membershipCache cache.Cache, ttl time.Duration) *Access {
	return &Access{
		groups: groups,
		cache:  membershipCache,
		ttl:    ttl,
	}
}

func (a *Access) IsMember(ctx context.Context, userID, groupID uuid.UUID) (bool, error) {
	if callerRole(ctx) == domain.UserRoleAdmin {
		return true, nil
	}

	key := membershipKey(groupID, userID)
	if a.cache != nil {
		if data, ok := a.cache.Get(ctx, key); ok && len(data) == 1 {
			return data[0] == '1', nil
		}
	}

	member, err := a.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, err
	}

	if a.cache != nil {
		val := []byte{'0'}
		if member {
			val[0] = '1'
		}
		a.cache.Set(ctx, key, val, a.ttl)
	}

	return member, nil
}

func (a *Access) RequireMember(ctx context.Context, userID, groupID uuid.UUID) error {
	member, err := a.IsMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("not a group member: %w", errdefs.ErrPermissionDenied)
	}
	return nil
}

func (a *Access) Invalidate(ctx context.Context, groupID, userID uuid.UUID) {
	if a.cache != nil {
		a.cache.Delete(ctx, membershipKey(groupID, userID))
	}
}

func membershipKey(groupID, userID uuid.UUID) string {
	return "membership:" + groupID.String() + ":" + userID.String()
}
