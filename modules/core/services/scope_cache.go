package services

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/pkg/eventbus"
)

// candidateCache memoizes candidate policy lists per (user, role-set hash,
// resource, action). Entries are dropped on assignment writes, never merely
// aged out: a stale grant is a security defect. Role-level changes purge the
// whole cache since role membership is not tracked here.
type candidateCache struct {
	entries *lru.Cache[string, []policy.Policy]
}

func newCandidateCache(size int, publisher eventbus.EventBus) *candidateCache {
	entries, err := lru.New[string, []policy.Policy](size)
	if err != nil {
		panic(err)
	}
	c := &candidateCache{entries: entries}
	if publisher != nil {
		publisher.Subscribe(func(e policy.RolePolicyChangedEvent) { c.purge() })
		publisher.Subscribe(func(e policy.UserPolicyChangedEvent) { c.invalidateUser(e.UserID) })
		publisher.Subscribe(func(e policy.DepartmentManagerChangedEvent) { c.purge() })
	}
	return c
}

func cacheKey(user policy.UserContext, resource, action string) string {
	roles := make([]string, len(user.RoleIDs))
	for i, id := range user.RoleIDs {
		roles[i] = id.String()
	}
	sort.Strings(roles)
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.Join(roles, ",")))
	return fmt.Sprintf("u:%d|r:%x|%s.%s", user.UserID, h.Sum64(), resource, action)
}

func (c *candidateCache) get(user policy.UserContext, resource, action string) ([]policy.Policy, bool) {
	return c.entries.Get(cacheKey(user, resource, action))
}

func (c *candidateCache) set(user policy.UserContext, resource, action string, policies []policy.Policy) {
	c.entries.Add(cacheKey(user, resource, action), policies)
}

func (c *candidateCache) invalidateUser(userID uint) {
	prefix := fmt.Sprintf("u:%d|", userID)
	for _, key := range c.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.entries.Remove(key)
		}
	}
}

func (c *candidateCache) purge() {
	c.entries.Purge()
}
