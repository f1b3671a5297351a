package ratelimiter

import (
	"context"
	"sync"
)

type FakeRateLimiter struct {
	DenyAll bool
	Checked []string
	lock    sync.Mutex
}

func NewFakeRateLimiter() *FakeRateLimiter {
	return &FakeRateLimiter{}
}

func (r *FakeRateLimiter) CheckLimit(ctx context.Context, key string, limit Limit) Result {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Checked = append(r.Checked, key)
	if r.DenyAll {
		return NotAllowed()
	}
	return Allowed()
}
