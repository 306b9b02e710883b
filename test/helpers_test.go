package test

import (
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/memauth"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func buildService(t *testing.T, b *memauth.Builder) *memauth.Service {
	t.Helper()

	svc, err := b.WithLogger(log.New(io.Discard, "", 0)).Build()
	require.NoError(t, err)
	return svc
}

func login(t *testing.T, svc *memauth.Service, user, secret string) string {
	t.Helper()

	res := svc.Authenticate(user, secret)
	require.Equal(t, memauth.StatusSuccess, res.Status)
	token, ok := res.Value()
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}
