package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/socialgram/socialgram-server/internal/auth"
	"github.com/socialgram/socialgram-server/internal/config"
	"github.com/socialgram/socialgram-server/internal/presence"
	"github.com/socialgram/socialgram-server/internal/service/messages"
	"github.com/socialgram/socialgram-server/internal/store"
	"github.com/socialgram/socialgram-server/internal/store/sqlite"
)

type testEnv struct {
	ts    *httptest.Server
	store store.Store
	auth  *auth.Service
	jwt   *auth.JWTConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	authService := auth.NewService(st, jwtConfig)
	msgService := messages.New(st)

	logger := zerolog.Nop()
	hub := presence.NewHub(presence.NewRegistry(), &logger)

	cfg := config.Default()
	cfg.Addr = ":0"

	server := NewServer(hub, authService, msgService, st, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{
		ts:    ts,
		store: st,
		auth:  authService,
		jwt:   jwtConfig,
	}
}

// seedUser creates a user directly in the store and returns it with a valid token.
func (e *testEnv) seedUser(t *testing.T, email, nickname string) (*store.User, string) {
	t.Helper()

	user, err := e.store.CreateUser(context.Background(), email, nickname, "hash")
	if err != nil {
		t.Fatalf("failed to create user %s: %v", nickname, err)
	}

	token, err := auth.GenerateToken(e.jwt, user)
	if err != nil {
		t.Fatalf("failed to generate token for %s: %v", nickname, err)
	}

	return user, token
}
