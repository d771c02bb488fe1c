package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestSendAndFetchDialog(t *testing.T) {
	env := newTestEnv(t)

	alice, aliceToken := env.seedUser(t, "alice@example.com", "alice")
	bob, bobToken := env.seedUser(t, "bob@example.com", "bob")

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/message/send", aliceToken, SendMessageRequest{
		MessageText:       "hi",
		AuthorID:          alice.ID,
		AuthorNickname:    "alice",
		RecipientID:       bob.ID,
		RecipientNickname: "bob",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected send status: %d", resp.StatusCode)
	}

	sent := decode[SendMessageResponse](t, resp)
	if sent.MessageAuthorID != alice.ID || sent.MessageRecipientID != bob.ID {
		t.Fatalf("unexpected echo payload: %+v", sent)
	}
	if sent.Message == "" {
		t.Fatalf("expected localized confirmation")
	}

	// Bob fetches the dialog; the message flips to read.
	url := fmt.Sprintf("%s/api/message/%d/%d", env.ts.URL, bob.ID, alice.ID)
	resp = doJSON(t, http.MethodGet, url, bobToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected dialog status: %d", resp.StatusCode)
	}

	dialog := decode[DialogResponse](t, resp)
	if len(dialog.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(dialog.Messages))
	}
	if msg := dialog.Messages[0]; !msg.Read || msg.MessageText != "hi" || msg.AuthorID != alice.ID {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestSendForbiddenForOtherAuthor(t *testing.T) {
	env := newTestEnv(t)

	alice, _ := env.seedUser(t, "alice@example.com", "alice")
	bob, bobToken := env.seedUser(t, "bob@example.com", "bob")

	// Bob tries to send a message authored as alice.
	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/message/send", bobToken, SendMessageRequest{
		MessageText:       "hi",
		AuthorID:          alice.ID,
		AuthorNickname:    "alice",
		RecipientID:       bob.ID,
		RecipientNickname: "bob",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestSendNicknameMismatchIsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	alice, aliceToken := env.seedUser(t, "alice@example.com", "alice")
	bob, _ := env.seedUser(t, "bob@example.com", "bob")

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/message/send", aliceToken, SendMessageRequest{
		MessageText:       "hi",
		AuthorID:          alice.ID,
		AuthorNickname:    "alice",
		RecipientID:       bob.ID,
		RecipientNickname: "robert",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMessageEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	// No credential at all: rejected by the handler-level requirement.
	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/message/send", "", SendMessageRequest{})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	// A present but invalid credential is rejected at the middleware boundary.
	resp = doJSON(t, http.MethodGet, env.ts.URL+"/api/message/1/2", "garbage", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", resp.StatusCode)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/auth/register", "", RegisterRequest{
		Email:    "carol@example.com",
		Nickname: "carol",
		Password: "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected register status: %d", resp.StatusCode)
	}
	registered := decode[AuthResponse](t, resp)
	if registered.Token == "" {
		t.Fatalf("expected token on register")
	}

	resp = doJSON(t, http.MethodPost, env.ts.URL+"/api/auth/login", "", LoginRequest{
		Email:    "carol@example.com",
		Password: "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status: %d", resp.StatusCode)
	}

	// Duplicate registration conflicts.
	resp = doJSON(t, http.MethodPost, env.ts.URL+"/api/auth/register", "", RegisterRequest{
		Email:    "carol@example.com",
		Nickname: "carol2",
		Password: "password123",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestPostLifecycle(t *testing.T) {
	env := newTestEnv(t)

	_, aliceToken := env.seedUser(t, "alice@example.com", "alice")
	_, bobToken := env.seedUser(t, "bob@example.com", "bob")

	resp := doJSON(t, http.MethodPost, env.ts.URL+"/api/post", aliceToken, CreatePostRequest{
		Text: "first post",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected create post status: %d", resp.StatusCode)
	}
	post := decode[PostResponse](t, resp)

	likeURL := fmt.Sprintf("%s/api/post/%d/like", env.ts.URL, post.ID)
	if resp := doJSON(t, http.MethodPost, likeURL, bobToken, nil); resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected like status: %d", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodPost, likeURL, bobToken, nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on double like, got %d", resp.StatusCode)
	}

	commentURL := fmt.Sprintf("%s/api/post/%d/comment", env.ts.URL, post.ID)
	if resp := doJSON(t, http.MethodPost, commentURL, bobToken, CommentRequest{Text: "nice"}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected comment status: %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, env.ts.URL+"/api/posts", aliceToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected list status: %d", resp.StatusCode)
	}
	posts := decode[[]PostResponse](t, resp)
	if len(posts) != 1 || posts[0].Likes != 1 {
		t.Fatalf("unexpected posts: %+v", posts)
	}

	if resp := doJSON(t, http.MethodDelete, likeURL, bobToken, nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected unlike status: %d", resp.StatusCode)
	}
}
