package gotrue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "anon-key", server.Client(), zerolog.Nop())
	return client, server
}

func TestPasswordGrantReturnsSession(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("apikey header = %q, want anon-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "at-123",
			"token_type": "bearer",
			"expires_in": 3600,
			"refresh_token": "rt-456",
			"user": {"id": "u-1", "email": "a@b.c"}
		}`))
	})

	session, err := client.PasswordGrant(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("PasswordGrant() error = %v", err)
	}
	if session.AccessToken != "at-123" || session.RefreshToken != "rt-456" {
		t.Errorf("unexpected session tokens: %+v", session)
	}
	if session.User == nil || session.User.ID != "u-1" {
		t.Errorf("unexpected session user: %+v", session.User)
	}
}

func TestPasswordGrantRejectionIsUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_grant", "error_description": "Invalid login credentials"}`))
	})

	_, err := client.PasswordGrant(context.Background(), "a@b.c", "wrong")
	if err == nil {
		t.Fatal("expected error for rejected credentials")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeUnauthorized {
		t.Errorf("TypeOf(err) = %v, want unauthorized", got)
	}
	perr, _ := platformerrors.AsPlatformError(err)
	if perr == nil || perr.Message != "Invalid login credentials" {
		t.Errorf("expected provider message to surface, got %v", err)
	}
}

func TestProviderServerErrorIsExternal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream exploded`))
	})

	_, err := client.RefreshGrant(context.Background(), "rt-1")
	if err == nil {
		t.Fatal("expected error for provider 5xx")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeExternal {
		t.Errorf("TypeOf(err) = %v, want external", got)
	}
}

func TestProviderUnreachableIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(server.URL, "", server.Client(), zerolog.Nop())
	server.Close()

	_, err := client.PasswordGrant(context.Background(), "a@b.c", "secret")
	if err == nil {
		t.Fatal("expected error when provider is down")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeUnavailable {
		t.Errorf("TypeOf(err) = %v, want unavailable", got)
	}
}

func TestSignupWithoutSessionReturnsUser(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/signup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "u-2", "email": "new@b.c", "role": "authenticated"}`))
	})

	result, err := client.Signup(context.Background(), SignupPayload{Email: "new@b.c", Password: "secret"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if result.Session != nil {
		t.Errorf("expected no session for confirmation-gated signup, got %+v", result.Session)
	}
	if result.User == nil || result.User.ID != "u-2" {
		t.Errorf("unexpected signup user: %+v", result.User)
	}
}

func TestSignupWithSessionReturnsBoth(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "at-9",
			"token_type": "bearer",
			"expires_in": 3600,
			"refresh_token": "rt-9",
			"user": {"id": "u-3"}
		}`))
	})

	result, err := client.Signup(context.Background(), SignupPayload{Email: "x@b.c", Password: "secret"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if result.Session == nil || result.Session.AccessToken != "at-9" {
		t.Errorf("expected session, got %+v", result.Session)
	}
	if result.User == nil || result.User.ID != "u-3" {
		t.Errorf("expected user from session, got %+v", result.User)
	}
}
