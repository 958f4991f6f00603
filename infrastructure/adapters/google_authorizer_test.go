package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ekaud/my-audio-summaries/config"
)

func TestGoogleAuthorizer_CachesTokenUntilExpiry(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if err := r.ParseForm(); err != nil {
			t.Error("Failed to parse token form:", err)
		}
		if grant := r.PostForm.Get("grant_type"); grant != "refresh_token" {
			t.Errorf("grant_type = %q", grant)
		}
		if refresh := r.PostForm.Get("refresh_token"); refresh != "long-lived" {
			t.Errorf("refresh_token = %q", refresh)
		}
		fmt.Fprint(w, `{"access_token":"short-lived","expires_in":3600,"token_type":"Bearer"}`)
	}))
	defer server.Close()

	authorizer := NewGoogleAuthorizer(NewZerologWrapper(), &config.GoogleConfig{
		ClientID:      "client",
		ClientSecret:  "secret",
		RefreshToken:  "long-lived",
		TokenEndpoint: server.URL,
	})

	for i := 0; i < 3; i++ {
		token, err := authorizer.Authorize(context.Background())
		if err != nil {
			t.Fatal("Failed to authorize:", err)
		}
		if token != "short-lived" {
			t.Errorf("token = %q", token)
		}
	}

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("token endpoint hit %d times, want 1 (token is cached)", n)
	}
}

func TestGoogleAuthorizer_ExpiredTokenIsRefreshed(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		// expires_in below the one-minute refresh margin, so the cached
		// token is already considered stale.
		fmt.Fprintf(w, `{"access_token":"token-%d","expires_in":30,"token_type":"Bearer"}`, n)
	}))
	defer server.Close()

	authorizer := NewGoogleAuthorizer(NewZerologWrapper(), &config.GoogleConfig{
		ClientID:      "client",
		ClientSecret:  "secret",
		RefreshToken:  "long-lived",
		TokenEndpoint: server.URL,
	})

	if _, err := authorizer.Authorize(context.Background()); err != nil {
		t.Fatal("Failed to authorize:", err)
	}
	token, err := authorizer.Authorize(context.Background())
	if err != nil {
		t.Fatal("Failed to authorize:", err)
	}

	if token != "token-2" {
		t.Errorf("token = %q, want a freshly issued token", token)
	}
}
