package auth

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"lowercase scheme", "bearer token123", "token123", nil},
		{"surrounding spaces", "  Bearer token123  ", "token123", nil},
		{"empty", "", "", ErrNoToken},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", ErrInvalidToken},
		{"scheme only", "Bearer", "", ErrInvalidToken},
		{"empty token", "Bearer   ", "", ErrInvalidToken},
		{"extra parts", "Bearer a b", "", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyUnknownError(t *testing.T) {
	if err := classify(errors.New("weird")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestUserFromToken(t *testing.T) {
	token := &fbauth.Token{
		UID: "u1",
		Claims: map[string]any{
			"email":          "alice@example.com",
			"email_verified": true,
		},
	}
	token.Firebase.SignInProvider = "password"

	u := userFromToken(token)
	if u.UID != "u1" || u.Email != "alice@example.com" || !u.EmailVerified || u.Provider != "password" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestUserFromTokenMissingClaims(t *testing.T) {
	u := userFromToken(&fbauth.Token{UID: "u2"})
	if u.Email != "" || u.EmailVerified {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestStaticVerifier(t *testing.T) {
	user := &User{UID: "u1"}
	v := NewStaticVerifier("good", user)

	got, err := v.Verify(context.Background(), "good")
	if err != nil || got != user {
		t.Fatalf("expected user, got %v %v", got, err)
	}
	if _, err := v.Verify(context.Background(), "bad"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	v.Err = ErrTokenRevoked
	if _, err := v.Verify(context.Background(), "good"); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}
