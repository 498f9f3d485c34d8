package auth

import "context"

// StaticVerifier resolves tokens from a fixed table. Unknown tokens fail
// with ErrInvalidToken unless Err is set, in which case every call fails
// with Err.
type StaticVerifier struct {
	Tokens map[string]*User
	Err    error
}

// NewStaticVerifier returns a verifier accepting token for user.
func NewStaticVerifier(token string, user *User) *StaticVerifier {
	return &StaticVerifier{Tokens: map[string]*User{token: user}}
}

func (s *StaticVerifier) Verify(_ context.Context, token string) (*User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.Tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// Compile-time interface check
var _ Verifier = (*StaticVerifier)(nil)
