// Package session holds the backend credentials of the running process.
package session

import (
	"context"
	"sync/atomic"

	"near2door-tracker/internal/domain"
)

// Credentials is one authenticated backend identity.
type Credentials struct {
	Token  string
	UserID string
	Role   domain.Actor
	ShopID string
}

// Context is the process-wide session state. Set and Clear are the only writers
// and swap the whole value at once.
type Context struct {
	v atomic.Pointer[Credentials]
}

// New returns a context initialised with c.
func New(c Credentials) *Context {
	s := &Context{}
	s.Set(c)
	return s
}

// Set replaces the credentials.
func (s *Context) Set(c Credentials) {
	s.v.Store(&c)
}

// Clear wipes the credentials.
func (s *Context) Clear() {
	s.v.Store(&Credentials{})
}

// Current returns a copy of the credentials.
func (s *Context) Current() Credentials {
	if c := s.v.Load(); c != nil {
		return *c
	}
	return Credentials{}
}

// Token returns the bearer token of the process.
func (s *Context) Token() string {
	return s.Current().Token
}

type tokenKey struct{}

// WithToken attaches a caller's own bearer token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the token attached by WithToken.
func TokenFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey{}).(string)
	return t, ok && t != ""
}
