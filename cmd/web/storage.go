package main

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// sessionStorage keeps the session token in the scs session so it survives between page loads.
type sessionStorage struct {
	sessionManager *scs.SessionManager
}

func (s *sessionStorage) Get(ctx context.Context, key string) (string, bool) {
	if !s.sessionManager.Exists(ctx, key) {
		return "", false
	}
	return s.sessionManager.GetString(ctx, key), true
}

func (s *sessionStorage) Set(ctx context.Context, key, value string) {
	s.sessionManager.Put(ctx, key, value)
}

func (s *sessionStorage) Delete(ctx context.Context, key string) {
	s.sessionManager.Remove(ctx, key)
}
