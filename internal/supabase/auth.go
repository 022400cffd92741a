package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthEvent is an asynchronous auth-state notification.
type AuthEvent string

const (
	SignedIn  AuthEvent = "SIGNED_IN"
	SignedOut AuthEvent = "SIGNED_OUT"
)

// refreshLeeway is how close to expiry a token may get before a call
// triggers a refresh instead of using it.
const refreshLeeway = 30 * time.Second

// Session is the operator's authentication state.
type Session struct {
	AccessToken  string
	RefreshToken string
	Email        string
	ExpiresAt    time.Time
}

// AuthClient talks to the backend's auth service and owns the current
// session. Subscribers are notified of sign-in and sign-out transitions,
// including those caused by a failed token refresh.
type AuthClient struct {
	c *Client

	mu      sync.Mutex
	session *Session
	nextID  int
	subs    map[int]func(AuthEvent, *Session)
	now     func() time.Time
}

func newAuthClient(c *Client) *AuthClient {
	return &AuthClient{
		c:    c,
		subs: make(map[int]func(AuthEvent, *Session)),
		now:  time.Now,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		Email string `json:"email"`
	} `json:"user"`
}

type authErrorBody struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

// SignInWithPassword exchanges a credential pair for a session.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	session, err := a.tokenRequest(ctx, "password", body)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.session = session
	a.mu.Unlock()

	a.c.logger.Info().Str("email", session.Email).Msg("signed in")
	a.notify(SignedIn, session)
	return nil
}

// SignOut revokes the session remotely on a best-effort basis and always
// clears the local session. Subscribers receive SIGNED_OUT regardless of
// whether the remote revocation succeeded.
func (a *AuthClient) SignOut(ctx context.Context) error {
	a.mu.Lock()
	session := a.session
	a.session = nil
	a.mu.Unlock()

	var revokeErr error
	if session != nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.c.baseURL+"/auth/v1/logout", nil)
		if err == nil {
			req.Header.Set("apikey", a.c.anonKey)
			req.Header.Set("Authorization", "Bearer "+session.AccessToken)
			resp, err := a.c.httpClient.Do(req)
			if err != nil {
				revokeErr = err
			} else {
				resp.Body.Close()
				if resp.StatusCode >= 400 {
					revokeErr = fmt.Errorf("logout status %d", resp.StatusCode)
				}
			}
		}
	}
	if revokeErr != nil {
		a.c.logger.Warn().Err(revokeErr).Msg("remote sign-out failed; local session cleared anyway")
	} else {
		a.c.logger.Info().Msg("signed out")
	}

	a.notify(SignedOut, nil)
	return nil
}

// Session returns a copy of the current session, or nil when signed out or
// when the token has already expired.
func (a *AuthClient) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	if !a.session.ExpiresAt.IsZero() && a.now().After(a.session.ExpiresAt) {
		return nil
	}
	copied := *a.session
	return &copied
}

// OnAuthStateChange registers a subscriber and returns its disposer. The
// disposer must be called when the subscribing view goes away.
func (a *AuthClient) OnAuthStateChange(fn func(AuthEvent, *Session)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

// bearerToken returns the token to authorize a backend call with: the
// session's access token when signed in (refreshed if close to expiry), the
// anon key otherwise. A failed refresh clears the session and notifies
// subscribers of the sign-out.
func (a *AuthClient) bearerToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	session := a.session
	if session == nil {
		a.mu.Unlock()
		return a.c.anonKey, nil
	}
	if session.ExpiresAt.IsZero() || a.now().Add(refreshLeeway).Before(session.ExpiresAt) {
		token := session.AccessToken
		a.mu.Unlock()
		return token, nil
	}
	refreshToken := session.RefreshToken
	a.mu.Unlock()

	refreshed, err := a.tokenRequest(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		a.mu.Lock()
		a.session = nil
		a.mu.Unlock()
		a.c.logger.Warn().Err(err).Msg("session refresh failed")
		a.notify(SignedOut, nil)
		return "", err
	}

	a.mu.Lock()
	a.session = refreshed
	a.mu.Unlock()
	return refreshed.AccessToken, nil
}

func (a *AuthClient) tokenRequest(ctx context.Context, grantType string, payload map[string]string) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &AuthError{Err: err}
	}

	url := a.c.baseURL + "/auth/v1/token?grant_type=" + grantType
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	req.Header.Set("apikey", a.c.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.c.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode >= 400 {
		var errBody authErrorBody
		_ = json.Unmarshal(raw, &errBody)
		message := errBody.Message
		if message == "" {
			message = errBody.ErrorDescription
		}
		return nil, &AuthError{Status: resp.StatusCode, Message: message}
	}

	var tok tokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, &AuthError{Status: resp.StatusCode, Err: fmt.Errorf("decode token response: %w", err)}
	}
	if tok.AccessToken == "" {
		return nil, &AuthError{Status: resp.StatusCode, Err: fmt.Errorf("token response missing access_token")}
	}

	session := &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Email:        tok.User.Email,
	}
	if tok.ExpiresIn > 0 {
		session.ExpiresAt = a.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	fillFromClaims(session)
	return session, nil
}

// fillFromClaims reads email and expiry out of the access token when the
// token response body did not carry them.
func fillFromClaims(s *Session) {
	if s.Email != "" && !s.ExpiresAt.IsZero() {
		return
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return
	}
	if s.Email == "" {
		if email, ok := claims["email"].(string); ok {
			s.Email = email
		}
	}
	if s.ExpiresAt.IsZero() {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			s.ExpiresAt = exp.Time
		}
	}
}

// notify calls subscribers without holding the auth lock so that a
// subscriber may call back into the client.
func (a *AuthClient) notify(event AuthEvent, session *Session) {
	a.mu.Lock()
	fns := make([]func(AuthEvent, *Session), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}
