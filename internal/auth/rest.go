package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rentgear-storefront/internal/domain"
	"rentgear-storefront/internal/logger"
)

// RestProvider talks to the identity provider's REST surface. It keeps the
// current-user snapshot and fans out changes to subscribers.
type RestProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu          sync.Mutex
	user        *domain.User
	idToken     string
	subscribers []chan *domain.User
}

func NewRestProvider(baseURL, apiKey string, timeout time.Duration) *RestProvider {
	return &RestProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type identityResponse struct {
	IDToken     string `json:"idToken"`
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

func (p *RestProvider) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var resp identityResponse
	err := p.post(ctx, "signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return p.setSession(resp), nil
}

// LoginWithGoogle exchanges a federated credential for a provider session.
// The credential's claims carry the profile fields the provider needs.
func (p *RestProvider) LoginWithGoogle(ctx context.Context, credential string) (*domain.User, error) {
	claims := parseClaims(credential)
	var resp identityResponse
	err := p.post(ctx, "signInWithIdp", map[string]any{
		"idToken":           credential,
		"email":             claims.Email,
		"displayName":       claims.Name,
		"photoUrl":          claims.Picture,
		"providerId":        "google.com",
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return p.setSession(resp), nil
}

func (p *RestProvider) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	var resp identityResponse
	err := p.post(ctx, "signUp", map[string]any{
		"email":             email,
		"password":          password,
		"displayName":       name,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return p.setSession(resp), nil
}

func (p *RestProvider) Logout() {
	p.mu.Lock()
	p.user = nil
	p.idToken = ""
	subs := append([]chan *domain.User(nil), p.subscribers...)
	p.mu.Unlock()
	notify(subs, nil)
}

func (p *RestProvider) UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error) {
	p.mu.Lock()
	token := p.idToken
	current := p.user
	p.mu.Unlock()
	if current == nil {
		return nil, NewError("INVALID_ID_TOKEN")
	}

	if update.Name != "" || update.PhotoURL != "" {
		var resp identityResponse
		err := p.post(ctx, "update", map[string]any{
			"idToken":           token,
			"displayName":       update.Name,
			"photoUrl":          update.PhotoURL,
			"returnSecureToken": true,
		}, &resp)
		if err != nil {
			return nil, err
		}
	}

	p.mu.Lock()
	if p.user == nil {
		p.mu.Unlock()
		return nil, NewError("INVALID_ID_TOKEN")
	}
	if update.Name != "" {
		p.user.Name = update.Name
	}
	if update.PhotoURL != "" {
		p.user.PhotoURL = update.PhotoURL
	}
	if update.Phone != "" {
		p.user.Phone = update.Phone
	}
	if update.Address != "" {
		p.user.Address = update.Address
	}
	user := *p.user
	subs := append([]chan *domain.User(nil), p.subscribers...)
	p.mu.Unlock()

	notify(subs, &user)
	return &user, nil
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (p *RestProvider) CurrentUser() *domain.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return nil
	}
	user := *p.user
	return &user
}

// Subscribe returns a channel receiving the user snapshot on every auth
// state change; nil means signed out. The channel is buffered and only ever
// holds the latest snapshot.
func (p *RestProvider) Subscribe() <-chan *domain.User {
	ch := make(chan *domain.User, 1)
	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.mu.Unlock()
	return ch
}

// setSession builds the user snapshot from the provider response, enriched
// with the ID token's claims, and publishes it.
func (p *RestProvider) setSession(resp identityResponse) *domain.User {
	claims := parseClaims(resp.IDToken)
	name := resp.DisplayName
	if name == "" {
		name = claims.Name
	}
	if name == "" && resp.Email != "" {
		name = strings.SplitN(resp.Email, "@", 2)[0]
	}
	photo := resp.PhotoURL
	if photo == "" {
		photo = claims.Picture
	}

	user := domain.User{
		ID:       resp.LocalID,
		Name:     name,
		Email:    resp.Email,
		Phone:    claims.PhoneNumber,
		PhotoURL: photo,
	}

	p.mu.Lock()
	p.user = &user
	p.idToken = resp.IDToken
	subs := append([]chan *domain.User(nil), p.subscribers...)
	p.mu.Unlock()

	snapshot := user
	notify(subs, &snapshot)
	out := user
	return &out
}

func (p *RestProvider) post(ctx context.Context, action string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode auth request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/accounts:%s", p.baseURL, action)
	if p.apiKey != "" {
		url += "?key=" + p.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.ExternalServiceCall("auth", action)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.ExternalServiceResult("auth", action, err)
		return fmt.Errorf("auth %s: %w", action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.ExternalServiceResult("auth", action, err)
		return fmt.Errorf("auth %s: read response: %w", action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		authErr := decodeProviderError(data)
		logger.ExternalServiceResult("auth", action, authErr)
		return authErr
	}

	logger.ExternalServiceResult("auth", action, nil)
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("auth %s: decode response: %w", action, err)
		}
	}
	return nil
}

// decodeProviderError extracts the provider's error code from its error
// envelope and maps it to a user-facing message.
func decodeProviderError(data []byte) *Error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error.Message == "" {
		return NewError("UNKNOWN")
	}
	// Codes sometimes arrive suffixed with detail, e.g.
	// "TOO_MANY_ATTEMPTS_TRY_LATER : retry later".
	code := strings.SplitN(envelope.Error.Message, " ", 2)[0]
	return NewError(code)
}

type tokenClaims struct {
	Name        string
	Picture     string
	Email       string
	PhoneNumber string
}

// parseClaims extracts display claims from an ID token without verifying the
// signature; verification is the provider's job, these values only feed the
// local snapshot.
func parseClaims(token string) tokenClaims {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return tokenClaims{}
	}
	out := tokenClaims{}
	if v, ok := claims["name"].(string); ok {
		out.Name = v
	}
	if v, ok := claims["picture"].(string); ok {
		out.Picture = v
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["phone_number"].(string); ok {
		out.PhoneNumber = v
	}
	return out
}

func notify(subscribers []chan *domain.User, user *domain.User) {
	for _, ch := range subscribers {
		// Drop the stale snapshot if the subscriber hasn't drained it yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- user:
		default:
		}
	}
}
