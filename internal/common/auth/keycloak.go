// internal/common/auth/keycloak.go
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"franchise-pos/internal/common/errors"
	httpclient "franchise-pos/internal/common/http"
)

// KeycloakClient talks to the Keycloak admin and token endpoints.
type KeycloakClient struct {
	baseURL        string
	realm          string
	clientID       string
	clientSecret   string
	publicClientID string
	httpClient     *httpclient.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type User struct {
	ID            string `json:"id,omitempty"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Username      string `json:"username"`
	Enabled       bool   `json:"enabled"`
	EmailVerified bool   `json:"emailVerified"`
}

type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
	RefreshToken     string `json:"refresh_token"`
	Scope            string `json:"scope"`
}

type TokenInfo struct {
	Active   bool   `json:"active"`
	ClientID string `json:"client_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Exp      int64  `json:"exp,omitempty"`
	Sub      string `json:"sub,omitempty"`
}

type credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type Options struct {
	BaseURL        string
	Realm          string
	ClientID       string
	ClientSecret   string
	PublicClientID string
	HTTPClient     *httpclient.Client
}

func NewKeycloakClient(opts Options) *KeycloakClient {
	hc := opts.HTTPClient
	if hc == nil {
		hc = httpclient.NewClient("keycloak", 30*time.Second)
	}
	public := opts.PublicClientID
	if public == "" {
		public = opts.ClientID
	}
	return &KeycloakClient{
		baseURL:        strings.TrimSuffix(opts.BaseURL, "/"),
		realm:          opts.Realm,
		clientID:       opts.ClientID,
		clientSecret:   opts.ClientSecret,
		publicClientID: public,
		httpClient:     hc,
	}
}

func (k *KeycloakClient) tokenURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", k.baseURL, k.realm)
}

func (k *KeycloakClient) adminURL(path string) string {
	return fmt.Sprintf("%s/admin/realms/%s%s", k.baseURL, k.realm, path)
}

func (k *KeycloakClient) serviceToken(ctx context.Context) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.accessToken != "" && k.tokenExpiry.After(time.Now()) {
		return k.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", k.clientID)
	form.Set("client_secret", k.clientSecret)

	resp, err := k.postForm(ctx, k.tokenURL(), form)
	if err != nil {
		return "", errors.NewAuthProviderError("service token", err, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.NewAuthProviderError("service token",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)), isTransientHTTPError(resp.StatusCode))
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", errors.NewAuthProviderError("service token", err, false)
	}

	k.accessToken = tr.AccessToken
	// refresh slightly before the provider's expiry
	k.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - 10*time.Second)
	return k.accessToken, nil
}

// PasswordGrant signs a user in. Any rejected credential is reported as
// INVALID_CREDENTIALS without saying whether the account exists.
func (k *KeycloakClient) PasswordGrant(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", k.publicClientID)
	if k.publicClientID == k.clientID && k.clientSecret != "" {
		form.Set("client_secret", k.clientSecret)
	}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("scope", "openid email")

	resp, err := k.postForm(ctx, k.tokenURL(), form)
	if err != nil {
		return nil, errors.NewAuthProviderError("sign in", err, true)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return nil, errors.NewInvalidCredentialsError()
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewAuthProviderError("sign in",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)), isTransientHTTPError(resp.StatusCode))
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, errors.NewAuthProviderError("sign in", err, false)
	}
	return &tr, nil
}

// CreateUser registers user with the given password. A 409 is returned as an
// AUTH_PROVIDER_FAILED error whose details carry the provider's message.
func (k *KeycloakClient) CreateUser(ctx context.Context, user *User, password string) (*User, error) {
	if user.Username == "" {
		user.Username = user.Email
	}

	payload := struct {
		*User
		Credentials []credential `json:"credentials,omitempty"`
	}{User: user}
	if password != "" {
		payload.Credentials = []credential{{Type: "password", Value: password}}
	}

	resp, err := k.adminRequest(ctx, http.MethodPost, "/users", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError("create user", resp)
	}

	if location := resp.Header.Get("Location"); location != "" {
		parts := strings.Split(location, "/")
		user.ID = parts[len(parts)-1]
	}
	return user, nil
}

func (k *KeycloakClient) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	resp, err := k.adminRequest(ctx, http.MethodGet, "/users?exact=true&email="+url.QueryEscape(email), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("user search", resp)
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, errors.NewAuthProviderError("user search", err, false)
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, errors.NewUserNotFoundError(email)
}

// ResetPassword sets a permanent password for userID.
func (k *KeycloakClient) ResetPassword(ctx context.Context, userID, password string) error {
	resp, err := k.adminRequest(ctx, http.MethodPut, "/users/"+url.PathEscape(userID)+"/reset-password",
		credential{Type: "password", Value: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError("reset password", resp)
	}
	return nil
}

func (k *KeycloakClient) DeleteUser(ctx context.Context, userID string) error {
	resp, err := k.adminRequest(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError("delete user", resp)
	}
	return nil
}

func (k *KeycloakClient) Logout(ctx context.Context, refreshToken string) error {
	form := url.Values{}
	form.Set("client_id", k.publicClientID)
	if k.publicClientID == k.clientID && k.clientSecret != "" {
		form.Set("client_secret", k.clientSecret)
	}
	form.Set("refresh_token", refreshToken)

	resp, err := k.postForm(ctx, fmt.Sprintf("%s/realms/%s/protocol/openid-connect/logout", k.baseURL, k.realm), form)
	if err != nil {
		return errors.NewAuthProviderError("logout", err, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return apiError("logout", resp)
	}
	return nil
}

// IntrospectToken returns the token's claims, or INVALID_CREDENTIALS when inactive.
func (k *KeycloakClient) IntrospectToken(ctx context.Context, token string) (*TokenInfo, error) {
	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", "access_token")
	form.Set("client_id", k.clientID)
	form.Set("client_secret", k.clientSecret)

	resp, err := k.postForm(ctx, k.tokenURL()+"/introspect", form)
	if err != nil {
		return nil, errors.NewAuthProviderError("introspect", err, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("introspect", resp)
	}

	var info TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.NewAuthProviderError("introspect", err, false)
	}
	if !info.Active {
		return nil, errors.NewInvalidCredentialsError()
	}
	return &info, nil
}

func (k *KeycloakClient) postForm(ctx context.Context, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return k.httpClient.Do(req)
}

func (k *KeycloakClient) adminRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	token, err := k.serviceToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewAuthProviderError(method+" "+path, err, false)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, k.adminURL(path), reader)
	if err != nil {
		return nil, errors.NewAuthProviderError(method+" "+path, err, false)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAuthProviderError(method+" "+path, err, true)
	}
	return resp, nil
}

func apiError(operation string, resp *http.Response) *errors.StandardError {
	body, _ := io.ReadAll(resp.Body)
	return errors.NewAuthProviderError(operation,
		fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		isTransientHTTPError(resp.StatusCode)).
		WithMetadata("status", resp.StatusCode)
}

func isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
