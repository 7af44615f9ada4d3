// internal/common/auth/authtest/keycloak.go

// Package authtest runs an in-memory Keycloak realm for worker tests.
package authtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"franchise-pos/internal/common/auth"
)

const Realm = "pos"

// Server serves the token, logout and admin user endpoints of one realm.
type Server struct {
	URL string

	mu        sync.Mutex
	users     map[string]auth.User
	passwords map[string]string
	nextID    int
	// RevokedTokens lists refresh tokens passed to logout.
	RevokedTokens []string
}

func NewServer(t testing.TB) *Server {
	s := &Server{
		users:     map[string]auth.User{},
		passwords: map[string]string{},
	}
	srv := httptest.NewServer(s.routes())
	t.Cleanup(srv.Close)
	s.URL = srv.URL
	return s
}

// Client returns a Keycloak client pointed at the server.
func (s *Server) Client() *auth.KeycloakClient {
	return auth.NewKeycloakClient(auth.Options{
		BaseURL:      s.URL,
		Realm:        Realm,
		ClientID:     "pos-workers",
		ClientSecret: "secret",
	})
}

// AddUser registers an enabled user and returns its id.
func (s *Server) AddUser(email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(auth.User{Email: email, Username: email, Enabled: true}, password)
}

func (s *Server) addLocked(u auth.User, password string) string {
	s.nextID++
	u.ID = fmt.Sprintf("u-%d", s.nextID)
	s.users[u.ID] = u
	s.passwords[strings.ToLower(u.Email)] = password
	return u.ID
}

// Password returns the current password of email.
func (s *Server) Password(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pw, ok := s.passwords[strings.ToLower(email)]
	return pw, ok
}

func (s *Server) HasUser(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byEmailLocked(email)
	return ok
}

func (s *Server) byEmailLocked(email string) (auth.User, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return auth.User{}, false
}

func (s *Server) routes() http.Handler {
	base := "/realms/" + Realm + "/protocol/openid-connect"
	admin := "/admin/realms/" + Realm + "/users"

	mux := http.NewServeMux()
	mux.HandleFunc(base+"/token", s.token)
	mux.HandleFunc(base+"/token/introspect", s.introspect)
	mux.HandleFunc(base+"/logout", s.logout)
	mux.HandleFunc(admin, s.usersCollection)
	mux.HandleFunc(admin+"/", s.userResource)
	return mux
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	switch r.Form.Get("grant_type") {
	case "client_credentials":
		writeJSON(w, http.StatusOK, auth.TokenResponse{AccessToken: "svc-token", ExpiresIn: 300, TokenType: "Bearer"})
	case "password":
		s.mu.Lock()
		pw, ok := s.passwords[strings.ToLower(r.Form.Get("username"))]
		u, _ := s.byEmailLocked(r.Form.Get("username"))
		s.mu.Unlock()
		if !ok || pw != r.Form.Get("password") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_grant"})
			return
		}
		writeJSON(w, http.StatusOK, auth.TokenResponse{
			AccessToken:  AccessTokenFor(u.ID),
			RefreshToken: "refresh-" + u.ID,
			ExpiresIn:    300,
			TokenType:    "Bearer",
		})
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

// AccessTokenFor is the access token the server issues to user id.
func AccessTokenFor(id string) string {
	return "at-" + id
}

func (s *Server) introspect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	u, ok := s.users[strings.TrimPrefix(r.Form.Get("token"), "at-")]
	s.mu.Unlock()
	if !ok || !strings.HasPrefix(r.Form.Get("token"), "at-") {
		writeJSON(w, http.StatusOK, auth.TokenInfo{Active: false})
		return
	}
	writeJSON(w, http.StatusOK, auth.TokenInfo{Active: true, Sub: u.ID, Email: u.Email, Username: u.Username})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.RevokedTokens = append(s.RevokedTokens, r.Form.Get("refresh_token"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) usersCollection(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer svc-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		out := []auth.User{}
		if u, ok := s.byEmailLocked(r.URL.Query().Get("email")); ok {
			out = append(out, u)
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var body struct {
			auth.User
			Credentials []struct {
				Value string `json:"value"`
			} `json:"credentials"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, exists := s.byEmailLocked(body.Email); exists {
			writeJSON(w, http.StatusConflict, map[string]string{"errorMessage": "User exists with same username"})
			return
		}
		password := ""
		if len(body.Credentials) > 0 {
			password = body.Credentials[0].Value
		}
		id := s.addLocked(body.User, password)
		w.Header().Set("Location", s.URL+"/admin/realms/"+Realm+"/users/"+id)
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) userResource(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer svc-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rest := strings.TrimPrefix(r.URL.Path, "/admin/realms/"+Realm+"/users/")
	id := strings.TrimSuffix(rest, "/reset-password")
	u, ok := s.users[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}

	switch {
	case rest != id && r.Method == http.MethodPut:
		var cred struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.passwords[strings.ToLower(u.Email)] = cred.Value
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, u)
	case r.Method == http.MethodDelete:
		delete(s.users, id)
		delete(s.passwords, strings.ToLower(u.Email))
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, _ := json.Marshal(v)
	_, _ = io.WriteString(w, string(data))
}
