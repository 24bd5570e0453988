package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sarveshmathanraj02/employee-task-app/internal/model"
	"github.com/sarveshmathanraj02/employee-task-app/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct {
	findFunc    func(ctx context.Context, username string) (*model.User, error)
	createFunc  func(ctx context.Context, user *model.User) error
	findCalls   int
	createCalls int
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	m.findCalls++
	return m.findFunc(ctx, username)
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	m.createCalls++
	return m.createFunc(ctx, user)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHashVerifyPassword(t *testing.T) {
	hash, err := hashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !verifyPassword("secret123", hash) {
		t.Fatalf("expected original password to verify")
	}
	if verifyPassword("secret124", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashVerifyPassword_LongInput(t *testing.T) {
	long := strings.Repeat("a", 100)
	hash, err := hashPassword(long)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !verifyPassword(long, hash) {
		t.Fatalf("expected long password to verify")
	}
	// 只有前 72 字节参与哈希
	if !verifyPassword(strings.Repeat("a", 72), hash) {
		t.Fatalf("expected truncated password to verify")
	}
	if verifyPassword(strings.Repeat("a", 71), hash) {
		t.Fatalf("expected shorter password to fail")
	}
}

func TestIssueToken_RoundTrip(t *testing.T) {
	h := NewHandler(nil, "test_secret", 30*time.Minute, discardLogger())

	tokenStr, err := h.issueToken("alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test_secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		t.Fatalf("expected token to parse, got err=%v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future")
	}
}

func TestIssueToken_RequiresTTL(t *testing.T) {
	h := NewHandler(nil, "test_secret", 0, discardLogger())
	if _, err := h.issueToken("alice"); err == nil {
		t.Fatalf("expected error without ttl")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test_secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	parsed := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(tokenStr, parsed, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test_secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestSignup_Normal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()

	store := &mockUserStore{
		findFunc: func(ctx context.Context, username string) (*model.User, error) { return nil, nil },
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			return nil
		},
	}
	h := NewHandler(store, "test_secret", 30*time.Minute, discardLogger())

	r := gin.New()
	r.POST("/signup", h.Signup)

	payload, _ := json.Marshal(map[string]string{"username": "alice", "password": "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if store.createCalls != 1 {
		t.Fatalf("expected create to be called once")
	}

	var resp userResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 1 || resp.Username != "alice" || !resp.IsActive {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatalf("response must not contain password material")
	}
}

func TestSignup_HashesPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()

	var stored *model.User
	store := &mockUserStore{
		findFunc: func(ctx context.Context, username string) (*model.User, error) { return nil, nil },
		createFunc: func(ctx context.Context, user *model.User) error {
			stored = user
			return nil
		},
	}
	h := NewHandler(store, "test_secret", 30*time.Minute, discardLogger())

	r := gin.New()
	r.POST("/signup", h.Signup)

	payload, _ := json.Marshal(map[string]string{"username": "alice", "password": "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if stored == nil || stored.Password == "secret123" {
		t.Fatalf("expected stored password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()

	store := &mockUserStore{
		findFunc: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 1, Username: username}, nil
		},
		createFunc: func(ctx context.Context, user *model.User) error { return nil },
	}
	h := NewHandler(store, "test_secret", 30*time.Minute, discardLogger())

	r := gin.New()
	r.POST("/signup", h.Signup)

	payload, _ := json.Marshal(map[string]string{"username": "alice", "password": "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if store.createCalls != 0 {
		t.Fatalf("expected no create on duplicate username")
	}
}

func TestLogin_Normal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	store := &mockUserStore{
		findFunc: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 1, Username: username, Password: string(hash), IsActive: true}, nil
		},
		createFunc: func(ctx context.Context, user *model.User) error { return nil },
	}
	h := NewHandler(store, "test_secret", 30*time.Minute, discardLogger())

	r := gin.New()
	r.POST("/login", h.Login)

	payload, _ := json.Marshal(map[string]string{"username": "alice", "password": "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp tokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected access_token in response")
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("expected token_type bearer, got %q", resp.TokenType)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)

	cases := []struct {
		name string
		find func(ctx context.Context, username string) (*model.User, error)
	}{
		{
			name: "unknown user",
			find: func(ctx context.Context, username string) (*model.User, error) { return nil, nil },
		},
		{
			name: "wrong password",
			find: func(ctx context.Context, username string) (*model.User, error) {
				return &model.User{ID: 1, Username: username, Password: string(hash)}, nil
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockUserStore{
				findFunc:   tc.find,
				createFunc: func(ctx context.Context, user *model.User) error { return nil },
			}
			h := NewHandler(store, "test_secret", 30*time.Minute, discardLogger())

			r := gin.New()
			r.POST("/login", h.Login)

			payload, _ := json.Marshal(map[string]string{"username": "alice", "password": "wrongpass"})
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			// 用户不存在与密码错误必须返回同一个响应
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if !bytes.Contains(w.Body.Bytes(), []byte("incorrect username or password")) {
				t.Fatalf("expected uniform error body, got %s", w.Body.String())
			}
		})
	}
}
