package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/security"
)

const strongTestPassword = "Valida7!"

func newTestIssuer(t *testing.T) *security.TokenIssuer {
	t.Helper()
	issuer, err := security.NewTokenIssuer("test-secret", "notapp-test", 30*24*time.Hour, 30*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	return issuer
}

func newAuthService(t *testing.T, users *mockUserRepository, failures *mockLoginFailureStore, events *mockEventPublisher) *AuthService {
	t.Helper()
	if events == nil {
		events = &mockEventPublisher{}
	}
	return NewAuthService(
		users,
		failures,
		newTestIssuer(t),
		security.DefaultPasswordValidator(),
		events,
		zaptest.NewLogger(t),
		10*time.Minute,
		3,
	)
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:            "Ana",
		Email:           "ana@example.com",
		EmailConfirm:    "ana@example.com",
		Password:        strongTestPassword,
		PasswordConfirm: strongTestPassword,
	}
}

func TestAuthServiceRegister(t *testing.T) {
	users := &mockUserRepository{}
	events := &mockEventPublisher{}
	service := newAuthService(t, users, &mockLoginFailureStore{}, events)

	user, token, err := service.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected sanitized user without password hash")
	}
	if users.createCalls != 1 {
		t.Fatalf("expected Create to be called once, got %d", users.createCalls)
	}
	if ok, err := security.VerifyPassword(strongTestPassword, users.createdUser.PasswordHash); err != nil || !ok {
		t.Fatalf("expected stored hash to match original password")
	}

	claims, err := service.ParseSession(token)
	if err != nil {
		t.Fatalf("ParseSession returned error: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "ana@example.com" || claims.Name != "Ana" {
		t.Fatalf("unexpected session claims: %+v", claims)
	}

	if events.registeredCalls != 1 {
		t.Fatalf("expected one registration event, got %d", events.registeredCalls)
	}
	if events.registered.Method != "register" {
		t.Fatalf("expected register method, got %q", events.registered.Method)
	}
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }, ErrMissingFields},
		{"missing password confirm", func(in *RegisterInput) { in.PasswordConfirm = "" }, ErrMissingFields},
		{"email mismatch", func(in *RegisterInput) { in.EmailConfirm = "otra@example.com" }, ErrEmailMismatch},
		{"password mismatch", func(in *RegisterInput) { in.PasswordConfirm = "Distinta7!" }, ErrPasswordMismatch},
		{"bad email format", func(in *RegisterInput) { in.Email = "ana"; in.EmailConfirm = "ana" }, ErrCredentialFormat},
		{"short password", func(in *RegisterInput) { in.Password = "Corta7"; in.PasswordConfirm = "Corta7" }, ErrWeakPassword},
		{"no uppercase", func(in *RegisterInput) { in.Password = "invalida7!"; in.PasswordConfirm = "invalida7!" }, ErrWeakPassword},
		{"no digit", func(in *RegisterInput) { in.Password = "Invalida!"; in.PasswordConfirm = "Invalida!" }, ErrWeakPassword},
		{"no symbol", func(in *RegisterInput) { in.Password = "Invalida7"; in.PasswordConfirm = "Invalida7" }, ErrWeakPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &mockUserRepository{}
			service := newAuthService(t, users, &mockLoginFailureStore{}, nil)

			input := registerInput()
			tc.mutate(&input)

			if _, _, err := service.Register(context.Background(), input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if users.createCalls != 0 {
				t.Fatalf("expected no user creation on validation failure")
			}
		})
	}
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	existing := domain.User{ID: "u1", Email: "ana@example.com"}
	users := &mockUserRepository{usersByEmail: map[string]*domain.User{"ana@example.com": &existing}}
	service := newAuthService(t, users, &mockLoginFailureStore{}, nil)

	if _, _, err := service.Register(context.Background(), registerInput()); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func loginFixtures(t *testing.T) (*mockUserRepository, *mockLoginFailureStore, *AuthService) {
	t.Helper()
	hash, err := security.HashPassword(strongTestPassword)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	user := domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: hash}
	users := &mockUserRepository{usersByEmail: map[string]*domain.User{user.Email: &user}}
	failures := &mockLoginFailureStore{}
	service := newAuthService(t, users, failures, nil)
	return users, failures, service
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	_, failures, service := loginFixtures(t)

	token, err := service.Login(context.Background(), "ana@example.com", strongTestPassword)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}
	if failures.recordCalls != 0 {
		t.Fatalf("expected no recorded failures, got %d", failures.recordCalls)
	}
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	_, _, service := loginFixtures(t)

	if _, err := service.Login(context.Background(), "nadie@example.com", strongTestPassword); !errors.Is(err, ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}
}

func TestAuthServiceLoginThrottleSequence(t *testing.T) {
	_, failures, service := loginFixtures(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.WithClock(func() time.Time { return now })

	// First failure: two attempts left.
	_, err := service.Login(context.Background(), "ana@example.com", "Mala7!xx")
	var remaining *RemainingAttemptsError
	if !errors.As(err, &remaining) || remaining.Remaining != 2 {
		t.Fatalf("expected 2 remaining attempts, got %v", err)
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected RemainingAttemptsError to unwrap to ErrInvalidCredentials")
	}

	// Second failure: one attempt left.
	now = now.Add(time.Minute)
	_, err = service.Login(context.Background(), "ana@example.com", "Mala7!xx")
	if !errors.As(err, &remaining) || remaining.Remaining != 1 {
		t.Fatalf("expected 1 remaining attempt, got %v", err)
	}

	// Third failure crosses the threshold.
	now = now.Add(time.Minute)
	if _, err := service.Login(context.Background(), "ana@example.com", "Mala7!xx"); !errors.Is(err, ErrLoginBlocked) {
		t.Fatalf("expected ErrLoginBlocked on third failure, got %v", err)
	}
	if failures.recordCalls != 3 {
		t.Fatalf("expected 3 recorded failures, got %d", failures.recordCalls)
	}

	// Even the correct password is rejected while blocked, before hashing work.
	now = now.Add(time.Minute)
	if _, err := service.Login(context.Background(), "ana@example.com", strongTestPassword); !errors.Is(err, ErrLoginBlocked) {
		t.Fatalf("expected ErrLoginBlocked with correct password, got %v", err)
	}
	if failures.recordCalls != 3 {
		t.Fatalf("expected blocked login to record nothing, got %d", failures.recordCalls)
	}

	// Window elapse restores login.
	now = now.Add(11 * time.Minute)
	if _, err := service.Login(context.Background(), "ana@example.com", strongTestPassword); err != nil {
		t.Fatalf("expected login to succeed after window elapsed, got %v", err)
	}
}

func TestAuthServiceMe(t *testing.T) {
	user := domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: "secret"}
	invitations := []domain.Invitation{{ID: "i1", UserID: "u1", HomeID: "h1"}}
	users := &mockUserRepository{
		usersByID:         map[string]*domain.User{"u1": &user},
		invitationsResult: invitations,
	}
	service := newAuthService(t, users, &mockLoginFailureStore{}, nil)

	got, gotInvitations, err := service.Me(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatalf("expected sanitized user")
	}
	if len(gotInvitations) != 1 || gotInvitations[0].ID != "i1" {
		t.Fatalf("unexpected invitations: %+v", gotInvitations)
	}

	if _, _, err := service.Me(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
