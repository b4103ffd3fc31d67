package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dom/postboard/internal/domain"
	"github.com/dom/postboard/internal/repository/postgres"
	"github.com/dom/postboard/internal/service"
	"github.com/dom/postboard/internal/session"
	"github.com/dom/postboard/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*service.AuthService, *session.Manager, *testutil.TestDB) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, false)
	return service.NewAuthService(repos.User, sessions, cfg.BcryptCost), sessions, testDB
}

func TestAuthService_Register(t *testing.T) {
	authService, sessions, testDB := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Email:    "alice@example.com",
				Password: "pw1",
				Username: "alice",
				Name:     "Alice",
				Age:      30,
			},
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Email:    "alice@example.com",
				Password: "pw2",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("alice@example.com").
					Build(t, testDB.DB)
			},
			wantErr: domain.ErrEmailTaken,
		},
		{
			name: "duplicate email differing in case",
			input: service.RegisterInput{
				Email:    "  Alice@Example.COM ",
				Password: "pw2",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("alice@example.com").
					Build(t, testDB.DB)
			},
			wantErr: domain.ErrEmailTaken,
		},
		{
			name:    "missing email",
			input:   service.RegisterInput{Password: "pw1"},
			wantErr: domain.ErrMissingCredentials,
		},
		{
			name:    "missing password",
			input:   service.RegisterInput{Email: "bob@example.com"},
			wantErr: domain.ErrMissingCredentials,
		},
		{
			name:    "negative age",
			input:   service.RegisterInput{Email: "bob@example.com", Password: "pw", Age: -1},
			wantErr: domain.ErrInvalidAge,
		},
		{
			name:    "password longer than bcrypt accepts",
			input:   service.RegisterInput{Email: "bob@example.com", Password: strings.Repeat("x", 73)},
			wantErr: service.ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			result, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice@example.com", result.User.Email)
			assert.Equal(t, "Alice", result.User.Name)
			assert.NotEqual(t, tt.input.Password, result.User.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte(tt.input.Password)))

			identity, err := sessions.Authenticate(result.Token)
			require.NoError(t, err)
			assert.Equal(t, result.User.ID, identity.UserID)
			assert.Equal(t, "alice@example.com", identity.Email)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, sessions, testDB := newAuthService(t)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correct-horse").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "valid credentials",
			input: service.LoginInput{Email: "login@example.com", Password: password},
		},
		{
			name:  "email in different case",
			input: service.LoginInput{Email: "LOGIN@example.com", Password: password},
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Email: "login@example.com", Password: "wrong"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			input:   service.LoginInput{Email: "nobody@example.com", Password: password},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:    "missing password",
			input:   service.LoginInput{Email: "login@example.com"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:    "missing email",
			input:   service.LoginInput{Password: password},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:    "blank email",
			input:   service.LoginInput{Email: "   ", Password: password},
			wantErr: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)

			identity, err := sessions.Authenticate(result.Token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, identity.UserID)
		})
	}
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _, testDB := newAuthService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	got, err := authService.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = authService.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "alice@example.com", want: "alice@example.com"},
		{in: " Alice@Example.com\t", want: "alice@example.com"},
		{in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, service.NormalizeEmail(tt.in))
		})
	}
}
