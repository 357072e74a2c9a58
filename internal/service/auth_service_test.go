package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
)

type fakeUserRepo struct {
	users     map[string]*models.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.users[user.Username]; exists {
		return &pq.Error{Code: "23505"}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("u-%d", len(f.users)+1)
	}
	stored := *user
	f.users[user.Username] = &stored
	return nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func newAuthService(repo *fakeUserRepo) *AuthService {
	return NewAuthService(repo, NewPasswordHasher(""), nil, nil, AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "campus-complaint-api",
	})
}

func studentRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Username:   "asha",
		Password:   "secret1",
		Role:       models.RoleStudent,
		FullName:   "Asha Rao",
		Email:      "asha@college.edu",
		Department: "CSE",
		RollNo:     "CS-101",
	}
}

func TestAuthServiceRegisterStudent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), studentRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	require.NotNil(t, user.RollNo)
	assert.Equal(t, "CS-101", *user.RollNo)
}

func TestAuthServiceRegisterTeacherHasNoRollNo(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Username:   "rao",
		Password:   "secret1",
		Role:       models.RoleTeacher,
		FullName:   "Prof. Rao",
		Email:      "rao@college.edu",
		Department: "CSE",
	})
	require.NoError(t, err)
	assert.Nil(t, user.RollNo)
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	cases := map[string]func(*models.RegisterRequest){
		"short password":          func(r *models.RegisterRequest) { r.Password = "12345" },
		"bad email":               func(r *models.RegisterRequest) { r.Email = "not-an-email" },
		"unknown role":            func(r *models.RegisterRequest) { r.Role = "Admin" },
		"student without roll no": func(r *models.RegisterRequest) { r.RollNo = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := studentRegistration()
			mutate(&req)
			_, err := svc.Register(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestAuthServiceRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), studentRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), studentRegistration())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateUsername.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	registered, err := svc.Register(context.Background(), studentRegistration())
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "asha",
		Password: "secret1",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, registered.ID, res.User.ID)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginMismatchesAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), studentRegistration())
	require.NoError(t, err)

	attempts := []models.LoginRequest{
		{Username: "ghost", Password: "secret1", Role: models.RoleStudent},
		{Username: "asha", Password: "wrong-pass", Role: models.RoleStudent},
		{Username: "asha", Password: "secret1", Role: models.RoleTeacher},
	}
	for _, attempt := range attempts {
		_, err := svc.Login(context.Background(), attempt)
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
		assert.Equal(t, appErrors.ErrInvalidCredentials.Message, appErr.Message)
	}
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceEnsureBootstrapAccountIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	account := BootstrapAccount{
		Username:   "admin",
		Password:   "admin123",
		FullName:   "Administrator",
		Email:      "admin@college.edu",
		Department: "Administration",
	}
	require.NoError(t, svc.EnsureBootstrapAccount(context.Background(), account))
	require.NoError(t, svc.EnsureBootstrapAccount(context.Background(), account))

	assert.Len(t, repo.users, 1)
	assert.Equal(t, models.RoleTeacher, repo.users["admin"].Role)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "admin",
		Password: "admin123",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.Equal(t, "Administrator", res.User.FullName)
}
