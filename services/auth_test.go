package services

import (
	"context"
	"testing"

	"hrms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, env *testEnv, first, email string) *AuthResult {
	t.Helper()
	res, err := env.auth.Register(context.Background(), RegisterInput{
		FirstName: first,
		LastName:  "Doe",
		Email:     email,
		Password:  "secret1",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	res := register(t, env, "Jane", "  Jane@Example.com ")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, "EMP001", res.User.EmployeeID)
	assert.Equal(t, models.RoleEmployee, res.User.Role)

	stored, err := env.store.FindUserByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.Equal(t, models.DefaultLocation, stored.Location)
	assert.Equal(t, models.DefaultDepartment, stored.Department)
	assert.Equal(t, []string{models.DefaultSkill}, []string(stored.Skills))

	_, err = env.auth.Register(ctx, RegisterInput{FirstName: "Jane", LastName: "Doe", Email: "JANE@example.com", Password: "secret1"})
	requireKind(t, err, KindConflict)

	second := register(t, env, "John", "john@example.com")
	assert.Equal(t, "EMP002", second.User.EmployeeID)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	cases := map[string]RegisterInput{
		"missing last name": {FirstName: "A", Email: "a@example.com", Password: "secret1"},
		"bad email":         {FirstName: "A", LastName: "B", Email: "not-an-email", Password: "secret1"},
		"short password":    {FirstName: "A", LastName: "B", Email: "a@example.com", Password: "123"},
		"unknown role":      {FirstName: "A", LastName: "B", Email: "a@example.com", Password: "secret1", Role: "boss"},
		"admin role":        {FirstName: "A", LastName: "B", Email: "a@example.com", Password: "secret1", Role: "admin"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, in)
			requireKind(t, err, KindValidation)
		})
	}
}

func TestRegisterSkipsTakenEmployeeID(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// an imported account already holds the identifier the count would produce
	u := env.createUser(t, "Seeded", models.RoleEmployee)
	u.EmployeeID = "EMP002"
	require.NoError(t, env.store.SaveUser(ctx, u))

	res := register(t, env, "Late", "late@example.com")
	assert.Equal(t, "EMP003", res.User.EmployeeID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	register(t, env, "Jane", "jane@example.com")

	byEmail, err := env.auth.Login(ctx, "JANE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", byEmail.User.Email)

	byName, err := env.auth.Login(ctx, "Jane", "secret1")
	require.NoError(t, err)
	assert.Equal(t, byEmail.User.ID, byName.User.ID)

	_, err = env.auth.Login(ctx, "Jane", "wrong")
	requireKind(t, err, KindAuth)

	_, err = env.auth.Login(ctx, "nobody", "secret1")
	requireKind(t, err, KindAuth)

	_, err = env.auth.Login(ctx, "", "secret1")
	requireKind(t, err, KindValidation)
}

func TestLoginFirstNameCollisionPicksOldest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	first := register(t, env, "Sam", "sam.one@example.com")
	register(t, env, "Sam", "sam.two@example.com")

	res, err := env.auth.Login(ctx, "Sam", "secret1")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, res.User.ID)
}

func TestLoginInactive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	res := register(t, env, "Jane", "jane@example.com")

	u, err := env.store.FindUserByID(ctx, res.User.ID)
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, env.store.SaveUser(ctx, u))

	_, err = env.auth.Login(ctx, "jane@example.com", "secret1")
	requireKind(t, err, KindAuth)

	_, err = env.auth.Authenticate(ctx, res.Token)
	requireKind(t, err, KindAuth)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	res := register(t, env, "Jane", "jane@example.com")

	user, err := env.auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)

	_, err = env.auth.Authenticate(ctx, "garbage")
	requireKind(t, err, KindAuth)
}

func TestChangePasswordRevokesTokens(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	res := register(t, env, "Jane", "jane@example.com")

	user, err := env.auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	_, err = env.auth.ChangePassword(ctx, user, "secret1", "123")
	requireKind(t, err, KindValidation)

	_, err = env.auth.ChangePassword(ctx, user, "wrong", "newsecret")
	requireKind(t, err, KindAuth)

	fresh, err := env.auth.ChangePassword(ctx, user, "secret1", "newsecret")
	require.NoError(t, err)

	_, err = env.auth.Authenticate(ctx, res.Token)
	requireKind(t, err, KindAuth)

	_, err = env.auth.Authenticate(ctx, fresh)
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "jane@example.com", "newsecret")
	require.NoError(t, err)
}

func TestLoginWithGoogle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.auth.LoginWithGoogle(ctx, GoogleIdentity{Email: "new@example.com", FirstName: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", created.User.FirstName)
	assert.Equal(t, "EMP001", created.User.EmployeeID)

	again, err := env.auth.LoginWithGoogle(ctx, GoogleIdentity{Email: "NEW@example.com"})
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, again.User.ID)

	_, err = env.auth.LoginWithGoogle(ctx, GoogleIdentity{})
	requireKind(t, err, KindValidation)
}
