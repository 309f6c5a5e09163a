package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usersadmin/usersadmin/internal/models"
)

func setupTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func newUser(email string) models.NewUser {
	return models.NewUser{
		Name:          "Alice",
		SurName:       "Smith",
		FullName:      "Alice Smith",
		Email:         email,
		Password:      "secret",
		Employment:    models.EmploymentWorking,
		UserAgreement: true,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser(" Alice@Example.com "))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice@example.com", created.Email)

	fetched, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
	assert.True(t, fetched.HasAgreed())
	assert.Equal(t, models.EmploymentWorking, fetched.Employment)
}

func TestRepository_CreateDuplicateEmail(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("alice@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("ALICE@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRepository_List(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)

	first, err := repo.Create(ctx, newUser("a@example.com"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newUser("b@example.com"))
	require.NoError(t, err)

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	ids := []string{users[0].ID, users[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
}

func TestRepository_Update(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser("a@example.com"))
	require.NoError(t, err)

	err = repo.Update(ctx, created.ID, models.UserPatch{
		Name:      "Alicia",
		SurName:   "Smith",
		FullName:  "Alicia Smith",
		Telephone: "+79991231231",
	})
	require.NoError(t, err)

	fetched, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia Smith", fetched.FullName)
	assert.Equal(t, "+79991231231", fetched.Telephone)
	assert.False(t, fetched.HasAgreed())
	// Employment was absent from the patch.
	assert.Equal(t, models.EmploymentWorking, fetched.Employment)

	student := models.EmploymentStudent
	require.NoError(t, repo.Update(ctx, created.ID, models.UserPatch{Name: "A", SurName: "B", FullName: "A B", Employment: &student}))
	fetched, err = repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EmploymentStudent, fetched.Employment)

	assert.ErrorIs(t, repo.Update(ctx, "missing", models.UserPatch{Name: "x"}), ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser("a@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)
}

func TestRepository_Authenticate(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser("a@example.com"))
	require.NoError(t, err)

	identity, err := repo.Authenticate(ctx, "A@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{ID: created.ID, Email: "a@example.com"}, identity)

	_, err = repo.Authenticate(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = repo.Authenticate(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRepository_EnsureSeed(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	created, err := repo.EnsureSeed(ctx, "admin@example.com", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.EnsureSeed(ctx, "admin@example.com", "admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.EnsureSeed(ctx, "other@example.com", "admin")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = repo.Authenticate(ctx, "admin@example.com", "admin")
	assert.NoError(t, err)
}
