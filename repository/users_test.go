package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"panovault/models"
)

func TestCreateUserNormalizesEmail(t *testing.T) {
	setupDB(t)

	user := &models.User{ID: uuid.New().String(), Email: "Alice@Example.COM", Name: "Alice", Password: "hash"}
	require.NoError(t, CreateUser(user))
	assert.Equal(t, "alice@example.com", user.Email)

	found, err := FindUserByEmail("ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	setupDB(t)

	require.NoError(t, CreateUser(&models.User{ID: uuid.New().String(), Email: "a@b.com", Password: "hash"}))

	err := CreateUser(&models.User{ID: uuid.New().String(), Email: "A@B.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestFindUserByID(t *testing.T) {
	setupDB(t)

	user := &models.User{ID: uuid.New().String(), Email: "a@b.com", Password: "hash"}
	require.NoError(t, CreateUser(user))

	found, err := FindUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = FindUserByID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
