package repository

import (
	"errors"
	"strings"

	"panovault/database"
	"panovault/models"
)

var ErrDuplicateEmail = errors.New("a user with this email already exists")

func CreateUser(user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := database.DB.Create(user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(id string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
