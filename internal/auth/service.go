package auth

import (
	"fmt"

	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/utils"
)

func LoginUser(email, password string) (string, string, error) {
	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return "", "", fmt.Errorf("invalid credentials")
	}

	if user.Status != "active" {
		return "", "", fmt.Errorf("account is suspended")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", "", fmt.Errorf("invalid credentials")
	}

	accessToken, err := utils.GenerateJWT(user.ID)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
