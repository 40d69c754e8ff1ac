package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/logger"
	"github.com/taskforge-dev/taskforge/internal/middleware"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin manager developer user"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User        types.UserResponse `json:"user"`
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
}

type ProfileResponse struct {
	User        types.UserResponse `json:"user"`
	TokensCount int64              `json:"tokens_count"`
}

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User

	err := db.DB.Where("email = ?", req.Email).First(&existing).Error

	if err == nil {
		respondError(ctx, http.StatusUnprocessableEntity, "Validation Error",
			map[string]string{"email": "this email address is already registered"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondServiceError(ctx, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	role := req.Role
	if role == "" {
		role = types.RoleDeveloper
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         role,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	token, err := issueToken(&user)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusCreated, "User registered successfully.", AuthResponse{
		User:        userResponse(&user),
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := db.DB.Where("email = ?", req.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusUnauthorized, "The provided credentials are incorrect.", nil)
			return
		}
		respondServiceError(ctx, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(ctx, http.StatusUnauthorized, "The provided credentials are incorrect.", nil)
		return
	}

	// Single active session: a new login invalidates every prior token.
	if err := db.DB.Where("user_id = ?", user.ID).Delete(&models.AccessToken{}).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	token, err := issueToken(&user)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	logger.Info("user logged in", "user_id", user.ID)

	respondSuccess(ctx, http.StatusOK, "Logged in successfully.", AuthResponse{
		User:        userResponse(&user),
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

func Logout(ctx *gin.Context) {
	tokenID, exists := ctx.Get(middleware.ContextTokenIDKey)

	if !exists {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := db.DB.Where("id = ?", tokenID).Delete(&models.AccessToken{}).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Token revoked successfully.", nil)
}

func Me(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var tokensCount int64

	if err := db.DB.Model(&models.AccessToken{}).Where("user_id = ?", user.ID).Count(&tokensCount).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Success", ProfileResponse{
		User:        userResponse(user),
		TokensCount: tokensCount,
	})
}

func issueToken(user *models.User) (string, error) {
	token, tokenID, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		return "", err
	}

	accessToken := models.AccessToken{
		ID:     tokenID,
		UserID: user.ID,
		Name:   "api_token",
	}

	if err := db.DB.Create(&accessToken).Error; err != nil {
		return "", err
	}

	return token, nil
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
