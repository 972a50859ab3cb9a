package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"lawncare-backend/internal/database"
	"lawncare-backend/internal/middleware"
	"lawncare-backend/internal/models"
	"lawncare-backend/pkg/utils"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	SaveFCMToken(ctx context.Context, userID, token, deviceType string) error
}

type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"` // "admin", "dispatcher", or "crew"
}

var validRoles = map[string]bool{
	models.RoleAdmin:      true,
	models.RoleDispatcher: true,
	models.RoleCrew:       true,
}

// CreateUser handles POST /api/users (admin only)
func CreateUser(store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Role == "" {
			utils.Error(w, http.StatusBadRequest, "Email and role are required")
			return
		}
		if !validRoles[req.Role] {
			utils.Error(w, http.StatusBadRequest, "Role must be 'admin', 'dispatcher', or 'crew'")
			return
		}

		user := models.User{Email: req.Email, Role: req.Role}
		if req.Name != "" {
			user.Name = &req.Name
		}

		if err := store.CreateUser(r.Context(), &user); err != nil {
			if errors.Is(err, database.ErrConflict) {
				utils.Error(w, http.StatusConflict, "User with this email already exists")
				return
			}
			log.Printf("❌ Database error: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		log.Printf("✅ User created: %s (%s)", user.Email, user.Role)
		utils.JSON(w, http.StatusCreated, user)
	}
}

// RegisterFCMToken handles POST /api/users/me/fcm-token
func RegisterFCMToken(store UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req struct {
			Token      string `json:"token"`
			DeviceType string `json:"device_type"`
		}
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Token == "" {
			utils.Error(w, http.StatusBadRequest, "token is required")
			return
		}
		if req.DeviceType != "ios" && req.DeviceType != "android" {
			utils.Error(w, http.StatusBadRequest, "Invalid device_type (must be 'ios' or 'android')")
			return
		}

		if err := store.SaveFCMToken(r.Context(), userClaims.UserID, req.Token, req.DeviceType); err != nil {
			log.Printf("❌ Error registering FCM token: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to register FCM token")
			return
		}

		log.Printf("📱 FCM token registered: %s (%s)", userClaims.UserID, req.DeviceType)
		utils.Success(w, map[string]interface{}{
			"success": true,
			"message": "FCM token registered successfully",
		})
	}
}
