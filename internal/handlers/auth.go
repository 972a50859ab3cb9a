package handlers

import (
	"net/http"

	"lawncare-backend/internal/middleware"
	"lawncare-backend/pkg/utils"
)

// GetAuthStatus handles GET /api/auth/status and echoes the caller's claims
func GetAuthStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		utils.Success(w, map[string]interface{}{
			"authenticated": true,
			"user":          user,
		})
	}
}
