package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserContextKey contextKey = "user"

var ErrMissingToken = errors.New("missing bearer token")

type UserClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// ParseToken validates an HMAC-signed token and returns its claims. The user
// id is read from user_id, falling back to sub.
func ParseToken(secret, tokenString string) (UserClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v: %w", token.Method.Alg(), jwt.ErrSignatureInvalid)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return UserClaims{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return UserClaims{}, jwt.ErrTokenInvalidClaims
	}

	userClaims := UserClaims{
		UserID: stringClaim(claims, "user_id"),
		Email:  stringClaim(claims, "email"),
		Role:   stringClaim(claims, "role"),
	}
	if userClaims.UserID == "" {
		userClaims.UserID = stringClaim(claims, "sub")
	}
	if userClaims.UserID == "" || userClaims.Role == "" {
		return UserClaims{}, fmt.Errorf("token without user or role: %w", jwt.ErrTokenInvalidClaims)
	}
	return userClaims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

// IssueToken signs claims with HS256
func IssueToken(secret string, c UserClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": c.UserID,
		"sub":     c.UserID,
		"email":   c.Email,
		"role":    c.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// BearerToken extracts the token from "Authorization: Bearer <token>"
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization header format: %w", ErrMissingToken)
	}
	return parts[1], nil
}

// Auth validates the bearer token and adds the user claims to the context
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := BearerToken(r)
			if err != nil {
				log.Printf("❌ AUTH %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userClaims, err := ParseToken(secret, tokenString)
			if err != nil {
				log.Printf("❌ AUTH %s %s: invalid token: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole middleware checks if user has one of the roles (must be used after Auth)
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := GetUserFromContext(r)
			if !ok {
				log.Println("❌ User claims not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !slices.Contains(roles, userClaims.Role) {
				log.Printf("❌ Insufficient permissions: required %v, got %s", roles, userClaims.Role)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(r *http.Request) (UserClaims, bool) {
	userClaims, ok := r.Context().Value(UserContextKey).(UserClaims)
	return userClaims, ok
}

// WithUser returns ctx carrying claims
func WithUser(ctx context.Context, c UserClaims) context.Context {
	return context.WithValue(ctx, UserContextKey, c)
}
