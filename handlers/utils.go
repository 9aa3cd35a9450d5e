package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/SamreenA11/healthsure-management/config"
	"github.com/SamreenA11/healthsure-management/database"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// DB is the shared database handle for all handlers
var DB *database.DB

// InitializeHandlers sets the database handle used by the handlers
func InitializeHandlers(db *database.DB) {
	DB = db
}

// generateJWT signs a token carrying the user id and role, valid for 24 hours
func generateJWT(userID int64, role string) (string, error) {
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// validateID parses a numeric path or body identifier, rejecting
// non-numeric and non-positive values
func validateID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", raw)
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive: %d", id)
	}
	return id, nil
}

// validateAmount range-checks a monetary value
func validateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if amount > 100_000_000 {
		return fmt.Errorf("amount exceeds allowed maximum")
	}
	return nil
}
