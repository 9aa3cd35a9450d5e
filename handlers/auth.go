package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/SamreenA11/healthsure-management/config"
	"github.com/SamreenA11/healthsure-management/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a user row plus its role-specific profile row.
// Both inserts run in one transaction so a login identity can never
// exist without an agent/customer profile behind it.
func Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"required,oneof=agent customer"`
		Name     string `json:"name" binding:"required,min=2"`
		Phone    string `json:"phone"`
		Gender   string `json:"gender"`
		Address  string `json:"address"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := DB.QueryRow(checkQuery, req.Email).Scan(&exists); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var userID int64
	insertUser := `INSERT INTO users (email, password_hash, role, status)
	               VALUES ($1, $2, $3, 'active') RETURNING user_id`
	if err := tx.QueryRow(insertUser, req.Email, string(hashedPassword), req.Role).Scan(&userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	switch req.Role {
	case "agent":
		insertAgent := `INSERT INTO agents (user_id, name, phone, branch) VALUES ($1, $2, $3, 'Main')`
		if _, err := tx.Exec(insertAgent, userID, req.Name, nullable(req.Phone)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create agent profile"})
			return
		}
	case "customer":
		insertCustomer := `INSERT INTO customers (user_id, name, gender, phone, address)
		                   VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(insertCustomer, userID, req.Name, nullable(req.Gender), nullable(req.Phone), nullable(req.Address)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer profile"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := generateJWT(userID, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "role": req.Role}).Info("user registered")

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"userId":  userID,
		"token":   token,
	})
}

// Login verifies credentials and issues a 24-hour token
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var user models.User
	query := `SELECT user_id, email, password_hash, role, status, created_at
	          FROM users WHERE email = $1`
	err := DB.QueryRow(query, req.Email).Scan(
		&user.UserID, &user.Email, &user.PasswordHash, &user.Role,
		&user.Status, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if user.Status != "active" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := generateJWT(user.UserID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.UserID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// ValidateToken reports whether the presented token is still good
func ValidateToken(c *gin.Context) {
	claims, err := claimsFromHeader(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"user_id": claims.UserID,
		"role":    claims.Role,
	})
}

// AuthMiddleware validates the bearer token and attaches its claims
// to the request context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RoleMiddleware gates a route to an allow-list of roles. The role
// comes from the token claim, not a fresh lookup.
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}

func claimsFromHeader(c *gin.Context) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errAuthHeaderRequired
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errAuthFormat
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(authHeader[7:], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

var (
	errAuthHeaderRequired = &authError{"Authorization header required"}
	errAuthFormat         = &authError{"Invalid authorization format"}
	errInvalidToken       = &authError{"Invalid token"}
)

type authError struct {
	msg string
}

func (e *authError) Error() string {
	return e.msg
}

// nullable maps "" to NULL for optional text columns
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
