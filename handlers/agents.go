package handlers

import (
	"database/sql"
	"net/http"

	"github.com/SamreenA11/healthsure-management/models"

	"github.com/gin-gonic/gin"
)

// GetAgents returns all agents with their customer counts (admin only)
func GetAgents(c *gin.Context) {
	query := `SELECT a.agent_id, a.user_id, a.name, a.phone, a.branch, a.specialization,
	                 a.commission_rate, a.total_sales, a.created_at, u.email, u.status,
	                 COUNT(DISTINCT c.customer_id) AS customer_count
	          FROM agents a
	          JOIN users u ON a.user_id = u.user_id
	          LEFT JOIN customers c ON a.agent_id = c.agent_id
	          GROUP BY a.agent_id, u.email, u.status
	          ORDER BY a.created_at DESC`

	rows, err := DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agents"})
		return
	}
	defer rows.Close()

	agents := []gin.H{}
	for rows.Next() {
		var a models.Agent
		var email, status string
		var customerCount int

		err := rows.Scan(
			&a.AgentID, &a.UserID, &a.Name, &a.Phone, &a.Branch, &a.Specialization,
			&a.CommissionRate, &a.TotalSales, &a.CreatedAt, &email, &status, &customerCount,
		)
		if err != nil {
			continue
		}

		agents = append(agents, gin.H{
			"agent_id":        a.AgentID,
			"user_id":         a.UserID,
			"name":            a.Name,
			"phone":           a.Phone,
			"branch":          a.Branch,
			"specialization":  a.Specialization,
			"commission_rate": a.CommissionRate,
			"total_sales":     a.TotalSales,
			"created_at":      a.CreatedAt,
			"email":           email,
			"status":          status,
			"customer_count":  customerCount,
		})
	}

	c.JSON(http.StatusOK, agents)
}

// GetAgent returns a single agent by ID
func GetAgent(c *gin.Context) {
	agentID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent ID"})
		return
	}

	agent, err := fetchAgent(`a.agent_id = $1`, agentID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agent"})
		return
	}

	c.JSON(http.StatusOK, agent)
}

// GetAgentByUserID resolves the agent profile behind a login identity
func GetAgentByUserID(c *gin.Context) {
	userID, err := validateID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	agent, err := fetchAgent(`a.user_id = $1`, userID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agent"})
		return
	}

	c.JSON(http.StatusOK, agent)
}

// GetAgentCustomers returns the customers assigned to an agent
func GetAgentCustomers(c *gin.Context) {
	agentID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent ID"})
		return
	}

	query := `SELECT c.customer_id, c.user_id, c.name, c.gender, c.phone, c.date_of_birth,
	                 c.address, c.city, c.state, c.pincode, c.agent_id, c.created_at, u.email
	          FROM customers c
	          JOIN users u ON c.user_id = u.user_id
	          WHERE c.agent_id = $1
	          ORDER BY c.created_at DESC`

	rows, err := DB.Query(query, agentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	defer rows.Close()

	customers := []gin.H{}
	for rows.Next() {
		var cust models.Customer
		var email string

		err := rows.Scan(
			&cust.CustomerID, &cust.UserID, &cust.Name, &cust.Gender, &cust.Phone,
			&cust.DateOfBirth, &cust.Address, &cust.City, &cust.State, &cust.Pincode,
			&cust.AgentID, &cust.CreatedAt, &email,
		)
		if err != nil {
			continue
		}

		customers = append(customers, gin.H{
			"customer_id":   cust.CustomerID,
			"user_id":       cust.UserID,
			"name":          cust.Name,
			"gender":        cust.Gender,
			"phone":         cust.Phone,
			"date_of_birth": cust.DateOfBirth,
			"address":       cust.Address,
			"city":          cust.City,
			"state":         cust.State,
			"pincode":       cust.Pincode,
			"agent_id":      cust.AgentID,
			"created_at":    cust.CreatedAt,
			"email":         email,
		})
	}

	c.JSON(http.StatusOK, customers)
}

// UpdateAgent updates an agent's profile fields
func UpdateAgent(c *gin.Context) {
	agentID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent ID"})
		return
	}

	var req struct {
		Name           string `json:"name" binding:"required,min=2"`
		Phone          string `json:"phone"`
		Branch         string `json:"branch"`
		Specialization string `json:"specialization"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	query := `UPDATE agents SET name = $1, phone = $2, branch = $3, specialization = $4
	          WHERE agent_id = $5`
	result, err := DB.Exec(query, req.Name, nullable(req.Phone), nullable(req.Branch), nullable(req.Specialization), agentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update agent"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Agent profile updated successfully"})
}

// UpdateAgentCommission sets an agent's commission rate (admin only)
func UpdateAgentCommission(c *gin.Context) {
	agentID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent ID"})
		return
	}

	var req struct {
		CommissionRate float64 `json:"commission_rate" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.CommissionRate < 0 || req.CommissionRate > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Commission rate must be between 0 and 100"})
		return
	}

	query := `UPDATE agents SET commission_rate = $1 WHERE agent_id = $2`
	result, err := DB.Exec(query, req.CommissionRate, agentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update commission rate"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Commission rate updated successfully"})
}

func fetchAgent(where string, arg int64) (gin.H, error) {
	var a models.Agent
	var email, status string

	query := `SELECT a.agent_id, a.user_id, a.name, a.phone, a.branch, a.specialization,
	                 a.commission_rate, a.total_sales, a.created_at, u.email, u.status
	          FROM agents a
	          JOIN users u ON a.user_id = u.user_id
	          WHERE ` + where

	err := DB.QueryRow(query, arg).Scan(
		&a.AgentID, &a.UserID, &a.Name, &a.Phone, &a.Branch, &a.Specialization,
		&a.CommissionRate, &a.TotalSales, &a.CreatedAt, &email, &status,
	)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"agent_id":        a.AgentID,
		"user_id":         a.UserID,
		"name":            a.Name,
		"phone":           a.Phone,
		"branch":          a.Branch,
		"specialization":  a.Specialization,
		"commission_rate": a.CommissionRate,
		"total_sales":     a.TotalSales,
		"created_at":      a.CreatedAt,
		"email":           email,
		"status":          status,
	}, nil
}
