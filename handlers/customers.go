package handlers

import (
	"database/sql"
	"net/http"

	"github.com/SamreenA11/healthsure-management/models"

	"github.com/gin-gonic/gin"
)

// GetCustomers returns all customers with user and agent info (admin/agent)
func GetCustomers(c *gin.Context) {
	query := `SELECT c.customer_id, c.user_id, c.name, c.gender, c.phone, c.date_of_birth,
	                 c.address, c.city, c.state, c.pincode, c.id_number, c.agent_id, c.created_at,
	                 u.email, u.status, a.name AS agent_name
	          FROM customers c
	          JOIN users u ON c.user_id = u.user_id
	          LEFT JOIN agents a ON c.agent_id = a.agent_id
	          ORDER BY c.created_at DESC`

	rows, err := DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	defer rows.Close()

	customers := []gin.H{}
	for rows.Next() {
		var cust models.Customer
		var email, status string
		var agentName sql.NullString

		err := rows.Scan(
			&cust.CustomerID, &cust.UserID, &cust.Name, &cust.Gender, &cust.Phone,
			&cust.DateOfBirth, &cust.Address, &cust.City, &cust.State, &cust.Pincode,
			&cust.IDNumber, &cust.AgentID, &cust.CreatedAt, &email, &status, &agentName,
		)
		if err != nil {
			continue
		}

		customers = append(customers, customerJSON(&cust, email, status, agentName))
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer returns a single customer by ID
func GetCustomer(c *gin.Context) {
	customerID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	customer, err := fetchCustomer(`c.customer_id = $1`, customerID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// GetCustomerByUserID resolves the customer profile behind a login identity
func GetCustomerByUserID(c *gin.Context) {
	userID, err := validateID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	customer, err := fetchCustomer(`c.user_id = $1`, userID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates a customer's demographic fields
func UpdateCustomer(c *gin.Context) {
	customerID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	var req struct {
		Name    string `json:"name" binding:"required,min=2"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		City    string `json:"city"`
		State   string `json:"state"`
		Pincode string `json:"pincode"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	query := `UPDATE customers
	          SET name = $1, phone = $2, address = $3, city = $4, state = $5, pincode = $6
	          WHERE customer_id = $7`
	result, err := DB.Exec(query, req.Name, nullable(req.Phone), nullable(req.Address),
		nullable(req.City), nullable(req.State), nullable(req.Pincode), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer profile updated successfully"})
}

// AssignAgent sets or clears the agent responsible for a customer (admin only)
func AssignAgent(c *gin.Context) {
	customerID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	var req struct {
		AgentID *int64 `json:"agent_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.AgentID != nil {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM agents WHERE agent_id = $1)`
		if err := DB.QueryRow(checkQuery, *req.AgentID).Scan(&exists); err != nil || !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
	}

	query := `UPDATE customers SET agent_id = $1 WHERE customer_id = $2`
	result, err := DB.Exec(query, req.AgentID, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign agent"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Agent assigned successfully"})
}

func fetchCustomer(where string, arg int64) (gin.H, error) {
	var cust models.Customer
	var email, status string
	var agentName sql.NullString

	query := `SELECT c.customer_id, c.user_id, c.name, c.gender, c.phone, c.date_of_birth,
	                 c.address, c.city, c.state, c.pincode, c.id_number, c.agent_id, c.created_at,
	                 u.email, u.status, a.name AS agent_name
	          FROM customers c
	          JOIN users u ON c.user_id = u.user_id
	          LEFT JOIN agents a ON c.agent_id = a.agent_id
	          WHERE ` + where

	err := DB.QueryRow(query, arg).Scan(
		&cust.CustomerID, &cust.UserID, &cust.Name, &cust.Gender, &cust.Phone,
		&cust.DateOfBirth, &cust.Address, &cust.City, &cust.State, &cust.Pincode,
		&cust.IDNumber, &cust.AgentID, &cust.CreatedAt, &email, &status, &agentName,
	)
	if err != nil {
		return nil, err
	}

	return customerJSON(&cust, email, status, agentName), nil
}

func customerJSON(cust *models.Customer, email, status string, agentName sql.NullString) gin.H {
	data := gin.H{
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
		"id_number":     cust.IDNumber,
		"agent_id":      cust.AgentID,
		"created_at":    cust.CreatedAt,
		"email":         email,
		"status":        status,
	}
	if agentName.Valid {
		data["agent_name"] = agentName.String
	} else {
		data["agent_name"] = nil
	}
	return data
}
