package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/SamreenA11/healthsure-management/models"

	"github.com/gin-gonic/gin"
)

var ticketStatuses = map[string]bool{
	"open":        true,
	"in_progress": true,
	"resolved":    true,
	"closed":      true,
}

var ticketPriorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
	"urgent": true,
}

// GetTickets returns all support tickets with customer info (admin/agent)
func GetTickets(c *gin.Context) {
	query := `SELECT st.ticket_id, st.customer_id, st.subject, st.description, st.priority,
	                 st.status, st.assigned_to, st.resolution, st.created_at, st.resolved_at,
	                 c.name AS customer_name, u.email AS customer_email
	          FROM support_tickets st
	          JOIN customers c ON st.customer_id = c.customer_id
	          JOIN users u ON c.user_id = u.user_id
	          ORDER BY st.created_at DESC`

	rows, err := DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tickets"})
		return
	}
	defer rows.Close()

	tickets := []gin.H{}
	for rows.Next() {
		var st models.SupportTicket
		var customerName, customerEmail string

		err := rows.Scan(
			&st.TicketID, &st.CustomerID, &st.Subject, &st.Description, &st.Priority,
			&st.Status, &st.AssignedTo, &st.Resolution, &st.CreatedAt, &st.ResolvedAt,
			&customerName, &customerEmail,
		)
		if err != nil {
			continue
		}

		data := ticketJSON(&st)
		data["customer_name"] = customerName
		data["customer_email"] = customerEmail
		tickets = append(tickets, data)
	}

	c.JSON(http.StatusOK, tickets)
}

// GetCustomerTickets returns a customer's own tickets
func GetCustomerTickets(c *gin.Context) {
	customerID, err := validateID(c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	query := `SELECT ticket_id, customer_id, subject, description, priority, status,
	                 assigned_to, resolution, created_at, resolved_at
	          FROM support_tickets WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := DB.Query(query, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tickets"})
		return
	}
	defer rows.Close()

	tickets := []gin.H{}
	for rows.Next() {
		var st models.SupportTicket
		err := rows.Scan(
			&st.TicketID, &st.CustomerID, &st.Subject, &st.Description, &st.Priority,
			&st.Status, &st.AssignedTo, &st.Resolution, &st.CreatedAt, &st.ResolvedAt,
		)
		if err != nil {
			continue
		}
		tickets = append(tickets, ticketJSON(&st))
	}

	c.JSON(http.StatusOK, tickets)
}

// GetTicket returns a single ticket with customer info
func GetTicket(c *gin.Context) {
	ticketID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var st models.SupportTicket
	var customerName, customerEmail string

	query := `SELECT st.ticket_id, st.customer_id, st.subject, st.description, st.priority,
	                 st.status, st.assigned_to, st.resolution, st.created_at, st.resolved_at,
	                 c.name AS customer_name, u.email AS customer_email
	          FROM support_tickets st
	          JOIN customers c ON st.customer_id = c.customer_id
	          JOIN users u ON c.user_id = u.user_id
	          WHERE st.ticket_id = $1`

	err = DB.QueryRow(query, ticketID).Scan(
		&st.TicketID, &st.CustomerID, &st.Subject, &st.Description, &st.Priority,
		&st.Status, &st.AssignedTo, &st.Resolution, &st.CreatedAt, &st.ResolvedAt,
		&customerName, &customerEmail,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ticket"})
		return
	}

	data := ticketJSON(&st)
	data["customer_name"] = customerName
	data["customer_email"] = customerEmail
	c.JSON(http.StatusOK, data)
}

// CreateTicket opens a new support ticket, priority defaulted to medium
func CreateTicket(c *gin.Context) {
	var req struct {
		CustomerID  int64  `json:"customer_id" binding:"required"`
		Subject     string `json:"subject" binding:"required"`
		Description string `json:"description" binding:"required"`
		Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM customers WHERE customer_id = $1)`
	if err := DB.QueryRow(checkQuery, req.CustomerID).Scan(&exists); err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var ticketID int64
	insertQuery := `INSERT INTO support_tickets (customer_id, subject, description, priority, status)
	                VALUES ($1, $2, $3, $4, 'open')
	                RETURNING ticket_id`
	err := DB.QueryRow(insertQuery, req.CustomerID, req.Subject, req.Description, priority).Scan(&ticketID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Support ticket created successfully",
		"ticketId": ticketID,
	})
}

// UpdateTicketStatus moves a ticket through its lifecycle; resolving or
// closing it stamps resolved_at, reopening clears it
func UpdateTicketStatus(c *gin.Context) {
	ticketID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var req struct {
		Status     string `json:"status" binding:"required"`
		Resolution string `json:"resolution"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if !ticketStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket status"})
		return
	}

	updates := []string{}
	values := []interface{}{}

	values = append(values, req.Status)
	updates = append(updates, fmt.Sprintf("status = $%d", len(values)))

	if req.Resolution != "" {
		values = append(values, req.Resolution)
		updates = append(updates, fmt.Sprintf("resolution = $%d", len(values)))
	}
	if req.Status == "resolved" || req.Status == "closed" {
		updates = append(updates, "resolved_at = CURRENT_TIMESTAMP")
	} else {
		// reopening a ticket invalidates its old resolution stamp
		updates = append(updates, "resolved_at = NULL")
	}

	values = append(values, ticketID)
	query := fmt.Sprintf("UPDATE support_tickets SET %s WHERE ticket_id = $%d",
		strings.Join(updates, ", "), len(values))

	result, err := DB.Exec(query, values...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket updated successfully"})
}

// AssignTicket hands a ticket to an agent (admin only)
func AssignTicket(c *gin.Context) {
	ticketID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var req struct {
		AgentID int64 `json:"agent_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM agents WHERE agent_id = $1)`
	if err := DB.QueryRow(checkQuery, req.AgentID).Scan(&exists); err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}

	query := `UPDATE support_tickets SET assigned_to = $1 WHERE ticket_id = $2`
	result, err := DB.Exec(query, req.AgentID, ticketID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign ticket"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket assigned successfully"})
}

// UpdateTicketPriority re-prioritizes a ticket (admin/agent)
func UpdateTicketPriority(c *gin.Context) {
	ticketID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var req struct {
		Priority string `json:"priority" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if !ticketPriorities[req.Priority] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket priority"})
		return
	}

	query := `UPDATE support_tickets SET priority = $1 WHERE ticket_id = $2`
	result, err := DB.Exec(query, req.Priority, ticketID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update priority"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Priority updated successfully"})
}

func ticketJSON(st *models.SupportTicket) gin.H {
	return gin.H{
		"ticket_id":   st.TicketID,
		"customer_id": st.CustomerID,
		"subject":     st.Subject,
		"description": st.Description,
		"priority":    st.Priority,
		"status":      st.Status,
		"assigned_to": st.AssignedTo,
		"resolution":  st.Resolution,
		"created_at":  st.CreatedAt,
		"resolved_at": st.ResolvedAt,
	}
}
