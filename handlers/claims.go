package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SamreenA11/healthsure-management/models"

	"github.com/gin-gonic/gin"
)

// claim review states form a one-way street:
// pending -> processing -> approved/rejected, or straight to a verdict
var claimStatuses = map[string]bool{
	"pending":    true,
	"processing": true,
	"approved":   true,
	"rejected":   true,
}

// GetClaims returns all claims with customer and policy names (admin/agent)
func GetClaims(c *gin.Context) {
	query := `SELECT cl.claim_id, cl.purchased_policy_id, cl.claim_amount, cl.incident_date,
	                 cl.description, cl.hospital_name, cl.status, cl.settlement_amount,
	                 cl.settlement_date, cl.remarks, cl.reviewed_by, cl.claim_date,
	                 c.name AS customer_name, p.name AS policy_name
	          FROM claims cl
	          JOIN purchased_policies pp ON cl.purchased_policy_id = pp.purchased_policy_id
	          JOIN customers c ON pp.customer_id = c.customer_id
	          JOIN policies p ON pp.policy_id = p.policy_id
	          ORDER BY cl.claim_date DESC`

	rows, err := DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch claims"})
		return
	}
	defer rows.Close()

	claims := []gin.H{}
	for rows.Next() {
		var cl models.Claim
		var customerName, policyName string

		err := rows.Scan(
			&cl.ClaimID, &cl.PurchasedPolicyID, &cl.ClaimAmount, &cl.IncidentDate,
			&cl.Description, &cl.HospitalName, &cl.Status, &cl.SettlementAmount,
			&cl.SettlementDate, &cl.Remarks, &cl.ReviewedBy, &cl.ClaimDate,
			&customerName, &policyName,
		)
		if err != nil {
			continue
		}

		data := claimJSON(&cl)
		data["customer_name"] = customerName
		data["policy_name"] = policyName
		claims = append(claims, data)
	}

	c.JSON(http.StatusOK, claims)
}

// GetCustomerClaims returns the claims filed against a customer's policies
func GetCustomerClaims(c *gin.Context) {
	customerID, err := validateID(c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	query := `SELECT cl.claim_id, cl.purchased_policy_id, cl.claim_amount, cl.incident_date,
	                 cl.description, cl.hospital_name, cl.status, cl.settlement_amount,
	                 cl.settlement_date, cl.remarks, cl.reviewed_by, cl.claim_date,
	                 p.name AS policy_name
	          FROM claims cl
	          JOIN purchased_policies pp ON cl.purchased_policy_id = pp.purchased_policy_id
	          JOIN policies p ON pp.policy_id = p.policy_id
	          WHERE pp.customer_id = $1
	          ORDER BY cl.claim_date DESC`

	rows, err := DB.Query(query, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch claims"})
		return
	}
	defer rows.Close()

	claims := []gin.H{}
	for rows.Next() {
		var cl models.Claim
		var policyName string

		err := rows.Scan(
			&cl.ClaimID, &cl.PurchasedPolicyID, &cl.ClaimAmount, &cl.IncidentDate,
			&cl.Description, &cl.HospitalName, &cl.Status, &cl.SettlementAmount,
			&cl.SettlementDate, &cl.Remarks, &cl.ReviewedBy, &cl.ClaimDate, &policyName,
		)
		if err != nil {
			continue
		}

		data := claimJSON(&cl)
		data["policy_name"] = policyName
		claims = append(claims, data)
	}

	c.JSON(http.StatusOK, claims)
}

// GetClaim returns a single claim with its customer and policy context
func GetClaim(c *gin.Context) {
	claimID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim ID"})
		return
	}

	var cl models.Claim
	var customerID int64
	var customerName, policyName string

	query := `SELECT cl.claim_id, cl.purchased_policy_id, cl.claim_amount, cl.incident_date,
	                 cl.description, cl.hospital_name, cl.status, cl.settlement_amount,
	                 cl.settlement_date, cl.remarks, cl.reviewed_by, cl.claim_date,
	                 c.customer_id, c.name AS customer_name, p.name AS policy_name
	          FROM claims cl
	          JOIN purchased_policies pp ON cl.purchased_policy_id = pp.purchased_policy_id
	          JOIN customers c ON pp.customer_id = c.customer_id
	          JOIN policies p ON pp.policy_id = p.policy_id
	          WHERE cl.claim_id = $1`

	err = DB.QueryRow(query, claimID).Scan(
		&cl.ClaimID, &cl.PurchasedPolicyID, &cl.ClaimAmount, &cl.IncidentDate,
		&cl.Description, &cl.HospitalName, &cl.Status, &cl.SettlementAmount,
		&cl.SettlementDate, &cl.Remarks, &cl.ReviewedBy, &cl.ClaimDate,
		&customerID, &customerName, &policyName,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch claim"})
		return
	}

	data := claimJSON(&cl)
	data["customer_id"] = customerID
	data["customer_name"] = customerName
	data["policy_name"] = policyName
	c.JSON(http.StatusOK, data)
}

// SubmitClaim files a new claim, always starting out pending
func SubmitClaim(c *gin.Context) {
	var req struct {
		PurchasedPolicyID int64   `json:"purchased_policy_id" binding:"required"`
		ClaimAmount       float64 `json:"claim_amount" binding:"required"`
		IncidentDate      string  `json:"incident_date" binding:"required"`
		Description       string  `json:"description"`
		HospitalName      string  `json:"hospital_name"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := validateAmount(req.ClaimAmount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incidentDate, err := time.Parse("2006-01-02", req.IncidentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident date, expected YYYY-MM-DD"})
		return
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM purchased_policies WHERE purchased_policy_id = $1)`
	if err := DB.QueryRow(checkQuery, req.PurchasedPolicyID).Scan(&exists); err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchased policy not found"})
		return
	}

	var claimID int64
	insertQuery := `INSERT INTO claims
	                (purchased_policy_id, claim_amount, incident_date, description, hospital_name, status)
	                VALUES ($1, $2, $3, $4, $5, 'pending')
	                RETURNING claim_id`
	err = DB.QueryRow(insertQuery, req.PurchasedPolicyID, req.ClaimAmount, incidentDate,
		nullable(req.Description), nullable(req.HospitalName)).Scan(&claimID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit claim"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Claim submitted successfully",
		"claimId": claimID,
	})
}

// UpdateClaimStatus reviews a claim (admin/agent only). The SET clause
// is assembled from whichever fields the request supplies; approving a
// claim stamps the settlement date and the reviewer.
func UpdateClaimStatus(c *gin.Context) {
	claimID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim ID"})
		return
	}

	var req struct {
		Status           string   `json:"status"`
		SettlementAmount *float64 `json:"settlement_amount"`
		Remarks          string   `json:"remarks"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.Status != "" && !claimStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim status"})
		return
	}
	if req.SettlementAmount != nil {
		if err := validateAmount(*req.SettlementAmount); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	updates := []string{}
	values := []interface{}{}

	if req.Status != "" {
		values = append(values, req.Status)
		updates = append(updates, fmt.Sprintf("status = $%d", len(values)))
	}
	if req.SettlementAmount != nil {
		values = append(values, *req.SettlementAmount)
		updates = append(updates, fmt.Sprintf("settlement_amount = $%d", len(values)))
	}
	if req.Remarks != "" {
		values = append(values, req.Remarks)
		updates = append(updates, fmt.Sprintf("remarks = $%d", len(values)))
	}
	if req.Status == "approved" {
		updates = append(updates, "settlement_date = CURRENT_TIMESTAMP")
	}
	if req.Status != "" {
		if reviewerID, ok := c.Get("user_id"); ok {
			values = append(values, reviewerID)
			updates = append(updates, fmt.Sprintf("reviewed_by = $%d", len(values)))
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	values = append(values, claimID)
	query := fmt.Sprintf("UPDATE claims SET %s WHERE claim_id = $%d",
		strings.Join(updates, ", "), len(values))

	result, err := DB.Exec(query, values...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update claim"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Claim updated successfully"})
}

func claimJSON(cl *models.Claim) gin.H {
	return gin.H{
		"claim_id":            cl.ClaimID,
		"purchased_policy_id": cl.PurchasedPolicyID,
		"claim_amount":        cl.ClaimAmount,
		"incident_date":       cl.IncidentDate,
		"description":         cl.Description,
		"hospital_name":       cl.HospitalName,
		"status":              cl.Status,
		"settlement_amount":   cl.SettlementAmount,
		"settlement_date":     cl.SettlementDate,
		"remarks":             cl.Remarks,
		"reviewed_by":         cl.ReviewedBy,
		"claim_date":          cl.ClaimDate,
	}
}
