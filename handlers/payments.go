package handlers

import (
	"database/sql"
	"net/http"

	"github.com/SamreenA11/healthsure-management/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var paymentStatuses = map[string]bool{
	"pending":   true,
	"completed": true,
	"failed":    true,
	"refunded":  true,
}

// GetPayments returns all payments with customer and policy names (admin only)
func GetPayments(c *gin.Context) {
	// Settlement payments carry only a claim_id, so the purchased policy
	// is resolved through the claim when the direct FK is NULL
	query := `SELECT pay.payment_id, pay.purchased_policy_id, pay.claim_id, pay.amount,
	                 pay.payment_method, pay.payment_type, pay.transaction_id, pay.status,
	                 pay.payment_date, c.name AS customer_name, p.name AS policy_name
	          FROM payments pay
	          LEFT JOIN claims cl ON pay.claim_id = cl.claim_id
	          LEFT JOIN purchased_policies pp
	                 ON pp.purchased_policy_id = COALESCE(pay.purchased_policy_id, cl.purchased_policy_id)
	          LEFT JOIN customers c ON pp.customer_id = c.customer_id
	          LEFT JOIN policies p ON pp.policy_id = p.policy_id
	          ORDER BY pay.payment_date DESC`

	rows, err := DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	defer rows.Close()

	payments := []gin.H{}
	for rows.Next() {
		var pay models.Payment
		var customerName, policyName sql.NullString

		err := rows.Scan(
			&pay.PaymentID, &pay.PurchasedPolicyID, &pay.ClaimID, &pay.Amount,
			&pay.PaymentMethod, &pay.PaymentType, &pay.TransactionID, &pay.Status,
			&pay.PaymentDate, &customerName, &policyName,
		)
		if err != nil {
			continue
		}

		data := paymentJSON(&pay)
		data["customer_name"] = textOrNil(customerName)
		data["policy_name"] = textOrNil(policyName)
		payments = append(payments, data)
	}

	c.JSON(http.StatusOK, payments)
}

// GetCustomerPayments returns a customer's payments across all policies
func GetCustomerPayments(c *gin.Context) {
	customerID, err := validateID(c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	query := `SELECT pay.payment_id, pay.purchased_policy_id, pay.claim_id, pay.amount,
	                 pay.payment_method, pay.payment_type, pay.transaction_id, pay.status,
	                 pay.payment_date, p.name AS policy_name
	          FROM payments pay
	          LEFT JOIN claims cl ON pay.claim_id = cl.claim_id
	          JOIN purchased_policies pp
	               ON pp.purchased_policy_id = COALESCE(pay.purchased_policy_id, cl.purchased_policy_id)
	          JOIN policies p ON pp.policy_id = p.policy_id
	          WHERE pp.customer_id = $1
	          ORDER BY pay.payment_date DESC`

	rows, err := DB.Query(query, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	defer rows.Close()

	payments := []gin.H{}
	for rows.Next() {
		var pay models.Payment
		var policyName string

		err := rows.Scan(
			&pay.PaymentID, &pay.PurchasedPolicyID, &pay.ClaimID, &pay.Amount,
			&pay.PaymentMethod, &pay.PaymentType, &pay.TransactionID, &pay.Status,
			&pay.PaymentDate, &policyName,
		)
		if err != nil {
			continue
		}

		data := paymentJSON(&pay)
		data["policy_name"] = policyName
		payments = append(payments, data)
	}

	c.JSON(http.StatusOK, payments)
}

// GetPolicyPayments returns payments made against one purchased policy
func GetPolicyPayments(c *gin.Context) {
	purchasedPolicyID, err := validateID(c.Param("purchasedPolicyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchased policy ID"})
		return
	}

	query := `SELECT payment_id, purchased_policy_id, claim_id, amount, payment_method,
	                 payment_type, transaction_id, status, payment_date
	          FROM payments WHERE purchased_policy_id = $1 ORDER BY payment_date DESC`

	rows, err := DB.Query(query, purchasedPolicyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	defer rows.Close()

	payments := []gin.H{}
	for rows.Next() {
		var pay models.Payment
		err := rows.Scan(
			&pay.PaymentID, &pay.PurchasedPolicyID, &pay.ClaimID, &pay.Amount,
			&pay.PaymentMethod, &pay.PaymentType, &pay.TransactionID, &pay.Status, &pay.PaymentDate,
		)
		if err != nil {
			continue
		}
		payments = append(payments, paymentJSON(&pay))
	}

	c.JSON(http.StatusOK, payments)
}

// GetPayment returns a single payment with its customer and policy context
func GetPayment(c *gin.Context) {
	paymentID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var pay models.Payment
	var customerName, policyName sql.NullString

	query := `SELECT pay.payment_id, pay.purchased_policy_id, pay.claim_id, pay.amount,
	                 pay.payment_method, pay.payment_type, pay.transaction_id, pay.status,
	                 pay.payment_date, c.name AS customer_name, p.name AS policy_name
	          FROM payments pay
	          LEFT JOIN claims cl ON pay.claim_id = cl.claim_id
	          LEFT JOIN purchased_policies pp
	                 ON pp.purchased_policy_id = COALESCE(pay.purchased_policy_id, cl.purchased_policy_id)
	          LEFT JOIN customers c ON pp.customer_id = c.customer_id
	          LEFT JOIN policies p ON pp.policy_id = p.policy_id
	          WHERE pay.payment_id = $1`

	err = DB.QueryRow(query, paymentID).Scan(
		&pay.PaymentID, &pay.PurchasedPolicyID, &pay.ClaimID, &pay.Amount,
		&pay.PaymentMethod, &pay.PaymentType, &pay.TransactionID, &pay.Status,
		&pay.PaymentDate, &customerName, &policyName,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment"})
		return
	}

	data := paymentJSON(&pay)
	data["customer_name"] = textOrNil(customerName)
	data["policy_name"] = textOrNil(policyName)
	c.JSON(http.StatusOK, data)
}

// RecordPayment records a premium payment or a claim settlement payout.
// Payments are recorded after the money moved, so they start completed.
func RecordPayment(c *gin.Context) {
	var req struct {
		PurchasedPolicyID *int64  `json:"purchased_policy_id"`
		ClaimID           *int64  `json:"claim_id"`
		Amount            float64 `json:"amount" binding:"required"`
		PaymentMethod     string  `json:"payment_method" binding:"required,oneof=credit_card debit_card upi net_banking cash"`
		PaymentType       string  `json:"payment_type" binding:"omitempty,oneof=premium claim_settlement"`
		TransactionID     string  `json:"transaction_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := validateAmount(req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = "premium"
	}
	if paymentType == "premium" && req.PurchasedPolicyID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchased_policy_id is required for premium payments"})
		return
	}
	if paymentType == "claim_settlement" && req.ClaimID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "claim_id is required for claim settlements"})
		return
	}

	if req.PurchasedPolicyID != nil {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM purchased_policies WHERE purchased_policy_id = $1)`
		if err := DB.QueryRow(checkQuery, *req.PurchasedPolicyID).Scan(&exists); err != nil || !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchased policy not found"})
			return
		}
	}
	if req.ClaimID != nil {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM claims WHERE claim_id = $1)`
		if err := DB.QueryRow(checkQuery, *req.ClaimID).Scan(&exists); err != nil || !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
			return
		}
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = "TXN-" + uuid.New().String()
	}

	var paymentID int64
	insertQuery := `INSERT INTO payments
	                (purchased_policy_id, claim_id, amount, payment_method, payment_type, transaction_id, status)
	                VALUES ($1, $2, $3, $4, $5, $6, 'completed')
	                RETURNING payment_id`
	err := DB.QueryRow(insertQuery, req.PurchasedPolicyID, req.ClaimID, req.Amount,
		req.PaymentMethod, paymentType, transactionID).Scan(&paymentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Payment recorded successfully",
		"paymentId":     paymentID,
		"transactionId": transactionID,
	})
}

// UpdatePaymentStatus moves a payment between the closed status set
func UpdatePaymentStatus(c *gin.Context) {
	paymentID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if !paymentStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment status"})
		return
	}

	query := `UPDATE payments SET status = $1 WHERE payment_id = $2`
	result, err := DB.Exec(query, req.Status, paymentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
}

// GetPaymentStats summarizes the trailing 30 days (admin only)
func GetPaymentStats(c *gin.Context) {
	var totalPayments int
	var totalAmount, averageAmount, completedAmount, pendingAmount sql.NullFloat64

	query := `SELECT COUNT(*) AS total_payments,
	                 SUM(amount) AS total_amount,
	                 AVG(amount) AS average_amount,
	                 SUM(CASE WHEN status = 'completed' THEN amount ELSE 0 END) AS completed_amount,
	                 SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END) AS pending_amount
	          FROM payments
	          WHERE payment_date >= NOW() - INTERVAL '30 days'`

	err := DB.QueryRow(query).Scan(&totalPayments, &totalAmount, &averageAmount,
		&completedAmount, &pendingAmount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_payments":   totalPayments,
		"total_amount":     totalAmount.Float64,
		"average_amount":   averageAmount.Float64,
		"completed_amount": completedAmount.Float64,
		"pending_amount":   pendingAmount.Float64,
	})
}

func textOrNil(s sql.NullString) interface{} {
	if s.Valid {
		return s.String
	}
	return nil
}

func paymentJSON(pay *models.Payment) gin.H {
	return gin.H{
		"payment_id":          pay.PaymentID,
		"purchased_policy_id": pay.PurchasedPolicyID,
		"claim_id":            pay.ClaimID,
		"amount":              pay.Amount,
		"payment_method":      pay.PaymentMethod,
		"payment_type":        pay.PaymentType,
		"transaction_id":      pay.TransactionID,
		"status":              pay.Status,
		"payment_date":        pay.PaymentDate,
	}
}
