package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/SamreenA11/healthsure-management/models"

	"github.com/gin-gonic/gin"
)

// GetPolicies returns the active policy catalog
func GetPolicies(c *gin.Context) {
	query := `SELECT policy_id, name, type, description, base_premium, coverage_amount,
	                 duration_years, min_age, max_age, status, created_at
	          FROM policies WHERE status = 'active' ORDER BY created_at DESC`

	rows, err := DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch policies"})
		return
	}
	defer rows.Close()

	policies := []gin.H{}
	for rows.Next() {
		var p models.Policy
		err := rows.Scan(
			&p.PolicyID, &p.Name, &p.Type, &p.Description, &p.BasePremium,
			&p.CoverageAmount, &p.DurationYears, &p.MinAge, &p.MaxAge, &p.Status, &p.CreatedAt,
		)
		if err != nil {
			continue
		}
		policies = append(policies, policyJSON(&p, nil))
	}

	c.JSON(http.StatusOK, policies)
}

// GetPolicy returns a policy plus its type-specific details
func GetPolicy(c *gin.Context) {
	policyID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	var p models.Policy
	query := `SELECT policy_id, name, type, description, base_premium, coverage_amount,
	                 duration_years, min_age, max_age, status, created_at
	          FROM policies WHERE policy_id = $1`
	err = DB.QueryRow(query, policyID).Scan(
		&p.PolicyID, &p.Name, &p.Type, &p.Description, &p.BasePremium,
		&p.CoverageAmount, &p.DurationYears, &p.MinAge, &p.MaxAge, &p.Status, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch policy"})
		return
	}

	// details is always present on the single-policy view, null when
	// the detail row is missing
	details, err := policyDetails(p.Type, policyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch policy details"})
		return
	}
	data := policyJSON(&p, nil)
	data["details"] = details
	c.JSON(http.StatusOK, data)
}

// GetCustomerPolicies returns a customer's purchased policies joined
// with the catalog fields the dashboards display
func GetCustomerPolicies(c *gin.Context) {
	customerID, err := validateID(c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	query := `SELECT pp.purchased_policy_id, pp.customer_id, pp.policy_id, pp.start_date,
	                 pp.end_date, pp.premium_amount, pp.payment_frequency, pp.status, pp.created_at,
	                 p.name, p.type, p.coverage_amount, p.duration_years
	          FROM purchased_policies pp
	          JOIN policies p ON pp.policy_id = p.policy_id
	          WHERE pp.customer_id = $1
	          ORDER BY pp.start_date DESC`

	rows, err := DB.Query(query, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchased policies"})
		return
	}
	defer rows.Close()

	purchased := []gin.H{}
	for rows.Next() {
		var pp models.PurchasedPolicy
		var name, ptype string
		var coverage float64
		var duration int

		err := rows.Scan(
			&pp.PurchasedPolicyID, &pp.CustomerID, &pp.PolicyID, &pp.StartDate,
			&pp.EndDate, &pp.PremiumAmount, &pp.PaymentFrequency, &pp.Status, &pp.CreatedAt,
			&name, &ptype, &coverage, &duration,
		)
		if err != nil {
			continue
		}

		purchased = append(purchased, gin.H{
			"purchased_policy_id": pp.PurchasedPolicyID,
			"customer_id":         pp.CustomerID,
			"policy_id":           pp.PolicyID,
			"start_date":          pp.StartDate,
			"end_date":            pp.EndDate,
			"premium_amount":      pp.PremiumAmount,
			"payment_frequency":   pp.PaymentFrequency,
			"status":              pp.Status,
			"created_at":          pp.CreatedAt,
			"name":                name,
			"type":                ptype,
			"coverage_amount":     coverage,
			"duration_years":      duration,
		})
	}

	c.JSON(http.StatusOK, purchased)
}

// PurchasePolicy binds a customer to a catalog policy
func PurchasePolicy(c *gin.Context) {
	var req struct {
		CustomerID       int64   `json:"customer_id" binding:"required"`
		PolicyID         int64   `json:"policy_id" binding:"required"`
		StartDate        string  `json:"start_date" binding:"required"`
		PremiumAmount    float64 `json:"premium_amount" binding:"required"`
		PaymentFrequency string  `json:"payment_frequency" binding:"omitempty,oneof=monthly quarterly yearly"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := validateAmount(req.PremiumAmount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date, expected YYYY-MM-DD"})
		return
	}

	var durationYears int
	policyQuery := `SELECT duration_years FROM policies WHERE policy_id = $1 AND status = 'active'`
	err = DB.QueryRow(policyQuery, req.PolicyID).Scan(&durationYears)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	frequency := req.PaymentFrequency
	if frequency == "" {
		frequency = "yearly"
	}
	endDate := startDate.AddDate(durationYears, 0, 0)

	var purchasedPolicyID int64
	insertQuery := `INSERT INTO purchased_policies
	                (customer_id, policy_id, start_date, end_date, premium_amount, payment_frequency, status)
	                VALUES ($1, $2, $3, $4, $5, $6, 'active')
	                RETURNING purchased_policy_id`
	err = DB.QueryRow(insertQuery, req.CustomerID, req.PolicyID, startDate, endDate,
		req.PremiumAmount, frequency).Scan(&purchasedPolicyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purchase policy"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":           "Policy purchased successfully",
		"purchasedPolicyId": purchasedPolicyID,
	})
}

// CreatePolicy adds a catalog entry and its type detail row (admin only)
func CreatePolicy(c *gin.Context) {
	var req struct {
		Name           string  `json:"name" binding:"required"`
		Type           string  `json:"type" binding:"required,oneof=health life family"`
		Description    string  `json:"description"`
		BasePremium    float64 `json:"base_premium" binding:"required"`
		CoverageAmount float64 `json:"coverage_amount" binding:"required"`
		DurationYears  int     `json:"duration_years" binding:"required,min=1"`
		MinAge         *int    `json:"min_age"`
		MaxAge         *int    `json:"max_age"`

		// Type-specific detail fields, all optional
		RoomRentLimit     float64 `json:"room_rent_limit"`
		PreExistingCover  bool    `json:"pre_existing_cover"`
		MaternityCover    bool    `json:"maternity_cover"`
		NetworkHospitals  int     `json:"network_hospitals"`
		SumAssured        float64 `json:"sum_assured"`
		MaturityBenefit   bool    `json:"maturity_benefit"`
		AccidentalCover   bool    `json:"accidental_cover"`
		MaxMembers        int     `json:"max_members"`
		PerMemberCoverage float64 `json:"per_member_coverage"`
		ChildAgeLimit     int     `json:"child_age_limit"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := validateAmount(req.BasePremium); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateAmount(req.CoverageAmount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var policyID int64
	insertPolicy := `INSERT INTO policies
	                 (name, type, description, base_premium, coverage_amount, duration_years, min_age, max_age, status)
	                 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')
	                 RETURNING policy_id`
	err = tx.QueryRow(insertPolicy, req.Name, req.Type, nullable(req.Description),
		req.BasePremium, req.CoverageAmount, req.DurationYears, req.MinAge, req.MaxAge).Scan(&policyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create policy"})
		return
	}

	switch req.Type {
	case "health":
		insertDetail := `INSERT INTO health_policies (policy_id, room_rent_limit, pre_existing_cover, maternity_cover, network_hospitals)
		                 VALUES ($1, $2, $3, $4, $5)`
		_, err = tx.Exec(insertDetail, policyID, req.RoomRentLimit, req.PreExistingCover, req.MaternityCover, req.NetworkHospitals)
	case "life":
		insertDetail := `INSERT INTO life_policies (policy_id, sum_assured, maturity_benefit, accidental_cover)
		                 VALUES ($1, $2, $3, $4)`
		_, err = tx.Exec(insertDetail, policyID, req.SumAssured, req.MaturityBenefit, req.AccidentalCover)
	case "family":
		insertDetail := `INSERT INTO family_policies (policy_id, max_members, per_member_coverage, child_age_limit)
		                 VALUES ($1, $2, $3, $4)`
		_, err = tx.Exec(insertDetail, policyID, req.MaxMembers, req.PerMemberCoverage, req.ChildAgeLimit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create policy details"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create policy"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Policy created successfully",
		"policyId": policyID,
	})
}

// UpdatePolicy updates catalog fields (admin only)
func UpdatePolicy(c *gin.Context) {
	policyID, err := validateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy ID"})
		return
	}

	var req struct {
		Name           string  `json:"name" binding:"required"`
		Description    string  `json:"description"`
		BasePremium    float64 `json:"base_premium" binding:"required"`
		CoverageAmount float64 `json:"coverage_amount" binding:"required"`
		Status         string  `json:"status" binding:"required,oneof=active inactive"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := validateAmount(req.BasePremium); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `UPDATE policies
	          SET name = $1, description = $2, base_premium = $3, coverage_amount = $4, status = $5
	          WHERE policy_id = $6`
	result, err := DB.Exec(query, req.Name, nullable(req.Description), req.BasePremium,
		req.CoverageAmount, req.Status, policyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update policy"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Policy updated successfully"})
}

// policyDetails loads the detail row matching the policy's declared type.
// A missing row is not an error, the details field is just null.
func policyDetails(policyType string, policyID int64) (gin.H, error) {
	switch policyType {
	case "health":
		var hp models.HealthPolicy
		query := `SELECT policy_id, room_rent_limit, pre_existing_cover, maternity_cover, network_hospitals
		          FROM health_policies WHERE policy_id = $1`
		err := DB.QueryRow(query, policyID).Scan(&hp.PolicyID, &hp.RoomRentLimit,
			&hp.PreExistingCover, &hp.MaternityCover, &hp.NetworkHospitals)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return gin.H{
			"policy_id":          hp.PolicyID,
			"room_rent_limit":    hp.RoomRentLimit,
			"pre_existing_cover": hp.PreExistingCover,
			"maternity_cover":    hp.MaternityCover,
			"network_hospitals":  hp.NetworkHospitals,
		}, nil
	case "life":
		var lp models.LifePolicy
		query := `SELECT policy_id, sum_assured, maturity_benefit, accidental_cover
		          FROM life_policies WHERE policy_id = $1`
		err := DB.QueryRow(query, policyID).Scan(&lp.PolicyID, &lp.SumAssured,
			&lp.MaturityBenefit, &lp.AccidentalCover)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return gin.H{
			"policy_id":        lp.PolicyID,
			"sum_assured":      lp.SumAssured,
			"maturity_benefit": lp.MaturityBenefit,
			"accidental_cover": lp.AccidentalCover,
		}, nil
	case "family":
		var fp models.FamilyPolicy
		query := `SELECT policy_id, max_members, per_member_coverage, child_age_limit
		          FROM family_policies WHERE policy_id = $1`
		err := DB.QueryRow(query, policyID).Scan(&fp.PolicyID, &fp.MaxMembers,
			&fp.PerMemberCoverage, &fp.ChildAgeLimit)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return gin.H{
			"policy_id":           fp.PolicyID,
			"max_members":         fp.MaxMembers,
			"per_member_coverage": fp.PerMemberCoverage,
			"child_age_limit":     fp.ChildAgeLimit,
		}, nil
	}
	return nil, nil
}

func policyJSON(p *models.Policy, details gin.H) gin.H {
	data := gin.H{
		"policy_id":       p.PolicyID,
		"name":            p.Name,
		"type":            p.Type,
		"description":     p.Description,
		"base_premium":    p.BasePremium,
		"coverage_amount": p.CoverageAmount,
		"duration_years":  p.DurationYears,
		"min_age":         p.MinAge,
		"max_age":         p.MaxAge,
		"status":          p.Status,
		"created_at":      p.CreatedAt,
	}
	if details != nil {
		data["details"] = details
	}
	return data
}
