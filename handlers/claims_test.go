package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsRouter() *gin.Engine {
	router := gin.New()
	router.GET("/api/claims", asAdmin, GetClaims)
	router.GET("/api/claims/customer/:customerId", asCustomer, GetCustomerClaims)
	router.GET("/api/claims/:id", asAdmin, GetClaim)
	router.POST("/api/claims", asCustomer, SubmitClaim)
	router.PUT("/api/claims/:id/status", asAdmin, UpdateClaimStatus)
	return router
}

func TestSubmitClaimStartsPending(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO claims[\s\S]*'pending'`).
		WillReturnRows(sqlmock.NewRows([]string{"claim_id"}).AddRow(int64(11)))

	w := performJSON(claimsRouter(), http.MethodPost, "/api/claims", gin.H{
		"purchased_policy_id": 3,
		"claim_amount":        8000,
		"incident_date":       "2025-05-20",
		"description":         "Hospitalization for surgery",
		"hospital_name":       "City Care Hospital",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(11), decodeBody(t, w)["claimId"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitClaimUnknownPolicy(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := performJSON(claimsRouter(), http.MethodPost, "/api/claims", gin.H{
		"purchased_policy_id": 77,
		"claim_amount":        8000,
		"incident_date":       "2025-05-20",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitClaimRejectsNegativeAmount(t *testing.T) {
	newMockDB(t)

	w := performJSON(claimsRouter(), http.MethodPost, "/api/claims", gin.H{
		"purchased_policy_id": 3,
		"claim_amount":        -500,
		"incident_date":       "2025-05-20",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveClaimStampsSettlementDateAndReviewer(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec(`UPDATE claims SET status = \$1, settlement_amount = \$2, settlement_date = CURRENT_TIMESTAMP, reviewed_by = \$3 WHERE claim_id = \$4`).
		WithArgs("approved", 6500.0, int64(3), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performJSON(claimsRouter(), http.MethodPut, "/api/claims/4/status", gin.H{
		"status":            "approved",
		"settlement_amount": 6500,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectClaimLeavesSettlementDateAlone(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec(`UPDATE claims SET status = \$1, remarks = \$2, reviewed_by = \$3 WHERE claim_id = \$4`).
		WithArgs("rejected", "Outside coverage period", int64(3), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performJSON(claimsRouter(), http.MethodPut, "/api/claims/4/status", gin.H{
		"status":  "rejected",
		"remarks": "Outside coverage period",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClaimStatusRejectsUnknownState(t *testing.T) {
	newMockDB(t)

	w := performJSON(claimsRouter(), http.MethodPut, "/api/claims/4/status", gin.H{
		"status": "escalated",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid claim status", decodeBody(t, w)["error"])
}

func TestUpdateClaimStatusNoFields(t *testing.T) {
	newMockDB(t)

	w := performJSON(claimsRouter(), http.MethodPut, "/api/claims/4/status", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetClaimNotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM claims cl`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	w := performJSON(claimsRouter(), http.MethodGet, "/api/claims/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCustomerClaimsEmpty(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM claims cl`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{
			"claim_id", "purchased_policy_id", "claim_amount", "incident_date",
			"description", "hospital_name", "status", "settlement_amount",
			"settlement_date", "remarks", "reviewed_by", "claim_date", "policy_name",
		}))

	w := performJSON(claimsRouter(), http.MethodGet, "/api/claims/customer/8", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetClaimsListsDenormalizedView(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM claims cl`).
		WillReturnRows(sqlmock.NewRows([]string{
			"claim_id", "purchased_policy_id", "claim_amount", "incident_date",
			"description", "hospital_name", "status", "settlement_amount",
			"settlement_date", "remarks", "reviewed_by", "claim_date",
			"customer_name", "policy_name",
		}).AddRow(int64(1), int64(3), 8000.0, testTime(), "Surgery", "City Care",
			"pending", nil, nil, nil, nil, testTime(), "Ravi Kumar", "SecureHealth Plus"))

	w := performJSON(claimsRouter(), http.MethodGet, "/api/claims", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var claims []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &claims))
	require.Len(t, claims, 1)
	assert.Equal(t, "Ravi Kumar", claims[0]["customer_name"])
	assert.Equal(t, "pending", claims[0]["status"])
	assert.Nil(t, claims[0]["settlement_date"])
}
