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

func agentsRouter() *gin.Engine {
	router := gin.New()
	router.GET("/api/agents", asAdmin, GetAgents)
	router.GET("/api/agents/user/:userId", asAdmin, GetAgentByUserID)
	router.GET("/api/agents/:id", asAdmin, GetAgent)
	router.GET("/api/agents/:id/customers", asAdmin, GetAgentCustomers)
	router.PUT("/api/agents/:id", asAdmin, UpdateAgent)
	router.PUT("/api/agents/:id/commission", asAdmin, UpdateAgentCommission)
	return router
}

func agentColumns() []string {
	return []string{"agent_id", "user_id", "name", "phone", "branch", "specialization",
		"commission_rate", "total_sales", "created_at", "email", "status"}
}

func TestGetAgentsIncludesCustomerCount(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM agents a`).
		WillReturnRows(sqlmock.NewRows(append(agentColumns(), "customer_count")).
			AddRow(int64(2), int64(5), "Priya Sharma", "9876543210", "Main", "health",
				5.0, 250000.0, testTime(), "priya@example.com", "active", 12))

	w := performJSON(agentsRouter(), http.MethodGet, "/api/agents", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var agents []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &agents))
	require.Len(t, agents, 1)
	assert.Equal(t, float64(12), agents[0]["customer_count"])
	assert.Equal(t, "Priya Sharma", agents[0]["name"])
}

func TestGetAgentNotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM agents a`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	w := performJSON(agentsRouter(), http.MethodGet, "/api/agents/404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Agent not found", decodeBody(t, w)["error"])
}

func TestGetAgentByUserID(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM agents a`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(agentColumns()).
			AddRow(int64(2), int64(5), "Priya Sharma", nil, "Main", nil,
				5.0, 0.0, testTime(), "priya@example.com", "active"))

	w := performJSON(agentsRouter(), http.MethodGet, "/api/agents/user/5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["agent_id"])
}

func TestGetAgentCustomersEmpty(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM customers c`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"customer_id", "user_id", "name", "gender", "phone", "date_of_birth",
			"address", "city", "state", "pincode", "agent_id", "created_at", "email",
		}))

	w := performJSON(agentsRouter(), http.MethodGet, "/api/agents/2/customers", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateAgentNotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec(`UPDATE agents`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := performJSON(agentsRouter(), http.MethodPut, "/api/agents/99", gin.H{
		"name":   "Renamed Agent",
		"branch": "North",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAgentCommission(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec(`UPDATE agents SET commission_rate`).
		WithArgs(7.5, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performJSON(agentsRouter(), http.MethodPut, "/api/agents/2/commission", gin.H{
		"commission_rate": 7.5,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAgentCommissionOutOfRange(t *testing.T) {
	newMockDB(t)

	w := performJSON(agentsRouter(), http.MethodPut, "/api/agents/2/commission", gin.H{
		"commission_rate": 150,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Commission rate must be between 0 and 100", decodeBody(t, w)["error"])
}
