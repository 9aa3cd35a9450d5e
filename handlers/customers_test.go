package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customersRouter() *gin.Engine {
	router := gin.New()
	router.GET("/api/customers", asAdmin, GetCustomers)
	router.GET("/api/customers/user/:userId", asCustomer, GetCustomerByUserID)
	router.GET("/api/customers/:id", asAdmin, GetCustomer)
	router.PUT("/api/customers/:id", asCustomer, UpdateCustomer)
	router.PUT("/api/customers/:id/assign-agent", asAdmin, AssignAgent)
	return router
}

func customerColumns() []string {
	return []string{"customer_id", "user_id", "name", "gender", "phone", "date_of_birth",
		"address", "city", "state", "pincode", "id_number", "agent_id", "created_at",
		"email", "status", "agent_name"}
}

func TestGetCustomerIncludesAgentName(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM customers c`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(customerColumns()).
			AddRow(int64(4), int64(8), "Ravi Kumar", "male", "9812345678", nil,
				"12 MG Road", "Bengaluru", "Karnataka", "560001", nil, int64(2), testTime(),
				"ravi@example.com", "active", "Priya Sharma"))

	w := performJSON(customersRouter(), http.MethodGet, "/api/customers/4", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Ravi Kumar", body["name"])
	assert.Equal(t, "Priya Sharma", body["agent_name"])
	assert.Equal(t, "ravi@example.com", body["email"])
}

func TestGetCustomerUnassignedAgentIsNull(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM customers c`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(customerColumns()).
			AddRow(int64(5), int64(9), "Meena Iyer", nil, nil, nil,
				nil, nil, nil, nil, nil, nil, testTime(),
				"meena@example.com", "active", nil))

	w := performJSON(customersRouter(), http.MethodGet, "/api/customers/5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	_, present := body["agent_name"]
	assert.True(t, present)
	assert.Nil(t, body["agent_name"])
}

func TestGetCustomerNotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM customers c`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	w := performJSON(customersRouter(), http.MethodGet, "/api/customers/404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Customer not found", decodeBody(t, w)["error"])
}

func TestGetCustomerByUserID(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM customers c`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(customerColumns()).
			AddRow(int64(4), int64(8), "Ravi Kumar", "male", nil, nil,
				nil, nil, nil, nil, nil, nil, testTime(),
				"ravi@example.com", "active", nil))

	w := performJSON(customersRouter(), http.MethodGet, "/api/customers/user/8", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decodeBody(t, w)["customer_id"])
}

func TestUpdateCustomerNotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec(`UPDATE customers`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := performJSON(customersRouter(), http.MethodPut, "/api/customers/99", gin.H{
		"name":  "Renamed Customer",
		"phone": "9800000000",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignAgentChecksAgentExists(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`UPDATE customers SET agent_id`).
		WithArgs(int64(2), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performJSON(customersRouter(), http.MethodPut, "/api/customers/4/assign-agent", gin.H{
		"agent_id": 2,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignAgentUnknownAgent(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := performJSON(customersRouter(), http.MethodPut, "/api/customers/4/assign-agent", gin.H{
		"agent_id": 55,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Agent not found", decodeBody(t, w)["error"])
}

func TestAssignAgentNullClearsAssignment(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec(`UPDATE customers SET agent_id`).
		WithArgs(nil, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performJSON(customersRouter(), http.MethodPut, "/api/customers/4/assign-agent", gin.H{
		"agent_id": nil,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
