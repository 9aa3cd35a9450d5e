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

func supportRouter() *gin.Engine {
	router := gin.New()
	router.GET("/api/support", asAdmin, GetTickets)
	router.GET("/api/support/customer/:customerId", asCustomer, GetCustomerTickets)
	router.GET("/api/support/:id", asAdmin, GetTicket)
	router.POST("/api/support", asCustomer, CreateTicket)
	router.PUT("/api/support/:id/status", asAdmin, UpdateTicketStatus)
	router.PUT("/api/support/:id/assign", asAdmin, AssignTicket)
	router.PUT("/api/support/:id/priority", asAdmin, UpdateTicketPriority)
	return router
}

func TestCreateTicketDefaultsPriorityMedium(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO support_tickets`).
		WithArgs(int64(4), "Premium not reflecting", "Paid yesterday, still shows due", "medium").
		WillReturnRows(sqlmock.NewRows([]string{"ticket_id"}).AddRow(int64(31)))

	w := performJSON(supportRouter(), http.MethodPost, "/api/support", gin.H{
		"customer_id": 4,
		"subject":     "Premium not reflecting",
		"description": "Paid yesterday, still shows due",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(31), decodeBody(t, w)["ticketId"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTicketUnknownCustomer(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := performJSON(supportRouter(), http.MethodPost, "/api/support", gin.H{
		"customer_id": 77,
		"subject":     "Help",
		"description": "Cannot log in",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTicketRejectsUnknownPriority(t *testing.T) {
	newMockDB(t)

	w := performJSON(supportRouter(), http.MethodPost, "/api/support", gin.H{
		"customer_id": 4,
		"subject":     "Help",
		"description": "Cannot log in",
		"priority":    "catastrophic",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveTicketStampsResolvedAt(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec(`UPDATE support_tickets SET status = \$1, resolution = \$2, resolved_at = CURRENT_TIMESTAMP WHERE ticket_id = \$3`).
		WithArgs("resolved", "Payment reconciled", int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performJSON(supportRouter(), http.MethodPut, "/api/support/31/status", gin.H{
		"status":     "resolved",
		"resolution": "Payment reconciled",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReopenTicketClearsResolvedAt(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec(`UPDATE support_tickets SET status = \$1, resolved_at = NULL WHERE ticket_id = \$2`).
		WithArgs("in_progress", int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performJSON(supportRouter(), http.MethodPut, "/api/support/31/status", gin.H{
		"status": "in_progress",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTicketStatusRejectsUnknownState(t *testing.T) {
	newMockDB(t)

	w := performJSON(supportRouter(), http.MethodPut, "/api/support/31/status", gin.H{
		"status": "abandoned",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ticket status", decodeBody(t, w)["error"])
}

func TestAssignTicketChecksAgentExists(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`UPDATE support_tickets SET assigned_to`).
		WithArgs(int64(2), int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performJSON(supportRouter(), http.MethodPut, "/api/support/31/assign", gin.H{
		"agent_id": 2,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignTicketUnknownAgent(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := performJSON(supportRouter(), http.MethodPut, "/api/support/31/assign", gin.H{
		"agent_id": 55,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTicketPriorityRejectsUnknownValue(t *testing.T) {
	newMockDB(t)

	w := performJSON(supportRouter(), http.MethodPut, "/api/support/31/priority", gin.H{
		"priority": "whenever",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ticket priority", decodeBody(t, w)["error"])
}

func TestGetTicketNotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM support_tickets st`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	w := performJSON(supportRouter(), http.MethodGet, "/api/support/404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCustomerTicketsEmpty(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`FROM support_tickets WHERE customer_id`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{
			"ticket_id", "customer_id", "subject", "description", "priority", "status",
			"assigned_to", "resolution", "created_at", "resolved_at",
		}))

	w := performJSON(supportRouter(), http.MethodGet, "/api/support/customer/8", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
