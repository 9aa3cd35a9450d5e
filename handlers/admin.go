package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAdminStats returns the counters the admin dashboard displays.
// Each count is a separate cheap query against an indexed column.
func GetAdminStats(c *gin.Context) {
	stats := gin.H{}

	counts := []struct {
		key   string
		query string
	}{
		{"total_customers", `SELECT COUNT(*) FROM customers`},
		{"total_agents", `SELECT COUNT(*) FROM agents`},
		{"total_policies", `SELECT COUNT(*) FROM policies WHERE status = 'active'`},
		{"active_purchased_policies", `SELECT COUNT(*) FROM purchased_policies WHERE status = 'active'`},
		{"pending_claims", `SELECT COUNT(*) FROM claims WHERE status = 'pending'`},
		{"open_tickets", `SELECT COUNT(*) FROM support_tickets WHERE status = 'open'`},
	}

	for _, count := range counts {
		var n int
		if err := DB.QueryRow(count.query).Scan(&n); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
			return
		}
		stats[count.key] = n
	}

	var revenue sql.NullFloat64
	revenueQuery := `SELECT SUM(amount) FROM payments WHERE status = 'completed' AND payment_type = 'premium'`
	if err := DB.QueryRow(revenueQuery).Scan(&revenue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}
	stats["total_revenue"] = revenue.Float64

	c.JSON(http.StatusOK, stats)
}

// HealthCheck pings the database pool
func HealthCheck(c *gin.Context) {
	if err := DB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "message": "Database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Database connected"})
}
