package constants

// Redis key formats.
const (
	// Dashboard counters for the work orders page.
	// Format: wo_dashboard -> json blob
	CacheKeyWorkOrderDashboard = "wo_dashboard"

	// Leader lock for the reservation expiry sweeper.
	CacheKeySweeperLock = "reservation_sweeper_lock"
)
