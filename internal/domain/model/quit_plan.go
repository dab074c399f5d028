package model

// QuitPlanStatus tracks a member's coaching plan for one billing cycle.
// Confirming a new membership archives the previous cycle's plan.
type QuitPlanStatus string

const (
	QuitPlanStatusActive   QuitPlanStatus = "active"
	QuitPlanStatusArchived QuitPlanStatus = "archived"
)
