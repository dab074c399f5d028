package model

import (
	"time"

	"coaching-subscription/internal/domain"
)

// Plan is an immutable catalog entry. Price is stored in the smallest
// currency unit to avoid float errors.
type Plan struct {
	ID           string
	Name         string
	Price        int64
	DurationDays int
	Features     []string
	CreatedAt    time.Time
}

// Window returns the coverage period of a billing cycle starting at start.
func (p *Plan) Window(start time.Time) (time.Time, time.Time) {
	return start, start.AddDate(0, 0, p.DurationDays)
}

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, price int64, durationDays int, features []string) (*Plan, error) {
	if id == "" || name == "" {
		return nil, domain.Validation("plan id and name are required")
	}
	if price <= 0 || durationDays <= 0 {
		return nil, domain.Validation("plan price and duration must be positive")
	}
	return &Plan{
		ID:           id,
		Name:         name,
		Price:        price,
		DurationDays: durationDays,
		Features:     features,
		CreatedAt:    time.Now(),
	}, nil
}
