package api

import (
	"encoding/json"
	"net/http"
	"time"

	"coaching-subscription/internal/domain/model"
)

type planView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	DurationDays int      `json:"duration_days"`
	Features     []string `json:"features"`
}

func presentPlan(p *model.Plan) planView {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return planView{ID: p.ID, Name: p.Name, Price: p.Price, DurationDays: p.DurationDays, Features: features}
}

type paymentView struct {
	ID             string     `json:"id"`
	PlanID         string     `json:"plan_id"`
	Amount         int64      `json:"amount"`
	Method         string     `json:"payment_method"`
	Status         string     `json:"status"`
	TransactionRef string     `json:"transaction_ref"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func presentPayment(p *model.Payment) paymentView {
	return paymentView{
		ID:             p.ID,
		PlanID:         p.PlanID,
		Amount:         p.Amount,
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		StartDate:      optTime(p.StartDate),
		EndDate:        optTime(p.EndDate),
		CreatedAt:      p.CreatedAt,
	}
}

type membershipView struct {
	ID        string     `json:"id"`
	PlanID    string     `json:"plan_id"`
	PaymentID string     `json:"payment_id"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func presentMembership(m *model.Membership) membershipView {
	return membershipView{
		ID:        m.ID,
		PlanID:    m.PlanID,
		PaymentID: m.PaymentID,
		Status:    string(m.Status),
		StartDate: optTime(m.StartDate),
		EndDate:   optTime(m.EndDate),
		CreatedAt: m.CreatedAt,
	}
}

// cancellationView omits bank details; they are only shown to admins out of band.
type cancellationView struct {
	ID              string     `json:"id"`
	MembershipID    string     `json:"membership_id"`
	PaymentID       string     `json:"payment_id"`
	Status          string     `json:"status"`
	RefundRequested bool       `json:"refund_requested"`
	RequestedAmount int64      `json:"requested_amount"`
	ApprovedAmount  int64      `json:"approved_amount"`
	RefundReceived  bool       `json:"refund_received"`
	Reason          string     `json:"reason,omitempty"`
	AdminNotes      string     `json:"admin_notes,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	TransferredAt   *time.Time `json:"transfer_confirmed_at,omitempty"`
	ReceivedAt      *time.Time `json:"received_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func presentCancellation(c *model.CancellationRequest) cancellationView {
	return cancellationView{
		ID:              c.ID,
		MembershipID:    c.MembershipID,
		PaymentID:       c.PaymentID,
		Status:          string(c.Status),
		RefundRequested: c.RefundRequested,
		RequestedAmount: c.RequestedAmount,
		ApprovedAmount:  c.ApprovedAmount,
		RefundReceived:  c.RefundReceived,
		Reason:          c.Reason,
		AdminNotes:      c.AdminNotes,
		ApprovedAt:      c.ApprovedAt,
		RejectedAt:      c.RejectedAt,
		TransferredAt:   c.TransferConfirmedAt,
		ReceivedAt:      c.ReceivedAt,
		CreatedAt:       c.CreatedAt,
	}
}

func optTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
