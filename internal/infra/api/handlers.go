package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"coaching-subscription/internal/domain"
	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/infra/logging"
	"coaching-subscription/internal/usecase"
)

// decode reads an optional JSON body. An empty body leaves dst untouched.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.Validation("invalid request body: %v", err)
	}
	return nil
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.subs.ListPlans(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	out := make([]planView, 0, len(plans))
	for _, p := range plans {
		out = append(out, presentPlan(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

type purchaseRequest struct {
	PlanID        string `json:"plan_id"`
	PaymentMethod string `json:"payment_method"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	res, err := s.subs.Purchase(r.Context(), UserIDFrom(r.Context()), req.PlanID, req.PaymentMethod)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"payment":    presentPayment(res.Payment),
		"membership": presentMembership(res.Membership),
	})
}

func (s *Server) handleCurrentMembership(w http.ResponseWriter, r *http.Request) {
	m, err := s.subs.CurrentMembership(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, presentMembership(m))
}

type bankRequest struct {
	AccountNumber string `json:"bank_account_number"`
	BankName      string `json:"bank_name"`
	HolderName    string `json:"account_holder_name"`
}

// toModel treats an all-empty object as no bank details at all.
func (b *bankRequest) toModel() *model.BankInfo {
	if b == nil {
		return nil
	}
	if strings.TrimSpace(b.AccountNumber+b.BankName+b.HolderName) == "" {
		return nil
	}
	return &model.BankInfo{AccountNumber: b.AccountNumber, BankName: b.BankName, HolderName: b.HolderName}
}

type cancellationRequest struct {
	Reason string       `json:"reason"`
	Bank   *bankRequest `json:"bank"`
	Amount *int64       `json:"amount"`
}

func (s *Server) handleRequestCancellation(w http.ResponseWriter, r *http.Request) {
	var req cancellationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	bank := req.Bank.toModel()
	if bank != nil {
		logging.With(r.Context(), s.log).Debug().
			Str("account", logging.Redact(bank.AccountNumber, s.dev)).
			Str("bank", bank.BankName).
			Msg("refund destination supplied")
	}
	c, err := s.cancels.RequestCancellation(r.Context(), usecase.CancellationInput{
		UserID:       UserIDFrom(r.Context()),
		MembershipID: chi.URLParam(r, "id"),
		Reason:       req.Reason,
		Bank:         bank,
		Amount:       req.Amount,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentCancellation(c))
}

func (s *Server) handleConfirmReceived(w http.ResponseWriter, r *http.Request) {
	c, err := s.cancels.ConfirmReceived(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, presentCancellation(c))
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	if err := s.subs.Confirm(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context())); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type notesRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

func (s *Server) handleRejectPayment(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.subs.RejectPayment(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context()), req.Reason); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type approveRequest struct {
	Amount *int64 `json:"amount"`
	Notes  string `json:"notes"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	c, err := s.cancels.Approve(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context()), req.Amount, req.Notes)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, presentCancellation(c))
}

func (s *Server) handleRejectCancellation(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	c, err := s.cancels.Reject(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context()), req.Notes)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, presentCancellation(c))
}

func (s *Server) handleConfirmTransfer(w http.ResponseWriter, r *http.Request) {
	c, err := s.cancels.ConfirmTransfer(r.Context(), chi.URLParam(r, "id"), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, presentCancellation(c))
}
