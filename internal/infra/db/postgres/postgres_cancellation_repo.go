package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"coaching-subscription/internal/domain"
	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
)

var _ repository.CancellationRepository = (*cancellationRepo)(nil)

const cancellationColumns = `id, user_id, membership_id, payment_id, requested_amount, approved_amount, reason,
  bank_account_number, bank_name, account_holder_name,
  refund_requested, refund_approved, refund_received, prior_membership_status, status, admin_notes, processed_by,
  approved_at, rejected_at, transfer_confirmed_at, received_at, created_at, updated_at`

type cancellationRepo struct{ pool *pgxpool.Pool }

func NewCancellationRepo(pool *pgxpool.Pool) *cancellationRepo {
	return &cancellationRepo{pool: pool}
}

func (r *cancellationRepo) Insert(ctx context.Context, tx repository.Tx, c *model.CancellationRequest) error {
	const q = `
INSERT INTO cancellation_requests (` + cancellationColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23);`
	_, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.UserID, c.MembershipID, c.PaymentID, c.RequestedAmount, c.ApprovedAmount, c.Reason,
		c.Bank.AccountNumber, c.Bank.BankName, c.Bank.HolderName,
		c.RefundRequested, c.RefundApproved, c.RefundReceived, c.PriorMembershipStatus, c.Status, c.AdminNotes, c.ProcessedBy,
		c.ApprovedAt, c.RejectedAt, c.TransferConfirmedAt, c.ReceivedAt, c.CreatedAt, c.UpdatedAt)
	return translate("insert cancellation request", err)
}

// Update rewrites the mutable workflow fields while the stored status is from.
func (r *cancellationRepo) Update(ctx context.Context, tx repository.Tx, c *model.CancellationRequest, from model.CancellationStatus) error {
	const q = `
UPDATE cancellation_requests SET
  approved_amount=$3, refund_approved=$4, refund_received=$5, status=$6, admin_notes=$7, processed_by=$8,
  approved_at=$9, rejected_at=$10, transfer_confirmed_at=$11, received_at=$12, updated_at=$13
 WHERE id=$1 AND status=$2;`
	tag, err := execSQL(ctx, r.pool, tx, q, c.ID, from,
		c.ApprovedAmount, c.RefundApproved, c.RefundReceived, c.Status, c.AdminNotes, c.ProcessedBy,
		c.ApprovedAt, c.RejectedAt, c.TransferConfirmedAt, c.ReceivedAt, c.UpdatedAt)
	if err != nil {
		return translate("update cancellation request", err)
	}
	return requireAffected(tag, "cancellation request")
}

func (r *cancellationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.CancellationRequest, error) {
	return r.findOne(ctx, tx, `SELECT `+cancellationColumns+` FROM cancellation_requests WHERE id=$1`, id)
}

func (r *cancellationRepo) FindPendingByMembership(ctx context.Context, tx repository.Tx, membershipID string) (*model.CancellationRequest, error) {
	return r.findOne(ctx, tx, `SELECT `+cancellationColumns+` FROM cancellation_requests WHERE membership_id=$1 AND status='pending'`, membershipID)
}

func (r *cancellationRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg any) (*model.CancellationRequest, error) {
	row, err := pickRow(ctx, r.pool, tx, lockRows(tx, q), arg)
	if err != nil {
		return nil, err
	}
	var c model.CancellationRequest
	err = row.Scan(&c.ID, &c.UserID, &c.MembershipID, &c.PaymentID, &c.RequestedAmount, &c.ApprovedAmount, &c.Reason,
		&c.Bank.AccountNumber, &c.Bank.BankName, &c.Bank.HolderName,
		&c.RefundRequested, &c.RefundApproved, &c.RefundReceived, &c.PriorMembershipStatus, &c.Status, &c.AdminNotes, &c.ProcessedBy,
		&c.ApprovedAt, &c.RejectedAt, &c.TransferConfirmedAt, &c.ReceivedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("cancellation request")
		}
		return nil, translate("find cancellation request", err)
	}
	return &c, nil
}
