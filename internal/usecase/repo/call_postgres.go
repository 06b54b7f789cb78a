package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
	"couplecall/pkg/postgres"
)

// CallPostgres stores call records in postgres. The schema comes from migrations/.
type CallPostgres struct {
	*postgres.Postgres
}

var _ usecase.CallRepo = (*CallPostgres)(nil)

// NewCallPostgres -.
func NewCallPostgres(pg *postgres.Postgres) *CallPostgres {
	return &CallPostgres{pg}
}

// Get -.
func (r *CallPostgres) Get(ctx context.Context, coupleID string) (*entity.CallRecord, error) {
	query, args, err := r.Builder.
		Select(
			"couple_id", "call_id", "caller_id", "kind", "status", "started_at",
			"offer", "answer", "caller_candidates::text", "callee_candidates::text",
		).
		From(_callsTable).
		Where(squirrel.Eq{"couple_id": coupleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CallPostgres - Get - r.Builder: %w", err)
	}

	var (
		rec                           entity.CallRecord
		kind, status                  string
		offer, answer                 *string
		callerCandidates, calleeCands string
	)

	err = r.Pool.QueryRow(ctx, query, args...).Scan(
		&rec.CoupleID, &rec.CallID, &rec.CallerID, &kind, &status, &rec.StartedAt,
		&offer, &answer, &callerCandidates, &calleeCands,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("CallPostgres - Get - row.Scan: %w", err)
	}

	rec.Kind = entity.CallKind(kind)
	rec.Status = entity.CallStatus(status)
	rec.StartedAt = rec.StartedAt.UTC()

	if offer != nil {
		rec.Offer = *offer
	}

	if answer != nil {
		rec.Answer = *answer
	}

	if rec.CallerCandidates, err = decodeCandidates(callerCandidates); err != nil {
		return nil, fmt.Errorf("CallPostgres - Get - caller candidates: %w", err)
	}

	if rec.CalleeCandidates, err = decodeCandidates(calleeCands); err != nil {
		return nil, fmt.Errorf("CallPostgres - Get - callee candidates: %w", err)
	}

	return &rec, nil
}

// Create -.
func (r *CallPostgres) Create(ctx context.Context, rec entity.CallRecord) (entity.CallRecord, bool, error) {
	query, args, err := r.Builder.
		Insert(_callsTable).
		Columns(_callColumns...).
		Values(
			rec.CoupleID, rec.CallID, rec.CallerID, string(rec.Kind), string(rec.Status),
			rec.StartedAt, optional(rec.Offer), optional(rec.Answer),
			squirrel.Expr("?::jsonb", encodeCandidates(rec.CallerCandidates)),
			squirrel.Expr("?::jsonb", encodeCandidates(rec.CalleeCandidates)),
		).
		Suffix("ON CONFLICT (couple_id) DO NOTHING").
		ToSql()
	if err != nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallPostgres - Create - r.Builder: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallPostgres - Create - r.Pool.Exec: %w", err)
	}

	stored, err := r.Get(ctx, rec.CoupleID)
	if err != nil {
		return entity.CallRecord{}, false, err
	}

	if stored == nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallPostgres - Create: %w: ended while starting", usecase.ErrNoCall)
	}

	return *stored, tag.RowsAffected() == 1, nil
}

// SetOffer -.
func (r *CallPostgres) SetOffer(ctx context.Context, coupleID, callID, sdp string) error {
	return r.writeOnce(ctx, "offer", coupleID, callID, sdp)
}

// SetAnswer -.
func (r *CallPostgres) SetAnswer(ctx context.Context, coupleID, callID, sdp string) error {
	return r.writeOnce(ctx, "answer", coupleID, callID, sdp)
}

// AppendCandidate -.
func (r *CallPostgres) AppendCandidate(ctx context.Context, coupleID, callID string, role entity.Role, c entity.Candidate) error {
	col, err := candidateColumn(role)
	if err != nil {
		return err
	}

	query, args, err := r.Builder.
		Update(_callsTable).
		Set(col, squirrel.Expr(col+" || jsonb_build_array(?::text)", string(c))).
		Where(squirrel.Eq{"couple_id": coupleID, "call_id": callID}).
		Where("NOT ("+col+" @> jsonb_build_array(?::text))", string(c)).
		ToSql()
	if err != nil {
		return fmt.Errorf("CallPostgres - AppendCandidate - r.Builder: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CallPostgres - AppendCandidate - r.Pool.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.checkCall(ctx, coupleID, callID, nil)
	}

	return nil
}

// SetStatus -.
func (r *CallPostgres) SetStatus(ctx context.Context, coupleID, callID string, status entity.CallStatus) error {
	query, args, err := r.Builder.
		Update(_callsTable).
		Set("status", string(status)).
		Where(squirrel.Eq{"couple_id": coupleID, "call_id": callID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CallPostgres - SetStatus - r.Builder: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CallPostgres - SetStatus - r.Pool.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return usecase.ErrNoCall
	}

	return nil
}

// Delete -.
func (r *CallPostgres) Delete(ctx context.Context, coupleID string) (bool, error) {
	query, args, err := r.Builder.
		Delete(_callsTable).
		Where(squirrel.Eq{"couple_id": coupleID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("CallPostgres - Delete - r.Builder: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("CallPostgres - Delete - r.Pool.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteRingingBefore -.
func (r *CallPostgres) DeleteRingingBefore(ctx context.Context, cutoff time.Time) ([]usecase.ExpiredCall, error) {
	query, args, err := r.Builder.
		Delete(_callsTable).
		Where(squirrel.Eq{"status": string(entity.StatusRinging)}).
		Where(squirrel.Lt{"started_at": cutoff}).
		Suffix("RETURNING couple_id, call_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CallPostgres - DeleteRingingBefore - r.Builder: %w", err)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("CallPostgres - DeleteRingingBefore - r.Pool.Query: %w", err)
	}
	defer rows.Close()

	var expired []usecase.ExpiredCall

	for rows.Next() {
		var e usecase.ExpiredCall
		if err = rows.Scan(&e.CoupleID, &e.CallID); err != nil {
			return nil, fmt.Errorf("CallPostgres - DeleteRingingBefore - rows.Scan: %w", err)
		}

		expired = append(expired, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("CallPostgres - DeleteRingingBefore - rows.Err: %w", err)
	}

	sort.Slice(expired, func(i, j int) bool { return expired[i].CoupleID < expired[j].CoupleID })

	return expired, nil
}

func (r *CallPostgres) writeOnce(ctx context.Context, col, coupleID, callID, v string) error {
	query, args, err := r.Builder.
		Update(_callsTable).
		Set(col, v).
		Where(squirrel.Eq{"couple_id": coupleID, "call_id": callID}).
		Where(squirrel.Or{squirrel.Eq{col: nil}, squirrel.Eq{col: v}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CallPostgres - writeOnce - r.Builder: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CallPostgres - writeOnce %s - r.Pool.Exec: %w", col, err)
	}

	if tag.RowsAffected() == 0 {
		return r.checkCall(ctx, coupleID, callID, usecase.ErrConflict)
	}

	return nil
}

func (r *CallPostgres) checkCall(ctx context.Context, coupleID, callID string, ifPresent error) error {
	rec, err := r.Get(ctx, coupleID)
	if err != nil {
		return err
	}

	if rec == nil || rec.CallID != callID {
		return usecase.ErrNoCall
	}

	return ifPresent
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
