package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
	"couplecall/pkg/sqlite"
)

const _sqliteSchema = `
	CREATE TABLE IF NOT EXISTS calls (
		couple_id         TEXT PRIMARY KEY,
		call_id           TEXT NOT NULL,
		caller_id         TEXT NOT NULL,
		kind              TEXT NOT NULL,
		status            TEXT NOT NULL,
		started_at        INTEGER NOT NULL,
		offer             TEXT,
		answer            TEXT,
		caller_candidates TEXT NOT NULL DEFAULT '[]',
		callee_candidates TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS calls_status_started ON calls (status, started_at);
`

// CallSQLite stores call records in sqlite. Candidate lists are JSON arrays of strings
// appended in place with the JSON1 functions.
type CallSQLite struct {
	*sqlite.SQLite
}

var _ usecase.CallRepo = (*CallSQLite)(nil)

// NewCallSQLite -.
func NewCallSQLite(db *sqlite.SQLite) (*CallSQLite, error) {
	if _, err := db.DB.Exec(_sqliteSchema); err != nil {
		return nil, fmt.Errorf("CallSQLite - NewCallSQLite - create calls table: %w", err)
	}

	return &CallSQLite{db}, nil
}

// Get -.
func (r *CallSQLite) Get(ctx context.Context, coupleID string) (*entity.CallRecord, error) {
	query, args, err := r.Builder.
		Select(_callColumns...).
		From(_callsTable).
		Where(squirrel.Eq{"couple_id": coupleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CallSQLite - Get - r.Builder: %w", err)
	}

	var (
		rec                           entity.CallRecord
		kind, status                  string
		startedAt                     int64
		offer, answer                 sql.NullString
		callerCandidates, calleeCands string
	)

	err = r.DB.QueryRowContext(ctx, query, args...).Scan(
		&rec.CoupleID, &rec.CallID, &rec.CallerID, &kind, &status, &startedAt,
		&offer, &answer, &callerCandidates, &calleeCands,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("CallSQLite - Get - row.Scan: %w", err)
	}

	rec.Kind = entity.CallKind(kind)
	rec.Status = entity.CallStatus(status)
	rec.StartedAt = time.Unix(0, startedAt).UTC()
	rec.Offer = offer.String
	rec.Answer = answer.String

	if rec.CallerCandidates, err = decodeCandidates(callerCandidates); err != nil {
		return nil, fmt.Errorf("CallSQLite - Get - caller candidates: %w", err)
	}

	if rec.CalleeCandidates, err = decodeCandidates(calleeCands); err != nil {
		return nil, fmt.Errorf("CallSQLite - Get - callee candidates: %w", err)
	}

	return &rec, nil
}

// Create inserts the record if the couple has none and returns what is stored.
func (r *CallSQLite) Create(ctx context.Context, rec entity.CallRecord) (entity.CallRecord, bool, error) {
	query, args, err := r.Builder.
		Insert(_callsTable).
		Columns(_callColumns...).
		Values(
			rec.CoupleID, rec.CallID, rec.CallerID, string(rec.Kind), string(rec.Status),
			rec.StartedAt.UnixNano(), nullString(rec.Offer), nullString(rec.Answer),
			encodeCandidates(rec.CallerCandidates), encodeCandidates(rec.CalleeCandidates),
		).
		Suffix("ON CONFLICT (couple_id) DO NOTHING").
		ToSql()
	if err != nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallSQLite - Create - r.Builder: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallSQLite - Create - r.DB.ExecContext: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallSQLite - Create - res.RowsAffected: %w", err)
	}

	stored, err := r.Get(ctx, rec.CoupleID)
	if err != nil {
		return entity.CallRecord{}, false, err
	}

	if stored == nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallSQLite - Create: %w: ended while starting", usecase.ErrNoCall)
	}

	return *stored, n == 1, nil
}

// SetOffer -.
func (r *CallSQLite) SetOffer(ctx context.Context, coupleID, callID, sdp string) error {
	return r.writeOnce(ctx, "offer", coupleID, callID, sdp)
}

// SetAnswer -.
func (r *CallSQLite) SetAnswer(ctx context.Context, coupleID, callID, sdp string) error {
	return r.writeOnce(ctx, "answer", coupleID, callID, sdp)
}

// AppendCandidate -.
func (r *CallSQLite) AppendCandidate(ctx context.Context, coupleID, callID string, role entity.Role, c entity.Candidate) error {
	col, err := candidateColumn(role)
	if err != nil {
		return err
	}

	query, args, err := r.Builder.
		Update(_callsTable).
		Set(col, squirrel.Expr(fmt.Sprintf("json_insert(%s, '$[#]', ?)", col), string(c))).
		Where(squirrel.Eq{"couple_id": coupleID, "call_id": callID}).
		Where(fmt.Sprintf("NOT EXISTS (SELECT 1 FROM json_each(calls.%s) WHERE json_each.value = ?)", col), string(c)).
		ToSql()
	if err != nil {
		return fmt.Errorf("CallSQLite - AppendCandidate - r.Builder: %w", err)
	}

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CallSQLite - AppendCandidate - r.exec: %w", err)
	}

	if n == 0 {
		// Either the call is gone or the candidate was already there.
		return r.checkCall(ctx, coupleID, callID, nil)
	}

	return nil
}

// SetStatus -.
func (r *CallSQLite) SetStatus(ctx context.Context, coupleID, callID string, status entity.CallStatus) error {
	query, args, err := r.Builder.
		Update(_callsTable).
		Set("status", string(status)).
		Where(squirrel.Eq{"couple_id": coupleID, "call_id": callID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CallSQLite - SetStatus - r.Builder: %w", err)
	}

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CallSQLite - SetStatus - r.exec: %w", err)
	}

	if n == 0 {
		return usecase.ErrNoCall
	}

	return nil
}

// Delete -.
func (r *CallSQLite) Delete(ctx context.Context, coupleID string) (bool, error) {
	query, args, err := r.Builder.
		Delete(_callsTable).
		Where(squirrel.Eq{"couple_id": coupleID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("CallSQLite - Delete - r.Builder: %w", err)
	}

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("CallSQLite - Delete - r.exec: %w", err)
	}

	return n > 0, nil
}

// DeleteRingingBefore -.
func (r *CallSQLite) DeleteRingingBefore(ctx context.Context, cutoff time.Time) ([]usecase.ExpiredCall, error) {
	query, args, err := r.Builder.
		Delete(_callsTable).
		Where(squirrel.Eq{"status": string(entity.StatusRinging)}).
		Where(squirrel.Lt{"started_at": cutoff.UnixNano()}).
		Suffix("RETURNING couple_id, call_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CallSQLite - DeleteRingingBefore - r.Builder: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("CallSQLite - DeleteRingingBefore - r.DB.QueryContext: %w", err)
	}
	defer rows.Close()

	var expired []usecase.ExpiredCall

	for rows.Next() {
		var e usecase.ExpiredCall
		if err = rows.Scan(&e.CoupleID, &e.CallID); err != nil {
			return nil, fmt.Errorf("CallSQLite - DeleteRingingBefore - rows.Scan: %w", err)
		}

		expired = append(expired, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("CallSQLite - DeleteRingingBefore - rows.Err: %w", err)
	}

	sort.Slice(expired, func(i, j int) bool { return expired[i].CoupleID < expired[j].CoupleID })

	return expired, nil
}

func (r *CallSQLite) writeOnce(ctx context.Context, col, coupleID, callID, v string) error {
	query, args, err := r.Builder.
		Update(_callsTable).
		Set(col, v).
		Where(squirrel.Eq{"couple_id": coupleID, "call_id": callID}).
		Where(squirrel.Or{squirrel.Eq{col: nil}, squirrel.Eq{col: v}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CallSQLite - writeOnce - r.Builder: %w", err)
	}

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CallSQLite - writeOnce %s - r.exec: %w", col, err)
	}

	if n == 0 {
		return r.checkCall(ctx, coupleID, callID, usecase.ErrConflict)
	}

	return nil
}

// checkCall explains a write that touched no row: ErrNoCall when the call is gone,
// otherwise ifPresent.
func (r *CallSQLite) checkCall(ctx context.Context, coupleID, callID string, ifPresent error) error {
	rec, err := r.Get(ctx, coupleID)
	if err != nil {
		return err
	}

	if rec == nil || rec.CallID != callID {
		return usecase.ErrNoCall
	}

	return ifPresent
}

func (r *CallSQLite) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func encodeCandidates(list []entity.Candidate) string {
	if len(list) == 0 {
		return "[]"
	}

	b, _ := json.Marshal(list)

	return string(b)
}

func decodeCandidates(s string) ([]entity.Candidate, error) {
	list := []entity.Candidate{}
	if s == "" {
		return list, nil
	}

	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, err
	}

	return list, nil
}
