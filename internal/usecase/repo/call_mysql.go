package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
	"couplecall/pkg/mysql"
)

const _mysqlSchema = `
	CREATE TABLE IF NOT EXISTS calls (
		couple_id         VARCHAR(191) NOT NULL PRIMARY KEY,
		call_id           VARCHAR(64)  NOT NULL,
		caller_id         VARCHAR(191) NOT NULL,
		kind              VARCHAR(16)  NOT NULL,
		status            VARCHAR(16)  NOT NULL,
		started_at        BIGINT       NOT NULL,
		offer             MEDIUMTEXT   NULL,
		answer            MEDIUMTEXT   NULL,
		caller_candidates JSON         NOT NULL,
		callee_candidates JSON         NOT NULL,
		INDEX calls_status_started (status, started_at)
	)`

type mysqlCallRow struct {
	CoupleID         string         `db:"couple_id"`
	CallID           string         `db:"call_id"`
	CallerID         string         `db:"caller_id"`
	Kind             string         `db:"kind"`
	Status           string         `db:"status"`
	StartedAt        int64          `db:"started_at"`
	Offer            sql.NullString `db:"offer"`
	Answer           sql.NullString `db:"answer"`
	CallerCandidates string         `db:"caller_candidates"`
	CalleeCandidates string         `db:"callee_candidates"`
}

type mysqlExpiredRow struct {
	CoupleID string `db:"couple_id"`
	CallID   string `db:"call_id"`
}

// CallMySQL stores call records in MySQL. Candidate lists are JSON columns appended in place.
type CallMySQL struct {
	*mysql.Mysql
}

var _ usecase.CallRepo = (*CallMySQL)(nil)

// NewCallMySQL -.
func NewCallMySQL(db *mysql.Mysql) (*CallMySQL, error) {
	if _, err := db.DB.Exec(_mysqlSchema); err != nil {
		return nil, fmt.Errorf("CallMySQL - NewCallMySQL - create calls table: %w", err)
	}

	return &CallMySQL{db}, nil
}

// Get -.
func (r *CallMySQL) Get(ctx context.Context, coupleID string) (*entity.CallRecord, error) {
	query, args, err := r.Builder.
		Select(_callColumns...).
		From(_callsTable).
		Where(squirrel.Eq{"couple_id": coupleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CallMySQL - Get - r.Builder: %w", err)
	}

	var row mysqlCallRow

	err = r.DB.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("CallMySQL - Get - r.DB.GetContext: %w", err)
	}

	rec := entity.CallRecord{
		CallID:    row.CallID,
		CoupleID:  row.CoupleID,
		CallerID:  row.CallerID,
		Kind:      entity.CallKind(row.Kind),
		Status:    entity.CallStatus(row.Status),
		StartedAt: time.Unix(0, row.StartedAt).UTC(),
		Offer:     row.Offer.String,
		Answer:    row.Answer.String,
	}

	if rec.CallerCandidates, err = decodeCandidates(row.CallerCandidates); err != nil {
		return nil, fmt.Errorf("CallMySQL - Get - caller candidates: %w", err)
	}

	if rec.CalleeCandidates, err = decodeCandidates(row.CalleeCandidates); err != nil {
		return nil, fmt.Errorf("CallMySQL - Get - callee candidates: %w", err)
	}

	return &rec, nil
}

// Create inserts the record if the couple has none and returns what is stored.
func (r *CallMySQL) Create(ctx context.Context, rec entity.CallRecord) (entity.CallRecord, bool, error) {
	query, args, err := r.Builder.
		Insert(_callsTable).
		Options("IGNORE").
		Columns(_callColumns...).
		Values(
			rec.CoupleID, rec.CallID, rec.CallerID, string(rec.Kind), string(rec.Status),
			rec.StartedAt.UnixNano(), nullString(rec.Offer), nullString(rec.Answer),
			encodeCandidates(rec.CallerCandidates), encodeCandidates(rec.CalleeCandidates),
		).
		ToSql()
	if err != nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallMySQL - Create - r.Builder: %w", err)
	}

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallMySQL - Create - r.exec: %w", err)
	}

	stored, err := r.Get(ctx, rec.CoupleID)
	if err != nil {
		return entity.CallRecord{}, false, err
	}

	if stored == nil {
		return entity.CallRecord{}, false, fmt.Errorf("CallMySQL - Create: %w: ended while starting", usecase.ErrNoCall)
	}

	return *stored, n == 1, nil
}

// SetOffer -.
func (r *CallMySQL) SetOffer(ctx context.Context, coupleID, callID, sdp string) error {
	return r.writeOnce(ctx, "offer", coupleID, callID, sdp)
}

// SetAnswer -.
func (r *CallMySQL) SetAnswer(ctx context.Context, coupleID, callID, sdp string) error {
	return r.writeOnce(ctx, "answer", coupleID, callID, sdp)
}

// AppendCandidate -.
func (r *CallMySQL) AppendCandidate(ctx context.Context, coupleID, callID string, role entity.Role, c entity.Candidate) error {
	col, err := candidateColumn(role)
	if err != nil {
		return err
	}

	query, args, err := r.Builder.
		Update(_callsTable).
		Set(col, squirrel.Expr(fmt.Sprintf("JSON_ARRAY_APPEND(%s, '$', ?)", col), string(c))).
		Where(squirrel.Eq{"couple_id": coupleID, "call_id": callID}).
		Where(fmt.Sprintf("NOT JSON_CONTAINS(%s, JSON_QUOTE(?))", col), string(c)).
		ToSql()
	if err != nil {
		return fmt.Errorf("CallMySQL - AppendCandidate - r.Builder: %w", err)
	}

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CallMySQL - AppendCandidate - r.exec: %w", err)
	}

	if n == 0 {
		return r.checkCall(ctx, coupleID, callID, nil)
	}

	return nil
}

// SetStatus -.
func (r *CallMySQL) SetStatus(ctx context.Context, coupleID, callID string, status entity.CallStatus) error {
	query, args, err := r.Builder.
		Update(_callsTable).
		Set("status", string(status)).
		Where(squirrel.Eq{"couple_id": coupleID, "call_id": callID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CallMySQL - SetStatus - r.Builder: %w", err)
	}

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CallMySQL - SetStatus - r.exec: %w", err)
	}

	if n == 0 {
		return usecase.ErrNoCall
	}

	return nil
}

// Delete -.
func (r *CallMySQL) Delete(ctx context.Context, coupleID string) (bool, error) {
	query, args, err := r.Builder.
		Delete(_callsTable).
		Where(squirrel.Eq{"couple_id": coupleID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("CallMySQL - Delete - r.Builder: %w", err)
	}

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("CallMySQL - Delete - r.exec: %w", err)
	}

	return n > 0, nil
}

// DeleteRingingBefore locks the expired rows, then deletes exactly those.
func (r *CallMySQL) DeleteRingingBefore(ctx context.Context, cutoff time.Time) ([]usecase.ExpiredCall, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("CallMySQL - DeleteRingingBefore - r.DB.BeginTxx: %w", err)
	}
	defer tx.Rollback()

	query, args, err := r.Builder.
		Select("couple_id", "call_id").
		From(_callsTable).
		Where(squirrel.Eq{"status": string(entity.StatusRinging)}).
		Where(squirrel.Lt{"started_at": cutoff.UnixNano()}).
		OrderBy("couple_id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CallMySQL - DeleteRingingBefore - select - r.Builder: %w", err)
	}

	var rows []mysqlExpiredRow
	if err = tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("CallMySQL - DeleteRingingBefore - tx.SelectContext: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	expired := make([]usecase.ExpiredCall, 0, len(rows))
	couples := make([]string, 0, len(rows))

	for _, row := range rows {
		expired = append(expired, usecase.ExpiredCall{CoupleID: row.CoupleID, CallID: row.CallID})
		couples = append(couples, row.CoupleID)
	}

	query, args, err = r.Builder.
		Delete(_callsTable).
		Where(squirrel.Eq{"couple_id": couples}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CallMySQL - DeleteRingingBefore - delete - r.Builder: %w", err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("CallMySQL - DeleteRingingBefore - tx.ExecContext: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("CallMySQL - DeleteRingingBefore - tx.Commit: %w", err)
	}

	sort.Slice(expired, func(i, j int) bool { return expired[i].CoupleID < expired[j].CoupleID })

	return expired, nil
}

func (r *CallMySQL) writeOnce(ctx context.Context, col, coupleID, callID, v string) error {
	query, args, err := r.Builder.
		Update(_callsTable).
		Set(col, v).
		Where(squirrel.Eq{"couple_id": coupleID, "call_id": callID}).
		Where(squirrel.Or{squirrel.Eq{col: nil}, squirrel.Eq{col: v}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CallMySQL - writeOnce - r.Builder: %w", err)
	}

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CallMySQL - writeOnce %s - r.exec: %w", col, err)
	}

	if n == 0 {
		return r.checkCall(ctx, coupleID, callID, usecase.ErrConflict)
	}

	return nil
}

func (r *CallMySQL) checkCall(ctx context.Context, coupleID, callID string, ifPresent error) error {
	rec, err := r.Get(ctx, coupleID)
	if err != nil {
		return err
	}

	if rec == nil || rec.CallID != callID {
		return usecase.ErrNoCall
	}

	return ifPresent
}

func (r *CallMySQL) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
