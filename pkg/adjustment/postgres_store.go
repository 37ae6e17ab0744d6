package adjustment

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var postgresColumns = []string{
	"position",
	"uid",
	"timestamp",
	"center_name",
	"child_name",
	"adjustment_amount",
	"note",
	"pulling_instruction",
	"pulling_category",
	"start_date",
	"end_date",
	"recurring",
	"child_status",
	"family_status",
	"billing_cycle",
}

// PostgresStore keeps the table in the adjustment relation. Row order is kept in the
// position column.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) ([]Record, error) {
	query := `SELECT uid, timestamp, center_name, child_name, adjustment_amount, note, pulling_instruction,
				pulling_category, start_date, end_date, recurring, child_status, family_status, billing_cycle
				FROM adjustment ORDER BY position`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		log.Errorf("failed to load adjustments: %v", err)
		return nil, &StorageError{Op: "load", Err: err}
	}
	defer rows.Close()

	records := make([]Record, 0, 64)
	for rows.Next() {
		var r Record
		err := rows.Scan(
			&r.UID,
			&r.Timestamp,
			&r.CenterName,
			&r.ChildName,
			&r.AdjustmentAmount,
			&r.Note,
			&r.PullingInstruction,
			&r.PullingCategory,
			&r.StartDate,
			&r.EndDate,
			&r.Recurring,
			&r.ChildStatus,
			&r.FamilyStatus,
			&r.BillingCycle,
		)
		if err != nil {
			log.Errorf("failed to scan adjustment: %v", err)
			return nil, &StorageError{Op: "load", Err: err}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over rows: %v", err)
		return nil, &StorageError{Op: "load", Err: err}
	}
	return records, nil
}

// Save replaces the whole table inside one transaction.
func (s *PostgresStore) Save(ctx context.Context, records []Record) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM adjustment`); err != nil {
		log.Errorf("failed to clear adjustments: %v", err)
		return &StorageError{Op: "save", Err: err}
	}

	rows := make([][]any, 0, len(records))
	for i, r := range records {
		rows = append(rows, []any{
			i,
			r.UID,
			r.Timestamp,
			r.CenterName,
			r.ChildName,
			r.AdjustmentAmount,
			r.Note,
			r.PullingInstruction,
			r.PullingCategory,
			r.StartDate,
			r.EndDate,
			r.Recurring,
			r.ChildStatus,
			r.FamilyStatus,
			r.BillingCycle,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"adjustment"}, postgresColumns, pgx.CopyFromRows(rows)); err != nil {
		log.Errorf("failed to copy adjustments: %v", err)
		return &StorageError{Op: "save", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}
