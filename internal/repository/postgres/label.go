package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
)

type LabelRepository struct {
	db *sql.DB
}

func NewLabelRepository(db *sql.DB) label.Repository {
	return &LabelRepository{db: db}
}

const labelColumns = "l.id, l.user_id, l.parent_id, l.name, l.color, l.system_label, l.version, l.created_at, l.updated_at"

// usageCount aggregates live association counts; it is never cached.
const usageCount = "(SELECT COUNT(*) FROM subscription_labels sl WHERE sl.label_id = l.id)"

func scanLabel(row interface{ Scan(...interface{}) error }, extra ...interface{}) (*label.Label, error) {
	var l label.Label
	var parentID sql.NullInt64
	var createdAt, updatedAt string

	dest := []interface{}{
		&l.ID, &l.UserID, &parentID, &l.Name, &l.Color, &l.SystemLabel, &l.Version, &createdAt, &updatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if parentID.Valid {
		l.ParentID = &parentID.Int64
	}
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &l, nil
}

func (r *LabelRepository) Create(ctx context.Context, l *label.Label) (int64, error) {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `
		INSERT INTO labels (user_id, parent_id, name, color, system_label, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		l.UserID, l.ParentID, l.Name, l.Color, l.SystemLabel,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to create label", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get label ID", err)
	}

	return id, nil
}

func (r *LabelRepository) GetByID(ctx context.Context, userID, id int64) (*label.Label, error) {
	query := "SELECT " + labelColumns + " FROM labels l WHERE l.user_id = ? AND l.id = ?"

	l, err := scanLabel(r.db.QueryRowContext(ctx, query, userID, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Label")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get label", err)
	}
	return l, nil
}

func (r *LabelRepository) GetByIDWithUsage(ctx context.Context, userID, id int64) (*label.WithUsage, error) {
	query := "SELECT " + labelColumns + ", " + usageCount + " FROM labels l WHERE l.user_id = ? AND l.id = ?"

	var usage int64
	l, err := scanLabel(r.db.QueryRowContext(ctx, query, userID, id), &usage)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Label")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get label", err)
	}
	return &label.WithUsage{Label: *l, UsageCount: usage}, nil
}

func (r *LabelRepository) FindByNameAndParent(ctx context.Context, userID int64, name string, parentID *int64) (*label.Label, error) {
	query := "SELECT " + labelColumns + " FROM labels l WHERE l.user_id = ? AND LOWER(l.name) = LOWER(?)"
	args := []interface{}{userID, name}

	if parentID == nil {
		query += " AND l.parent_id IS NULL"
	} else {
		query += " AND l.parent_id = ?"
		args = append(args, *parentID)
	}

	l, err := scanLabel(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to find label by name", err)
	}
	return l, nil
}

func filterClause(filter label.Filter) (string, []interface{}) {
	if filter.RootOnly {
		return " AND l.parent_id IS NULL", nil
	}
	if filter.ParentID != nil {
		return " AND l.parent_id = ?", []interface{}{*filter.ParentID}
	}
	return "", nil
}

func (r *LabelRepository) ListByUser(ctx context.Context, userID int64, filter label.Filter) ([]*label.Label, error) {
	clause, extra := filterClause(filter)
	query := fmt.Sprintf(
		"SELECT %s FROM labels l WHERE l.user_id = ?%s ORDER BY l.parent_id IS NULL DESC, l.name",
		labelColumns, clause,
	)
	args := append([]interface{}{userID}, extra...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list labels", err)
	}
	defer rows.Close()

	labels := make([]*label.Label, 0, 32)
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan label", err)
		}
		labels = append(labels, l)
	}

	return labels, rows.Err()
}

func (r *LabelRepository) ListByUserWithUsage(ctx context.Context, userID int64, filter label.Filter) ([]*label.WithUsage, error) {
	clause, extra := filterClause(filter)
	query := fmt.Sprintf(
		"SELECT %s, %s FROM labels l WHERE l.user_id = ?%s ORDER BY l.parent_id IS NULL DESC, l.name",
		labelColumns, usageCount, clause,
	)
	args := append([]interface{}{userID}, extra...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list labels", err)
	}
	defer rows.Close()

	labels := make([]*label.WithUsage, 0, 32)
	for rows.Next() {
		var usage int64
		l, err := scanLabel(rows, &usage)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan label", err)
		}
		labels = append(labels, &label.WithUsage{Label: *l, UsageCount: usage})
	}

	return labels, rows.Err()
}

// Update writes the label guarded by its version. Zero affected rows means
// either the row is gone or another writer got there first; a follow-up
// existence probe tells the two apart.
func (r *LabelRepository) Update(ctx context.Context, l *label.Label) error {
	l.UpdatedAt = time.Now()

	query := `
		UPDATE labels SET parent_id = ?, name = ?, color = ?, version = version + 1, updated_at = ?
		WHERE user_id = ? AND id = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		l.ParentID, l.Name, l.Color, l.UpdatedAt.Format(time.RFC3339),
		l.UserID, l.ID, l.Version,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update label", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, l.UserID, l.ID); err != nil {
			return err
		}
		return errors.Conflict("Label was modified concurrently")
	}

	l.Version++
	return nil
}

func (r *LabelRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM labels WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete label", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Label")
	}

	return nil
}
