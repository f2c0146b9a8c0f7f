package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) subscription.Repository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `s.id, s.user_id, s.name, s.price, s.currency,
	s.initial_payment_date, s.next_payment_date, s.payment_frequency, s.payment_method,
	s.status, s.url, s.notes, s.image_url, s.version, s.created_at, s.updated_at`

// Columns allowed in ORDER BY. Anything else falls back to name.
var sortColumns = map[string]string{
	"name":              "s.name",
	"price":             "s.price",
	"next_payment_date": "s.next_payment_date",
	"created_at":        "s.created_at",
}

func scanSubscription(row interface{ Scan(...interface{}) error }) (*subscription.Subscription, error) {
	var s subscription.Subscription
	var initial, next, createdAt, updatedAt string

	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Price, &s.Currency,
		&initial, &next, &s.PaymentFrequency, &s.PaymentMethod,
		&s.Status, &s.URL, &s.Notes, &s.ImageURL, &s.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.InitialPaymentDate, _ = time.Parse(subscription.DateLayout, initial)
	s.NextPaymentDate, _ = time.Parse(subscription.DateLayout, next)
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &s, nil
}

// attachLabels loads label associations for the given subscriptions in one
// query and fills in their Labels slices.
func (r *SubscriptionRepository) attachLabels(ctx context.Context, subs []*subscription.Subscription) error {
	if len(subs) == 0 {
		return nil
	}

	byID := make(map[int64]*subscription.Subscription, len(subs))
	placeholders := make([]string, 0, len(subs))
	args := make([]interface{}, 0, len(subs))
	for _, s := range subs {
		s.Labels = []*label.Label{}
		byID[s.ID] = s
		placeholders = append(placeholders, "?")
		args = append(args, s.ID)
	}

	query := fmt.Sprintf(`
		SELECT sl.subscription_id, %s
		FROM subscription_labels sl
		JOIN labels l ON l.id = sl.label_id
		WHERE sl.subscription_id IN (%s)
		ORDER BY l.name
	`, labelColumns, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.DatabaseError("Failed to load subscription labels", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subID int64
		var l label.Label
		var parentID sql.NullInt64
		var createdAt, updatedAt string
		err := rows.Scan(
			&subID,
			&l.ID, &l.UserID, &parentID, &l.Name, &l.Color, &l.SystemLabel, &l.Version, &createdAt, &updatedAt,
		)
		if err != nil {
			return errors.DatabaseError("Failed to scan subscription label", err)
		}
		if parentID.Valid {
			l.ParentID = &parentID.Int64
		}
		l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		if s, ok := byID[subID]; ok {
			s.Labels = append(s.Labels, &l)
		}
	}

	return rows.Err()
}

func insertLabels(ctx context.Context, tx *sql.Tx, subID int64, labelIDs []int64) error {
	for _, labelID := range labelIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO subscription_labels (subscription_id, label_id) VALUES (?, ?)",
			subID, labelID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) (int64, error) {
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.DatabaseError("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO subscriptions (user_id, name, price, currency, initial_payment_date,
			next_payment_date, payment_frequency, payment_method, status, url, notes,
			image_url, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		sub.UserID, sub.Name, sub.Price, sub.Currency,
		sub.InitialPaymentDate.Format(subscription.DateLayout),
		sub.NextPaymentDate.Format(subscription.DateLayout),
		sub.PaymentFrequency, sub.PaymentMethod, sub.Status,
		sub.URL, sub.Notes, sub.ImageURL,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to create subscription", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get subscription ID", err)
	}

	if err := insertLabels(ctx, tx, id, sub.LabelIDs()); err != nil {
		return 0, errors.DatabaseError("Failed to attach subscription labels", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.DatabaseError("Failed to commit transaction", err)
	}

	return id, nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, userID, id int64) (*subscription.Subscription, error) {
	query := "SELECT " + subscriptionColumns + " FROM subscriptions s WHERE s.user_id = ? AND s.id = ?"

	sub, err := scanSubscription(r.db.QueryRowContext(ctx, query, userID, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}

	if err := r.attachLabels(ctx, []*subscription.Subscription{sub}); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *SubscriptionRepository) FindByName(ctx context.Context, userID int64, name string) (*subscription.Subscription, error) {
	query := "SELECT " + subscriptionColumns + " FROM subscriptions s WHERE s.user_id = ? AND LOWER(s.name) = LOWER(?)"

	sub, err := scanSubscription(r.db.QueryRowContext(ctx, query, userID, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to find subscription by name", err)
	}
	return sub, nil
}

func (r *SubscriptionRepository) List(ctx context.Context, userID int64, filter subscription.Filter, sortBy, order string, limit, offset int) ([]*subscription.Subscription, int64, error) {
	where := []string{"s.user_id = ?"}
	args := []interface{}{userID}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		where = append(where, fmt.Sprintf("s.status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.Currency != "" {
		where = append(where, "s.currency = ?")
		args = append(args, strings.ToUpper(filter.Currency))
	}
	for _, labelID := range filter.LabelIDs {
		where = append(where, "EXISTS (SELECT 1 FROM subscription_labels sl WHERE sl.subscription_id = s.id AND sl.label_id = ?)")
		args = append(args, labelID)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM subscriptions s WHERE %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count subscriptions", err)
	}

	sortColumn, ok := sortColumns[sortBy]
	if !ok {
		sortColumn = "s.name"
	}
	direction := "ASC"
	if strings.EqualFold(order, "desc") {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM subscriptions s WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?",
		subscriptionColumns, whereClause, sortColumn, direction,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list subscriptions", err)
	}
	defer rows.Close()

	subs := make([]*subscription.Subscription, 0, limit)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan subscription", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to read subscriptions", err)
	}

	if err := r.attachLabels(ctx, subs); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *SubscriptionRepository) ListActive(ctx context.Context, userID int64) ([]*subscription.Subscription, error) {
	query := "SELECT " + subscriptionColumns + " FROM subscriptions s WHERE s.user_id = ? AND s.status = ? ORDER BY s.name"

	rows, err := r.db.QueryContext(ctx, query, userID, subscription.StatusActive)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list active subscriptions", err)
	}
	defer rows.Close()

	subs := make([]*subscription.Subscription, 0, 32)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan subscription", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *SubscriptionRepository) ListDue(ctx context.Context, before time.Time) ([]*subscription.Subscription, error) {
	query := "SELECT " + subscriptionColumns + " FROM subscriptions s WHERE s.status = ? AND s.next_payment_date < ? ORDER BY s.next_payment_date"

	rows, err := r.db.QueryContext(ctx, query, subscription.StatusActive, before.Format(subscription.DateLayout))
	if err != nil {
		return nil, errors.DatabaseError("Failed to list due subscriptions", err)
	}
	defer rows.Close()

	subs := make([]*subscription.Subscription, 0, 32)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan subscription", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Update writes the subscription guarded by its version, mirroring the label
// repository's conflict handling.
func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	sub.UpdatedAt = time.Now()

	query := `
		UPDATE subscriptions SET name = ?, price = ?, currency = ?, initial_payment_date = ?,
			next_payment_date = ?, payment_frequency = ?, payment_method = ?, status = ?,
			url = ?, notes = ?, image_url = ?, version = version + 1, updated_at = ?
		WHERE user_id = ? AND id = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		sub.Name, sub.Price, sub.Currency,
		sub.InitialPaymentDate.Format(subscription.DateLayout),
		sub.NextPaymentDate.Format(subscription.DateLayout),
		sub.PaymentFrequency, sub.PaymentMethod, sub.Status,
		sub.URL, sub.Notes, sub.ImageURL,
		sub.UpdatedAt.Format(time.RFC3339),
		sub.UserID, sub.ID, sub.Version,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update subscription", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, sub.UserID, sub.ID); err != nil {
			return err
		}
		return errors.Conflict("Subscription was modified concurrently")
	}

	sub.Version++
	return nil
}

func (r *SubscriptionRepository) ReplaceLabels(ctx context.Context, subID int64, labelIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM subscription_labels WHERE subscription_id = ?", subID); err != nil {
		return errors.DatabaseError("Failed to clear subscription labels", err)
	}

	if err := insertLabels(ctx, tx, subID, labelIDs); err != nil {
		return errors.DatabaseError("Failed to attach subscription labels", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit transaction", err)
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete subscription", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Subscription")
	}

	return nil
}
