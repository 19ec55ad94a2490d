package proposals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/dbx"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Proposal) (*models.Proposal, error) {
	query :=
		`INSERT INTO proposals (id, sender_id, sender_name, recipient_name, letter, status, ring_model_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.SenderID, p.SenderName, p.RecipientName, p.Letter, p.Status, p.RingModelKey, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	query :=
		`SELECT id, sender_id, sender_name, recipient_name, letter, status, ring_model_key, created_at, responded_at
		 FROM proposals
		 WHERE id = $1`

	p := &models.Proposal{}
	var respondedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.SenderID, &p.SenderName, &p.RecipientName, &p.Letter,
		&p.Status, &p.RingModelKey, &p.CreatedAt, &respondedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if respondedAt.Valid {
		t := respondedAt.Time
		p.RespondedAt = &t
	}

	return p, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	query :=
		`UPDATE proposals SET status = $3, responded_at = $4
		 WHERE id = $1 AND status = $2`

	return r.execOne(ctx, query, id, from, to, at)
}

func (r *PostgresRepository) SetRingModelKey(ctx context.Context, id, key string) error {
	return r.execOne(ctx, `UPDATE proposals SET ring_model_key = $2 WHERE id = $1`, id, key)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM proposals WHERE id = $1`, id)
}

// execOne runs a statement expected to touch exactly one row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
