package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// FlowRepo — репозиторий документов flow.
//
// Flow хранится целиком как JSONB документ: каталог всегда загружает
// flow целиком, частичных чтений нет.
type FlowRepo struct {
	pool *pgxpool.Pool
}

// NewFlowRepo создаёт новый FlowRepo.
func NewFlowRepo(pool *pgxpool.Pool) *FlowRepo {
	return &FlowRepo{pool: pool}
}

// Upsert сохраняет документ flow, заменяя существующий.
func (r *FlowRepo) Upsert(ctx context.Context, flow *domain.Flow) error {
	if flow == nil || flow.ID == "" {
		return fmt.Errorf("upsert flow: %w", ErrInvalidState)
	}

	document, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("marshal flow: %w", err)
	}

	query := `
		INSERT INTO flows (id, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, flow.ID, document); err != nil {
		return fmt.Errorf("upsert flow: %w", err)
	}
	return nil
}

// Get возвращает flow по ID.
func (r *FlowRepo) Get(ctx context.Context, id string) (*domain.Flow, error) {
	query := `
		SELECT document
		FROM flows
		WHERE id = $1
	`
	var document []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flow: %w", err)
	}

	return decodeFlow(id, document)
}

// List возвращает все flows.
func (r *FlowRepo) List(ctx context.Context) ([]*domain.Flow, error) {
	query := `
		SELECT id, document
		FROM flows
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	defer rows.Close()

	var flows []*domain.Flow
	for rows.Next() {
		var id string
		var document []byte
		if err := rows.Scan(&id, &document); err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}

		flow, err := decodeFlow(id, document)
		if err != nil {
			return nil, err
		}
		flows = append(flows, flow)
	}
	return flows, rows.Err()
}

// Delete удаляет flow.
func (r *FlowRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM flows WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete flow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// decodeFlow десериализует JSONB документ flow.
func decodeFlow(id string, document []byte) (*domain.Flow, error) {
	var flow domain.Flow
	if err := json.Unmarshal(document, &flow); err != nil {
		return nil, fmt.Errorf("unmarshal flow %s: %w", id, err)
	}
	flow.ID = id
	return &flow, nil
}
