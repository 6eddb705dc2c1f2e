package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Cyber-morocco/Skillsy/internal/catalog"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

// SnapshotVersion identifies snapshots read from the database.
const SnapshotVersion = "postgres"

// LoadSnapshot reads every concept and root category in catalog order.
// The snapshot is validated by catalog.New, not here.
func (db *DB) LoadSnapshot(ctx context.Context) (catalog.Snapshot, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, label, root_id, usage_count FROM skill_concepts ORDER BY position, id`)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to query skill concepts: %w", err)
	}
	concepts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.SkillConcept, error) {
		var c types.SkillConcept
		err := row.Scan(&c.ID, &c.Label, &c.RootID, &c.UsageCount)
		return c, err
	})
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to scan skill concepts: %w", err)
	}

	rows, err = db.pool.Query(ctx,
		`SELECT id, description FROM root_categories ORDER BY position, id`)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to query root categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.RootCategory, error) {
		var rc types.RootCategory
		err := row.Scan(&rc.ID, &rc.Description)
		return rc, err
	})
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to scan root categories: %w", err)
	}

	return catalog.Snapshot{
		Version:        SnapshotVersion,
		Concepts:       concepts,
		RootCategories: categories,
	}, nil
}

// ImportSnapshot replaces the stored catalog with snapshot in one transaction.
// Positions follow the snapshot order.
func (db *DB) ImportSnapshot(ctx context.Context, snapshot catalog.Snapshot) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM skill_concepts`); err != nil {
		return fmt.Errorf("failed to clear skill concepts: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM root_categories`); err != nil {
		return fmt.Errorf("failed to clear root categories: %w", err)
	}

	batch := &pgx.Batch{}
	for i, rc := range snapshot.RootCategories {
		batch.Queue(`INSERT INTO root_categories (id, description, position) VALUES ($1, $2, $3)`,
			rc.ID, rc.Description, i)
	}
	for i, c := range snapshot.Concepts {
		batch.Queue(`INSERT INTO skill_concepts (id, label, root_id, usage_count, position) VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.Label, c.RootID, c.UsageCount, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert catalog: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}
