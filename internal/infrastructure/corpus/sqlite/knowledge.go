package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

// SaveKnowledge appends validated interview records. All records of one
// answer land in a single transaction.
func (s *Store) SaveKnowledge(ctx context.Context, records []domain.KnowledgeRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting knowledge transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO knowledge_records
		(id, target_type, target_id, category, value, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing knowledge insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), string(r.TargetType), r.TargetID, r.Category, r.Value, r.Confidence, now,
		); err != nil {
			return fmt.Errorf("inserting knowledge record for %q: %w", r.TargetID, err)
		}
	}

	return tx.Commit()
}
