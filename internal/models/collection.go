package models

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// CollectionSummary is a stored collection and its card count.
type CollectionSummary struct {
	Name      string `json:"name"`
	Position  int64  `json:"position"`
	CardCount int64  `json:"card_count"`
}

// ReplaceCollection stores cards under name, replacing any previous contents.
// Position controls listing order. Deleting first means the name can never
// collide, and the cascade drops the old cards.
func ReplaceCollection(ctx context.Context, db *sql.DB, name string, position int64, cards []Card) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete collection %s: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO collections(name, position) VALUES (?, ?)`, name, position)
	if err != nil {
		return fmt.Errorf("insert collection %s: %w", name, err)
	}
	collectionID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cards(collection_id, position, front, back_json) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare card insert: %w", err)
	}
	defer stmt.Close()
	for i, c := range cards {
		back, err := json.Marshal(c.Back)
		if err != nil {
			return fmt.Errorf("marshal back of card %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, collectionID, i, c.Front, string(back)); err != nil {
			return fmt.Errorf("insert card %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func ListCollections(ctx context.Context, db *sql.DB) ([]CollectionSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.name, c.position, COUNT(k.id)
		FROM collections c
		LEFT JOIN cards k ON k.collection_id = c.id
		GROUP BY c.id
		ORDER BY c.position, c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CollectionSummary
	for rows.Next() {
		var s CollectionSummary
		if err := rows.Scan(&s.Name, &s.Position, &s.CardCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListCards returns the cards of a collection in stored order.
// Returns ErrNotFound when the collection does not exist.
func ListCards(ctx context.Context, db *sql.DB, name string) ([]Card, error) {
	var collectionID int64
	err := db.QueryRowContext(ctx, `SELECT id FROM collections WHERE name = ?`, name).Scan(&collectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT front, back_json FROM cards WHERE collection_id = ? ORDER BY position`, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []Card{}
	for rows.Next() {
		var (
			c    Card
			back string
		)
		if err := rows.Scan(&c.Front, &back); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(back), &c.Back); err != nil {
			return nil, fmt.Errorf("decode back of %s card: %w", name, err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
