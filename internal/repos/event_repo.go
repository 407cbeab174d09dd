package repos

import (
	"encoding/json"

	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type EventRepo struct{ db *sqlx.DB }

func NewEventRepo(db *sqlx.DB) *EventRepo { return &EventRepo{db: db} }

// AppendTx writes an event inside the caller's transaction so the event
// becomes durable in the same commit as the state change it describes.
func (r *EventRepo) AppendTx(tx *sqlx.Tx, kind string, payload any) (int64, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	res, err := tx.Exec(`
	  INSERT INTO events(kind, payload, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	`, kind, string(b))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Since returns committed events with seq > after, oldest first.
func (r *EventRepo) Since(after int64, limit int) ([]domain.Event, error) {
	var out []domain.Event
	err := r.db.Select(&out, `
	  SELECT seq, kind, payload, COALESCE(created_at,'') AS created_at
	  FROM events
	  WHERE seq > ?
	  ORDER BY seq
	  LIMIT ?
	`, after, limit)
	return out, err
}

// SinceKind is Since filtered to a single event kind.
func (r *EventRepo) SinceKind(kind string, after int64, limit int) ([]domain.Event, error) {
	var out []domain.Event
	err := r.db.Select(&out, `
	  SELECT seq, kind, payload, COALESCE(created_at,'') AS created_at
	  FROM events
	  WHERE kind = ? AND seq > ?
	  ORDER BY seq
	  LIMIT ?
	`, kind, after, limit)
	return out, err
}
