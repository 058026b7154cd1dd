package repository

import (
    "database/sql"
    "time"
)

// SyncEventRepository archives forwarded sync and incident events into
// the sync_events audit table. Written by cmd/worker.
type SyncEventRepository struct {
    DB *sql.DB
}

func (r *SyncEventRepository) Insert(topic string, payload []byte) error {
    query := `
        INSERT INTO sync_events (topic, payload, received_at)
        VALUES ($1, $2, $3)
    `
    _, err := r.DB.Exec(query, topic, payload, time.Now())
    return err
}
