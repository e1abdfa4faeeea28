// Package persistence stores simulation traces in SQLite so runs can be
// inspected and compared after the fact with plain SQL.
package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/edsim/edsim/sim/trace"
)

const schema = `
CREATE TABLE IF NOT EXISTS arrivals (
	time_min   REAL NOT NULL,
	patient_id TEXT NOT NULL,
	age        INTEGER NOT NULL,
	complaint  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS triages (
	time_min        REAL NOT NULL,
	patient_id      TEXT NOT NULL,
	category        TEXT NOT NULL,
	priority        INTEGER NOT NULL,
	score           REAL NOT NULL,
	flowchart       TEXT NOT NULL,
	confidence      REAL NOT NULL,
	target_wait_min REAL NOT NULL,
	estimate_min    REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS consultations (
	time_min   REAL NOT NULL,
	patient_id TEXT NOT NULL,
	category   TEXT NOT NULL,
	completed  INTEGER NOT NULL,
	waited_min REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS dispositions (
	time_min   REAL NOT NULL,
	patient_id TEXT NOT NULL,
	category   TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	system_min REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	time_min      REAL NOT NULL,
	pool          TEXT NOT NULL,
	utilization   REAL NOT NULL,
	held          INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS queue_samples (
	time_min REAL NOT NULL,
	category TEXT NOT NULL,
	length   INTEGER NOT NULL
);
`

// Store is a trace.Recorder backed by a SQLite database. The Recorder
// interface carries no error returns, so write failures are logged and the
// simulation continues; Close surfaces the final flush error.
type Store struct {
	db *sqlx.DB
}

// Open creates (or opens) the database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open trace db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply trace schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for queries.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) exec(query string, args ...any) {
	if _, err := s.db.Exec(query, args...); err != nil {
		logrus.Errorf("trace db write failed: %v", err)
	}
}

func (s *Store) RecordArrival(r trace.ArrivalRecord) {
	s.exec(`INSERT INTO arrivals (time_min, patient_id, age, complaint) VALUES (?, ?, ?, ?)`,
		r.TimeMin, r.PatientID, r.Age, r.Complaint)
}

func (s *Store) RecordTriage(r trace.TriageRecord) {
	s.exec(`INSERT INTO triages (time_min, patient_id, category, priority, score, flowchart, confidence, target_wait_min, estimate_min)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TimeMin, r.PatientID, r.Category, r.Priority, r.Score, r.Flowchart, r.Confidence, r.TargetWaitMin, r.EstimateMin)
}

func (s *Store) RecordConsultation(r trace.ConsultationRecord) {
	s.exec(`INSERT INTO consultations (time_min, patient_id, category, completed, waited_min) VALUES (?, ?, ?, ?, ?)`,
		r.TimeMin, r.PatientID, r.Category, r.Completed, r.WaitedMin)
}

func (s *Store) RecordDisposition(r trace.DispositionRecord) {
	s.exec(`INSERT INTO dispositions (time_min, patient_id, category, outcome, system_min) VALUES (?, ?, ?, ?, ?)`,
		r.TimeMin, r.PatientID, r.Category, r.Outcome, r.SystemMin)
}

func (s *Store) RecordSnapshot(r trace.SnapshotRecord) {
	for pool, u := range r.Utilization {
		s.exec(`INSERT INTO snapshots (time_min, pool, utilization, held) VALUES (?, ?, ?, ?)`,
			r.TimeMin, pool, u, r.Held[pool])
	}
	for category, n := range r.QueueLengths {
		s.exec(`INSERT INTO queue_samples (time_min, category, length) VALUES (?, ?, ?)`,
			r.TimeMin, category, n)
	}
}
