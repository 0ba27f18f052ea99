// Package store persists decoded sessions to SQLite so repeated queries
// over the same video don't re-decode it, grounded on banshee's
// internal/db package: a thin *sql.DB wrapper opened against the
// modernc.org/sqlite driver, with schema managed by golang-migrate against
// an embedded migrations filesystem.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/gpmf-go/gpmf/gpmf"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite connection holding decoded session data.
type Store struct {
	*sql.DB
}

// Open opens (and creates if absent) the SQLite database at path and
// applies the performance PRAGMAs banshee's db.go applies to every
// connection regardless of how it was created.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}
	return nil
}

// Migrate runs every pending migration to the latest version.
func (s *Store) Migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations source: %w", err)
	}
	driver, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("open sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("build migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// SaveSession persists session and every device's GPS track under
// sourcePath, attributing the insert to now.
func (s *Store) SaveSession(session gpmf.Session, sourcePath string, now time.Time) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, source_path, device_count, total_gps_points, total_imu_points, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID.String(), sourcePath, len(session.Devices),
		session.TotalGPSPoints(), session.TotalIMUPoints(), now.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for ordinal, dev := range session.Devices {
		res, err := tx.Exec(
			`INSERT INTO devices (session_id, name, device_id, ordinal) VALUES (?, ?, ?, ?)`,
			session.ID.String(), dev.Name, dev.ID, ordinal)
		if err != nil {
			return fmt.Errorf("insert device: %w", err)
		}
		deviceRowID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("device row id: %w", err)
		}

		seq := 0
		for _, rec := range dev.GPS {
			for i := 0; i < rec.NPoints; i++ {
				_, err := tx.Exec(
					`INSERT INTO gps_points (device_id, seq, latitude, longitude, altitude, speed_2d, speed_3d, fix)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
					deviceRowID, seq, rec.Latitude[i], rec.Longitude[i], rec.Altitude[i],
					rec.Speed2D[i], rec.Speed3D[i], rec.Fix)
				if err != nil {
					return fmt.Errorf("insert gps point: %w", err)
				}
				seq++
			}
		}
	}

	return tx.Commit()
}

// SessionSummary is one row of ListSessions.
type SessionSummary struct {
	ID             uuid.UUID
	SourcePath     string
	DeviceCount    int
	TotalGPSPoints int
	TotalIMUPoints int
	CreatedAt      time.Time
}

// ListSessions returns every saved session, most recent first.
func (s *Store) ListSessions() ([]SessionSummary, error) {
	rows, err := s.Query(
		`SELECT id, source_path, device_count, total_gps_points, total_imu_points, created_at
		 FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var idStr, createdAtStr string
		var sum SessionSummary
		if err := rows.Scan(&idStr, &sum.SourcePath, &sum.DeviceCount, &sum.TotalGPSPoints, &sum.TotalIMUPoints, &createdAtStr); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse session id: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		sum.ID = id
		sum.CreatedAt = createdAt
		out = append(out, sum)
	}
	return out, rows.Err()
}

// GPSPoint is one row of GPSPointsForSession.
type GPSPoint struct {
	DeviceName string
	Seq        int
	Latitude   float64
	Longitude  float64
	Altitude   float64
	Speed2D    float64
	Speed3D    float64
	Fix        int
}

// GPSPointsForSession returns every GPS point saved for sessionID, ordered
// by device ordinal then sample sequence.
func (s *Store) GPSPointsForSession(sessionID uuid.UUID) ([]GPSPoint, error) {
	rows, err := s.Query(
		`SELECT d.name, g.seq, g.latitude, g.longitude, g.altitude, g.speed_2d, g.speed_3d, g.fix
		 FROM gps_points g
		 JOIN devices d ON d.id = g.device_id
		 WHERE d.session_id = ?
		 ORDER BY d.ordinal, g.seq`, sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GPSPoint
	for rows.Next() {
		var p GPSPoint
		if err := rows.Scan(&p.DeviceName, &p.Seq, &p.Latitude, &p.Longitude, &p.Altitude, &p.Speed2D, &p.Speed3D, &p.Fix); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
