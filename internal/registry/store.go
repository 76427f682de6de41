package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store errors.
var (
	// ErrCodeTaken is returned by Insert when the certificate code is
	// already present. Submit resolves it by regenerating the code.
	ErrCodeTaken = errors.New("certificate code already taken")

	// ErrNotFound is returned by FindByCode for unknown codes.
	ErrNotFound = errors.New("certificate not found")
)

// Store is the append-only certificate record set, backed by SQLite.
// Records are inserted once and never updated or deleted.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the certificate database at path and
// ensures the schema exists. Safe to call on an existing database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite allows a single writer; serialize access instead of
	// surfacing SQLITE_BUSY to callers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS certificate (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    cert_type TEXT NOT NULL DEFAULT '',
    leave_from TEXT NOT NULL DEFAULT '',
    other_leave TEXT NOT NULL DEFAULT '',
    reason TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    dob TEXT NOT NULL DEFAULT '',
    mobile TEXT NOT NULL DEFAULT '',
    gender TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    postcode TEXT NOT NULL DEFAULT '',
    from_date TEXT NOT NULL DEFAULT '',
    to_date TEXT NOT NULL DEFAULT '',
    symptoms TEXT NOT NULL DEFAULT '',
    doctor_note TEXT NOT NULL DEFAULT '',
    issued_at TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_certificate_code ON certificate(code);
`

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends a record. The UNIQUE constraint on the code column makes
// the uniqueness check and the append a single atomic operation: two
// concurrent inserts with the same code cannot both succeed.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO certificate (
			id, code, cert_type, leave_from, other_leave, reason,
			email, first_name, last_name, dob, mobile, gender,
			address, city, state, postcode, from_date, to_date,
			symptoms, doctor_note, issued_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Code, rec.CertType, rec.LeaveFrom, rec.OtherLeave, rec.Reason,
		rec.Email, rec.FirstName, rec.LastName, rec.DOB, rec.Mobile, rec.Gender,
		rec.Address, rec.City, rec.State, rec.Postcode, rec.FromDate, rec.ToDate,
		rec.Symptoms, rec.DoctorNote, rec.IssuedAt.UTC())

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCodeTaken
		}
		return fmt.Errorf("inserting certificate: %w", err)
	}

	return nil
}

// FindByCode looks up a record by its exact certificate code.
func (s *Store) FindByCode(ctx context.Context, code string) (Record, error) {
	var rec Record
	var issuedAt time.Time

	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, cert_type, leave_from, other_leave, reason,
		       email, first_name, last_name, dob, mobile, gender,
		       address, city, state, postcode, from_date, to_date,
		       symptoms, doctor_note, issued_at
		FROM certificate
		WHERE code = ?
	`, code).Scan(
		&rec.ID, &rec.Code, &rec.CertType, &rec.LeaveFrom, &rec.OtherLeave, &rec.Reason,
		&rec.Email, &rec.FirstName, &rec.LastName, &rec.DOB, &rec.Mobile, &rec.Gender,
		&rec.Address, &rec.City, &rec.State, &rec.Postcode, &rec.FromDate, &rec.ToDate,
		&rec.Symptoms, &rec.DoctorNote, &issuedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("querying certificate: %w", err)
	}

	rec.IssuedAt = issuedAt
	return rec, nil
}

// Count returns the number of stored certificates.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM certificate`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting certificates: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
