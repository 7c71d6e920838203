package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ddarch/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores submissions in a sqlite file so they survive restarts. It
// satisfies the same Store contract as Memory: AUTOINCREMENT assigns
// strictly increasing per-table ids and never reuses them.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLite{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL,
            project_type TEXT NOT NULL,
            date TEXT NOT NULL,
            time TEXT NOT NULL,
            message TEXT,
            created_at DATETIME NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS contacts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            subject TEXT NOT NULL,
            message TEXT NOT NULL,
            created_at DATETIME NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(email)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("execute query %q: %w", query, err)
		}
	}
	return nil
}

func (s *SQLite) CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error) {
	query := `INSERT INTO bookings (name, email, phone, project_type, date, time, message, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := s.db.ExecContext(ctx, query,
		in.Name, in.Email, in.Phone, in.ProjectType, in.Date, in.Time, in.Message, now)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return &models.Booking{
		ID:          id,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		ProjectType: in.ProjectType,
		Date:        in.Date,
		Time:        in.Time,
		Message:     in.Message,
		CreatedAt:   now,
	}, nil
}

func (s *SQLite) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT id, name, email, phone, project_type, date, time, message, created_at
              FROM bookings WHERE id = ?`
	var b models.Booking
	var message sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.ProjectType, &b.Date, &b.Time, &message, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	b.Message = message.String
	return &b, nil
}

func (s *SQLite) ListBookings(ctx context.Context) ([]models.Booking, error) {
	query := `SELECT id, name, email, phone, project_type, date, time, message, created_at
              FROM bookings ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		var message sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.ProjectType, &b.Date, &b.Time, &message, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.Message = message.String
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (s *SQLite) CreateContact(ctx context.Context, in models.ContactInput) (*models.Contact, error) {
	query := `INSERT INTO contacts (name, email, subject, message, created_at)
              VALUES (?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := s.db.ExecContext(ctx, query, in.Name, in.Email, in.Subject, in.Message, now)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return &models.Contact{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: now,
	}, nil
}

func (s *SQLite) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	query := `SELECT id, name, email, subject, message, created_at FROM contacts WHERE id = ?`
	var c models.Contact
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

func (s *SQLite) ListContacts(ctx context.Context) ([]models.Contact, error) {
	query := `SELECT id, name, email, subject, message, created_at FROM contacts ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
