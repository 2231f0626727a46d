package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"go.uber.org/zap"
)

const candidateColumns = `c.id, c.position_id, c.full_name, c.programming_language, c.experience,
	c.used_technologies, c.education, c.soft_skills, c.languages, c.email, c.telegram,
	c.phone_number, c.status, c.cv_file, c.audio_file, c.created_at, c.updated_at`

// SQLStore is the database/sql repository for users, projects, positions
// and candidates
type SQLStore struct {
	db     *sql.DB
	d      dialect
	logger *zap.Logger
}

func (s *SQLStore) insert(ctx context.Context, query string, args ...any) (int64, error) {
	query = s.d.rebind(query)
	if s.d.returning {
		var id int64
		if err := s.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UsersWithMailCredentials lists users whose mailbox can be read
func (s *SQLStore) UsersWithMailCredentials(ctx context.Context) ([]core.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, email, mail_password
		FROM users
		WHERE email <> '' AND mail_password <> ''
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.MailPassword); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PositionsForUser returns the distinct positions of the user's projects,
// oldest first
func (s *SQLStore) PositionsForUser(ctx context.Context, userID int64) ([]core.Position, error) {
	rows, err := s.db.QueryContext(ctx, s.d.rebind(`
		SELECT DISTINCT p.id, p.project_id, p.name, p.requirements, p.created_at
		FROM positions p
		JOIN project_users pu ON pu.project_id = p.project_id
		WHERE pu.user_id = ?
		ORDER BY p.id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []core.Position
	for rows.Next() {
		var p core.Position
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Requirements, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// GetPosition loads one position
func (s *SQLStore) GetPosition(ctx context.Context, positionID int64) (*core.Position, error) {
	var p core.Position
	err := s.db.QueryRowContext(ctx, s.d.rebind(`
		SELECT id, project_id, name, requirements, created_at FROM positions WHERE id = ?
	`), positionID).Scan(&p.ID, &p.ProjectID, &p.Name, &p.Requirements, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query position: %w", err)
	}
	return &p, nil
}

// CreateCandidate inserts the candidate and returns its id
func (s *SQLStore) CreateCandidate(ctx context.Context, c *core.Candidate) (int64, error) {
	now := time.Now().UTC()
	id, err := s.insert(ctx, `
		INSERT INTO candidates (position_id, full_name, programming_language, experience,
			used_technologies, education, soft_skills, languages, email, telegram,
			phone_number, status, cv_file, audio_file, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.PositionID, c.FullName, c.ProgrammingLanguages, c.Experience,
		c.Technologies, c.Education, c.SoftSkills, c.Languages, nullString(c.Email), c.Telegram,
		nullString(c.Phone), string(c.Status), c.CVFile, c.AudioFile, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert candidate: %w", err)
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return id, nil
}

// AttachResume records the stored resume reference on the candidate
func (s *SQLStore) AttachResume(ctx context.Context, candidateID int64, fileRef string) error {
	res, err := s.db.ExecContext(ctx, s.d.rebind(`
		UPDATE candidates SET cv_file = ?, updated_at = ? WHERE id = ?
	`), fileRef, time.Now().UTC(), candidateID)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// CandidatesForUser lists candidates of every position the user can see
func (s *SQLStore) CandidatesForUser(ctx context.Context, userID int64) ([]core.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, s.d.rebind(`
		SELECT `+candidateColumns+`
		FROM candidates c
		WHERE c.position_id IN (
			SELECT p.id FROM positions p
			JOIN project_users pu ON pu.project_id = p.project_id
			WHERE pu.user_id = ?
		)
		ORDER BY c.id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []core.Candidate
	for rows.Next() {
		var (
			c            core.Candidate
			email, phone sql.NullString
			status       string
		)
		if err := rows.Scan(&c.ID, &c.PositionID, &c.FullName, &c.ProgrammingLanguages, &c.Experience,
			&c.Technologies, &c.Education, &c.SoftSkills, &c.Languages, &email, &c.Telegram,
			&phone, &status, &c.CVFile, &c.AudioFile, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.Email = fromNullString(email)
		c.Phone = fromNullString(phone)
		c.Status = core.CandidateStatus(status)
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// CreateUser inserts a user and returns its id
func (s *SQLStore) CreateUser(ctx context.Context, u *core.User) (int64, error) {
	id, err := s.insert(ctx, `INSERT INTO users (username, email, mail_password, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.MailPassword, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	u.ID = id
	return id, nil
}

// CreateProject inserts a project and returns its id
func (s *SQLStore) CreateProject(ctx context.Context, name string) (int64, error) {
	id, err := s.insert(ctx, `INSERT INTO projects (name, created_at) VALUES (?, ?)`, name, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	return id, nil
}

// AddProjectMember grants the user access to the project
func (s *SQLStore) AddProjectMember(ctx context.Context, projectID, userID int64) error {
	_, err := s.db.ExecContext(ctx, s.d.rebind(`INSERT INTO project_users (project_id, user_id) VALUES (?, ?)`),
		projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to add project member: %w", err)
	}
	return nil
}

// CreatePosition inserts a position and returns its id
func (s *SQLStore) CreatePosition(ctx context.Context, p *core.Position) (int64, error) {
	now := time.Now().UTC()
	id, err := s.insert(ctx, `INSERT INTO positions (project_id, name, requirements, created_at) VALUES (?, ?, ?, ?)`,
		p.ProjectID, p.Name, p.Requirements, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert position: %w", err)
	}
	p.ID, p.CreatedAt = id, now
	return id, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
