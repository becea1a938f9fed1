package sqlite

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/repository"
)

// InvestorRepository implements repository.InvestorRepository for SQLite
type InvestorRepository struct {
	db *DB
}

var _ repository.InvestorRepository = (*InvestorRepository)(nil)

// NewInvestorRepository creates a new InvestorRepository
func NewInvestorRepository(db *DB) *InvestorRepository {
	return &InvestorRepository{db: db}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Create stores a new investor with a full budget
func (r *InvestorRepository) Create(ctx context.Context, inv *investor.Investor, password string) error {
	query := `
		INSERT INTO investors (id, username, password_hash, name, title, avatar, initial_amount, remaining_amount)
		VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.Username,
		hashPassword(password),
		inv.Name,
		inv.Title,
		inv.Avatar,
		inv.InitialAmount,
		inv.InitialAmount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create investor: %w", err)
	}

	if inv.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read investor id: %w", err)
		}
		inv.ID = id
	}
	inv.RemainingAmount = inv.InitialAmount
	inv.InvestedAmount = 0
	inv.InvestmentHistory = []investor.History{}

	return nil
}

// GetByUsername retrieves an investor with their investment history
func (r *InvestorRepository) GetByUsername(ctx context.Context, username string) (*investor.Investor, error) {
	inv, _, err := r.load(ctx, username)
	return inv, err
}

// Authenticate returns the investor when the password matches
func (r *InvestorRepository) Authenticate(ctx context.Context, username, password string) (*investor.Investor, error) {
	inv, hash, err := r.load(ctx, username)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(hash), []byte(hashPassword(password))) != 1 {
		return nil, repository.ErrNotFound
	}
	return inv, nil
}

func (r *InvestorRepository) load(ctx context.Context, username string) (*investor.Investor, string, error) {
	query := `
		SELECT id, username, password_hash, name, title, avatar, initial_amount, remaining_amount
		FROM investors
		WHERE username = ?
	`

	var inv investor.Investor
	var hash string
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&inv.ID,
		&inv.Username,
		&hash,
		&inv.Name,
		&inv.Title,
		&inv.Avatar,
		&inv.InitialAmount,
		&inv.RemainingAmount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", repository.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get investor: %w", err)
	}
	inv.InvestedAmount = inv.InitialAmount - inv.RemainingAmount

	history, err := r.history(ctx, inv.ID)
	if err != nil {
		return nil, "", err
	}
	inv.InvestmentHistory = history

	return &inv, hash, nil
}

func (r *InvestorRepository) history(ctx context.Context, investorID int64) ([]investor.History, error) {
	query := `
		SELECT i.created_at, p.id, p.name, p.team_name, p.team_number, i.amount
		FROM investments i
		JOIN projects p ON p.id = i.project_id
		WHERE i.investor_id = ?
		ORDER BY i.id
	`

	rows, err := r.db.QueryContext(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment history: %w", err)
	}
	defer rows.Close()

	history := []investor.History{}
	for rows.Next() {
		var h investor.History
		if err := rows.Scan(&h.Time, &h.ProjectID, &h.ProjectName, &h.TeamName, &h.TeamNumber, &h.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan investment history: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investment history: %w", err)
	}

	return history, nil
}
