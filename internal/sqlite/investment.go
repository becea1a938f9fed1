package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/hackvote/internal/repository"
)

// InvestmentRepository implements repository.InvestmentRepository for SQLite
type InvestmentRepository struct {
	db *DB
}

var _ repository.InvestmentRepository = (*InvestmentRepository)(nil)

// NewInvestmentRepository creates a new InvestmentRepository
func NewInvestmentRepository(db *DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// Invest checks the budget, records the investment and debits the investor
// in one transaction.
func (r *InvestmentRepository) Invest(ctx context.Context, username string, projectID, amount int64, at time.Time) error {
	if amount <= 0 {
		return repository.ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var investorID, remaining int64
	err = tx.QueryRowContext(ctx,
		`SELECT id, remaining_amount FROM investors WHERE username = ?`, username,
	).Scan(&investorID, &remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load investor: %w", err)
	}
	if amount > remaining {
		return repository.ErrInsufficientBudget
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO investments (investor_id, project_id, amount, created_at) VALUES (?, ?, ?, ?)`,
		investorID, projectID, amount, at.UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to insert investment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE investors SET remaining_amount = remaining_amount - ? WHERE id = ?`,
		amount, investorID,
	)
	if err != nil {
		if isCheckViolation(err) {
			return repository.ErrInsufficientBudget
		}
		return fmt.Errorf("failed to debit investor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit investment: %w", err)
	}
	return nil
}
