package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/repository"
)

// ProjectRepository implements repository.ProjectRepository for SQLite
type ProjectRepository struct {
	db *DB
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project. A zero ID is assigned by the database.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, name, description, url, image, team_name, team_number, team_url, uv)
		VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.Description,
		proj.URL,
		proj.Image,
		proj.TeamName,
		proj.TeamNumber,
		proj.TeamURL,
		proj.UV,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	if proj.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read project id: %w", err)
		}
		proj.ID = id
	}

	return nil
}

const projectColumns = `
	p.id, p.name, p.description, p.url, p.image, p.team_name, p.team_number, p.team_url, p.uv,
	COALESCE((SELECT SUM(i.amount) FROM investments i WHERE i.project_id = p.id), 0)
`

func scanProject(row interface{ Scan(...any) error }) (project.Project, error) {
	var p project.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.URL,
		&p.Image,
		&p.TeamName,
		&p.TeamNumber,
		&p.TeamURL,
		&p.UV,
		&p.Investment,
	)
	return p, err
}

// Get retrieves a project by ID with its investment records
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = ?`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	p.InvestmentRecords = records[p.ID]

	return &p, nil
}

// List returns every project with its aggregated investment
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	rows.Close()

	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].InvestmentRecords = records[projects[i].ID]
	}

	return projects, nil
}

// records groups per-investor totals by project, largest first
func (r *ProjectRepository) records(ctx context.Context) (map[int64][]project.InvestmentRecord, error) {
	query := `
		SELECT i.project_id, v.name, v.title, v.avatar, v.initial_amount, SUM(i.amount) AS total
		FROM investments i
		JOIN investors v ON v.id = i.investor_id
		GROUP BY i.project_id, v.id
		ORDER BY i.project_id, total DESC, v.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment records: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]project.InvestmentRecord)
	for rows.Next() {
		var projectID int64
		var rec project.InvestmentRecord
		if err := rows.Scan(&projectID, &rec.InvestorName, &rec.Title, &rec.Avatar, &rec.InitialAmount, &rec.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan investment record: %w", err)
		}
		out[projectID] = append(out[projectID], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investment records: %w", err)
	}

	return out, nil
}

// AddUV increments a project's unique visitor count
func (r *ProjectRepository) AddUV(ctx context.Context, id, delta int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET uv = uv + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("failed to update uv: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
