package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/diillson/genomics-finops-go/internal/domain/repository"
)

const dayLayout = "2006-01-02"

// CostRepository implements repository.CostRepository for SQLite
type CostRepository struct {
	db *DB
}

// NewCostRepository creates a new CostRepository
func NewCostRepository(db *DB) repository.CostRepository {
	return &CostRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// SaveRun writes the whole run in one transaction. Costs already stored for
// the run date are replaced.
func (r *CostRepository) SaveRun(ctx context.Context, summary entity.RunSummary, projects []entity.Project, costs []entity.ProjectStorageCost) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range projects {
		if err := getOrCreateProject(ctx, tx, p); err != nil {
			return err
		}
	}

	dateID, err := getOrCreateDate(ctx, tx, summary.RunDate)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM storage_costs WHERE date_id = ?`, dateID); err != nil {
		return fmt.Errorf("failed to clear storage costs: %w", err)
	}

	for _, c := range costs {
		// Costs may name a project missing from projects when the caller
		// only knows its id.
		if err := getOrCreateProject(ctx, tx, entity.Project{ID: c.ProjectID, Name: c.ProjectName}); err != nil {
			return err
		}
		if err := upsertStorageCost(ctx, tx, dateID, c); err != nil {
			return err
		}
	}

	if err := insertRun(ctx, tx, dateID, summary); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ProjectCosts returns the breakdown stored for day, ordered by project id.
func (r *CostRepository) ProjectCosts(ctx context.Context, day time.Time) ([]entity.ProjectStorageCost, error) {
	query := `
		SELECT s.project_id, p.name,
		       s.unique_size_live, s.unique_cost_live,
		       s.unique_size_archived, s.unique_cost_archived,
		       s.total_size_live, s.total_cost_live,
		       s.total_size_archived, s.total_cost_archived
		FROM storage_costs s
		JOIN dates d ON d.id = s.date_id
		JOIN projects p ON p.id = s.project_id
		WHERE d.day = ?
		ORDER BY s.project_id
	`

	rows, err := r.db.QueryContext(ctx, query, day.UTC().Format(dayLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query storage costs: %w", err)
	}
	defer rows.Close()

	var costs []entity.ProjectStorageCost
	for rows.Next() {
		var c entity.ProjectStorageCost
		if err := rows.Scan(
			&c.ProjectID,
			&c.ProjectName,
			&c.UniqueLive.Size, &c.UniqueLive.Cost,
			&c.UniqueArchived.Size, &c.UniqueArchived.Cost,
			&c.TotalLive.Size, &c.TotalLive.Cost,
			&c.TotalArchived.Size, &c.TotalArchived.Cost,
		); err != nil {
			return nil, fmt.Errorf("failed to scan storage cost: %w", err)
		}
		costs = append(costs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate storage costs: %w", err)
	}

	if len(costs) == 0 {
		return nil, ErrNotFound
	}
	return costs, nil
}

// DailyTotals sums every project's live and archived buckets of scope per
// day in [from, to], oldest first. Days without a run are absent.
func (r *CostRepository) DailyTotals(ctx context.Context, scope entity.Scope, from, to time.Time) ([]entity.DailyStorageCost, error) {
	var sizeExpr, costExpr string
	switch scope {
	case entity.ScopeUnique:
		sizeExpr = "s.unique_size_live + s.unique_size_archived"
		costExpr = "s.unique_cost_live + s.unique_cost_archived"
	case entity.ScopeTotal:
		sizeExpr = "s.total_size_live + s.total_size_archived"
		costExpr = "s.total_cost_live + s.total_cost_archived"
	default:
		return nil, fmt.Errorf("unknown scope %q", scope)
	}

	query := fmt.Sprintf(`
		SELECT d.day, COALESCE(SUM(%s), 0), COALESCE(SUM(%s), 0)
		FROM dates d
		JOIN storage_costs s ON s.date_id = d.id
		WHERE d.day BETWEEN ? AND ?
		GROUP BY d.day
		ORDER BY d.day
	`, sizeExpr, costExpr)

	rows, err := r.db.QueryContext(ctx, query, from.UTC().Format(dayLayout), to.UTC().Format(dayLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer rows.Close()

	var totals []entity.DailyStorageCost
	for rows.Next() {
		var (
			day   string
			total entity.DailyStorageCost
		)
		if err := rows.Scan(&day, &total.Size, &total.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		total.Date, err = time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("invalid stored day %q: %w", day, err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily totals: %w", err)
	}
	return totals, nil
}

// getOrCreateProject stores p the first time its id is seen. Stored projects
// are never updated.
func getOrCreateProject(ctx context.Context, q execer, p entity.Project) error {
	query := `
		INSERT INTO projects (id, name, created_by, created_epoch)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`
	if _, err := q.ExecContext(ctx, query, p.ID, p.Name, p.CreatedBy, p.CreatedEpoch); err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.ID, err)
	}
	return nil
}

func getOrCreateDate(ctx context.Context, q execer, day time.Time) (int64, error) {
	key := day.UTC().Format(dayLayout)
	if _, err := q.ExecContext(ctx, `INSERT INTO dates (day) VALUES (?) ON CONFLICT(day) DO NOTHING`, key); err != nil {
		return 0, fmt.Errorf("failed to save date %s: %w", key, err)
	}

	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM dates WHERE day = ?`, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("date %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get date %s: %w", key, err)
	}
	return id, nil
}

func upsertStorageCost(ctx context.Context, q execer, dateID int64, c entity.ProjectStorageCost) error {
	query := `
		INSERT INTO storage_costs (
			project_id, date_id,
			unique_size_live, unique_cost_live,
			unique_size_archived, unique_cost_archived,
			total_size_live, total_cost_live,
			total_size_archived, total_cost_archived
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, date_id) DO UPDATE SET
			unique_size_live = excluded.unique_size_live,
			unique_cost_live = excluded.unique_cost_live,
			unique_size_archived = excluded.unique_size_archived,
			unique_cost_archived = excluded.unique_cost_archived,
			total_size_live = excluded.total_size_live,
			total_cost_live = excluded.total_cost_live,
			total_size_archived = excluded.total_size_archived,
			total_cost_archived = excluded.total_cost_archived
	`

	_, err := q.ExecContext(ctx, query,
		c.ProjectID, dateID,
		c.UniqueLive.Size, c.UniqueLive.Cost,
		c.UniqueArchived.Size, c.UniqueArchived.Cost,
		c.TotalLive.Size, c.TotalLive.Cost,
		c.TotalArchived.Size, c.TotalArchived.Cost,
	)
	if err != nil {
		return fmt.Errorf("failed to save storage cost of %s: %w", c.ProjectID, err)
	}
	return nil
}

func insertRun(ctx context.Context, q execer, dateID int64, s entity.RunSummary) error {
	query := `
		INSERT INTO runs (
			id, date_id, days_in_month, live_rate, archived_rate,
			projects, file_records, distinct_files, empty_projects, failed_projects,
			dropped_from_unique, orphan_records, state_anomalies,
			unique_size, unique_cost, total_size, total_cost
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		s.RunID, dateID, s.DaysInMonth, s.Rates.LivePerGiBMonth, s.Rates.ArchivedPerGiBMonth,
		s.Projects, s.FileRecords, s.DistinctFiles, len(s.EmptyProjects), len(s.FailedProjects),
		s.DroppedFromUnique, s.OrphanRecords, s.StateAnomalies,
		s.UniqueSize, s.UniqueCost, s.TotalSize, s.TotalCost,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", s.RunID, err)
	}
	return nil
}
