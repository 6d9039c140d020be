package county

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/go-contact-registry/app/db"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var _ CountyRepo = (*PostgresCountyRepo)(nil)

type CountyRepo interface {
	List(ctx context.Context) ([]types.County, error)
	GetByID(ctx context.Context, id int64) (*types.County, error)
	GetByName(ctx context.Context, name string) (*types.County, error)
	GetByCode(ctx context.Context, code int) (*types.County, error)
	Create(ctx context.Context, req types.CountyRequest) (*types.County, error)
	Update(ctx context.Context, id int64, req types.CountyRequest) (*types.County, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresCountyRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresCountyRepo(db database.Querier, logger *slog.Logger) *PostgresCountyRepo {
	return &PostgresCountyRepo{
		logger: logger,
		db:     db,
	}
}

const countyColumns = `id, name, code, created_at, updated_at`

func scanCounty(row pgx.Row) (*types.County, error) {
	var c types.County
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCountyRepo) List(ctx context.Context) ([]types.County, error) {
	ctx, done := database.StartQuery(ctx, "CountyRepo", "List", "SELECT", "county")

	rows, err := r.db.Query(ctx, `SELECT `+countyColumns+` FROM county ORDER BY name`)
	if err != nil {
		err = done(err)
		r.logger.ErrorContext(ctx, "Failed to list counties", slog.Any("error", err))
		return nil, fmt.Errorf("list counties: %w", err)
	}
	defer rows.Close()

	counties := []types.County{}
	for rows.Next() {
		c, err := scanCounty(rows)
		if err != nil {
			err = done(err)
			r.logger.ErrorContext(ctx, "Failed to scan county row", slog.Any("error", err))
			return nil, fmt.Errorf("scan county: %w", err)
		}
		counties = append(counties, *c)
	}
	if err := done(rows.Err()); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating county rows", slog.Any("error", err))
		return nil, fmt.Errorf("list counties: %w", err)
	}
	return counties, nil
}

func (r *PostgresCountyRepo) getOne(ctx context.Context, method, where string, arg any) (*types.County, error) {
	ctx, done := database.StartQuery(ctx, "CountyRepo", method, "SELECT", "county")
	c, err := scanCounty(r.db.QueryRow(ctx, `SELECT `+countyColumns+` FROM county WHERE `+where, arg))
	if err = done(err); err != nil {
		return nil, fmt.Errorf("county %v: %w", arg, err)
	}
	return c, nil
}

func (r *PostgresCountyRepo) GetByID(ctx context.Context, id int64) (*types.County, error) {
	return r.getOne(ctx, "GetByID", "id = $1", id)
}

// GetByName matches case-insensitively.
func (r *PostgresCountyRepo) GetByName(ctx context.Context, name string) (*types.County, error) {
	return r.getOne(ctx, "GetByName", "LOWER(name) = LOWER($1)", name)
}

func (r *PostgresCountyRepo) GetByCode(ctx context.Context, code int) (*types.County, error) {
	return r.getOne(ctx, "GetByCode", "code = $1", code)
}

func (r *PostgresCountyRepo) Create(ctx context.Context, req types.CountyRequest) (*types.County, error) {
	ctx, done := database.StartQuery(ctx, "CountyRepo", "Create", "INSERT", "county")
	c, err := scanCounty(r.db.QueryRow(ctx,
		`INSERT INTO county (name, code) VALUES ($1, $2) RETURNING `+countyColumns,
		req.Name, req.Code))
	if err = done(err); err != nil {
		r.logger.WarnContext(ctx, "Failed to create county", slog.String("name", req.Name), slog.Any("error", err))
		return nil, fmt.Errorf("create county %q: %w", req.Name, err)
	}
	return c, nil
}

func (r *PostgresCountyRepo) Update(ctx context.Context, id int64, req types.CountyRequest) (*types.County, error) {
	ctx, done := database.StartQuery(ctx, "CountyRepo", "Update", "UPDATE", "county")
	c, err := scanCounty(r.db.QueryRow(ctx,
		`UPDATE county SET name = $2, code = $3, updated_at = NOW() WHERE id = $1 RETURNING `+countyColumns,
		id, req.Name, req.Code))
	if err = done(err); err != nil {
		return nil, fmt.Errorf("update county %d: %w", id, err)
	}
	return c, nil
}

func (r *PostgresCountyRepo) Delete(ctx context.Context, id int64) error {
	ctx, done := database.StartQuery(ctx, "CountyRepo", "Delete", "DELETE", "county")
	tag, err := r.db.Exec(ctx, `DELETE FROM county WHERE id = $1`, id)
	if err = done(err); err != nil {
		return fmt.Errorf("delete county %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete county %d: %w", id, types.ErrNotFound)
	}
	return nil
}
