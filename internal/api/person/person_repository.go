package person

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/go-contact-registry/app/db"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var _ PersonRepo = (*PostgresPersonRepo)(nil)

type PersonRepo interface {
	List(ctx context.Context) ([]types.Person, error)
	ListByCounty(ctx context.Context, countyName string) ([]types.Person, error)
	// Recent returns the newest records first.
	Recent(ctx context.Context, limit int) ([]types.Person, error)
	GetByID(ctx context.Context, id int64) (*types.Person, error)
	GetByEmail(ctx context.Context, email string) (*types.Person, error)
	GetByPhone(ctx context.Context, phone string) (*types.Person, error)
	GenderStats(ctx context.Context) (*types.GenderStats, error)
	// Create and Update take CountyID and ignore CountyName.
	Create(ctx context.Context, p types.Person) (*types.Person, error)
	Update(ctx context.Context, p types.Person) (*types.Person, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresPersonRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresPersonRepo(db database.Querier, logger *slog.Logger) *PostgresPersonRepo {
	return &PostgresPersonRepo{
		logger: logger,
		db:     db,
	}
}

const personSelect = `
	SELECT p.id, p.full_name, p.email, p.phone, p.gender, p.date_of_birth,
	       p.county_id, c.name, p.created_at, p.updated_at
	FROM person p
	JOIN county c ON c.id = p.county_id`

func scanPerson(row pgx.Row) (*types.Person, error) {
	var p types.Person
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Gender, &p.DateOfBirth,
		&p.CountyID, &p.CountyName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPersonRepo) list(ctx context.Context, method, query string, args ...any) ([]types.Person, error) {
	ctx, done := database.StartQuery(ctx, "PersonRepo", method, "SELECT", "person")
	l := r.logger.With(slog.String("method", method))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err = done(err)
		l.ErrorContext(ctx, "Failed to query persons", slog.Any("error", err))
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	persons := []types.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			err = done(err)
			l.ErrorContext(ctx, "Failed to scan person row", slog.Any("error", err))
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, *p)
	}
	if err := done(rows.Err()); err != nil {
		l.ErrorContext(ctx, "Error iterating person rows", slog.Any("error", err))
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return persons, nil
}

func (r *PostgresPersonRepo) List(ctx context.Context) ([]types.Person, error) {
	return r.list(ctx, "List", personSelect+` ORDER BY p.id`)
}

func (r *PostgresPersonRepo) ListByCounty(ctx context.Context, countyName string) ([]types.Person, error) {
	return r.list(ctx, "ListByCounty", personSelect+` WHERE LOWER(c.name) = LOWER($1) ORDER BY p.id`, countyName)
}

func (r *PostgresPersonRepo) Recent(ctx context.Context, limit int) ([]types.Person, error) {
	return r.list(ctx, "Recent", personSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT $1`, limit)
}

func (r *PostgresPersonRepo) getOne(ctx context.Context, method, where string, arg any) (*types.Person, error) {
	ctx, done := database.StartQuery(ctx, "PersonRepo", method, "SELECT", "person")
	p, err := scanPerson(r.db.QueryRow(ctx, personSelect+` WHERE `+where, arg))
	if err = done(err); err != nil {
		return nil, fmt.Errorf("person %v: %w", arg, err)
	}
	return p, nil
}

func (r *PostgresPersonRepo) GetByID(ctx context.Context, id int64) (*types.Person, error) {
	return r.getOne(ctx, "GetByID", "p.id = $1", id)
}

func (r *PostgresPersonRepo) GetByEmail(ctx context.Context, email string) (*types.Person, error) {
	return r.getOne(ctx, "GetByEmail", "p.email = $1", email)
}

func (r *PostgresPersonRepo) GetByPhone(ctx context.Context, phone string) (*types.Person, error) {
	return r.getOne(ctx, "GetByPhone", "p.phone = $1", phone)
}

func (r *PostgresPersonRepo) GenderStats(ctx context.Context) (*types.GenderStats, error) {
	ctx, done := database.StartQuery(ctx, "PersonRepo", "GenderStats", "SELECT", "person")

	var s types.GenderStats
	err := done(r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE LOWER(gender) = 'male'),
		       COUNT(*) FILTER (WHERE LOWER(gender) = 'female'),
		       COUNT(*) FILTER (WHERE LOWER(gender) = 'not specified')
		FROM person`).Scan(&s.MaleCount, &s.FemaleCount, &s.NotSpecifiedCount))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to compute gender stats", slog.Any("error", err))
		return nil, fmt.Errorf("gender stats: %w", err)
	}
	return &s, nil
}

// Create inserts and then reads the row back so the county name is filled in.
func (r *PostgresPersonRepo) Create(ctx context.Context, p types.Person) (*types.Person, error) {
	ctx, done := database.StartQuery(ctx, "PersonRepo", "Create", "INSERT", "person")

	var id int64
	err := done(r.db.QueryRow(ctx, `
		INSERT INTO person (full_name, email, phone, gender, date_of_birth, county_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.FullName, p.Email, p.Phone, p.Gender, p.DateOfBirth, p.CountyID).Scan(&id))
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to create person", slog.Any("error", err))
		return nil, fmt.Errorf("create person: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresPersonRepo) Update(ctx context.Context, p types.Person) (*types.Person, error) {
	ctx, done := database.StartQuery(ctx, "PersonRepo", "Update", "UPDATE", "person")

	tag, err := r.db.Exec(ctx, `
		UPDATE person
		SET full_name = $2, email = $3, phone = $4, gender = $5, date_of_birth = $6,
		    county_id = $7, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.FullName, p.Email, p.Phone, p.Gender, p.DateOfBirth, p.CountyID)
	if err = done(err); err != nil {
		r.logger.WarnContext(ctx, "Failed to update person", slog.Int64("id", p.ID), slog.Any("error", err))
		return nil, fmt.Errorf("update person %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update person %d: %w", p.ID, types.ErrNotFound)
	}
	return r.GetByID(ctx, p.ID)
}

func (r *PostgresPersonRepo) Delete(ctx context.Context, id int64) error {
	ctx, done := database.StartQuery(ctx, "PersonRepo", "Delete", "DELETE", "person")
	tag, err := r.db.Exec(ctx, `DELETE FROM person WHERE id = $1`, id)
	if err = done(err); err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete person %d: %w", id, types.ErrNotFound)
	}
	return nil
}
