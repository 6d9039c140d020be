package person

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

var _ PersonService = (*PersonServiceImpl)(nil)

type PersonService interface {
	List(ctx context.Context) ([]types.Person, error)
	ListByCounty(ctx context.Context, countyName string) ([]types.Person, error)
	FiveRecent(ctx context.Context) ([]types.Person, error)
	GetByID(ctx context.Context, id int64) (*types.Person, error)
	GetByEmail(ctx context.Context, email string) (*types.Person, error)
	GetByPhone(ctx context.Context, phone string) (*types.Person, error)
	GenderStats(ctx context.Context) (*types.GenderStats, error)
	Create(ctx context.Context, req types.PersonRequest) (*types.Person, error)
	Update(ctx context.Context, id int64, req types.PersonRequest) (*types.Person, error)
	Delete(ctx context.Context, id int64) error
}

// CountyLookup resolves the county a person request names.
type CountyLookup interface {
	GetByName(ctx context.Context, name string) (*types.County, error)
}

const recentLimit = 5

type PersonServiceImpl struct {
	logger   *slog.Logger
	repo     PersonRepo
	counties CountyLookup
}

func NewPersonService(repo PersonRepo, counties CountyLookup, logger *slog.Logger) *PersonServiceImpl {
	return &PersonServiceImpl{
		logger:   logger,
		repo:     repo,
		counties: counties,
	}
}

func (s *PersonServiceImpl) List(ctx context.Context) ([]types.Person, error) {
	return s.repo.List(ctx)
}

func (s *PersonServiceImpl) ListByCounty(ctx context.Context, countyName string) ([]types.Person, error) {
	return s.repo.ListByCounty(ctx, countyName)
}

func (s *PersonServiceImpl) FiveRecent(ctx context.Context) ([]types.Person, error) {
	return s.repo.Recent(ctx, recentLimit)
}

func (s *PersonServiceImpl) GetByID(ctx context.Context, id int64) (*types.Person, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PersonServiceImpl) GetByEmail(ctx context.Context, email string) (*types.Person, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *PersonServiceImpl) GetByPhone(ctx context.Context, phone string) (*types.Person, error) {
	return s.repo.GetByPhone(ctx, phone)
}

func (s *PersonServiceImpl) GenderStats(ctx context.Context) (*types.GenderStats, error) {
	return s.repo.GenderStats(ctx)
}

// fromRequest builds the record to store. req must already be valid.
func (s *PersonServiceImpl) fromRequest(ctx context.Context, req types.PersonRequest) (types.Person, error) {
	dob, err := time.Parse(types.DateLayout, req.DateOfBirth)
	if err != nil {
		return types.Person{}, fmt.Errorf("date of birth: %w", types.ErrValidation)
	}
	county, err := s.counties.GetByName(ctx, req.CountyName)
	if err != nil {
		return types.Person{}, fmt.Errorf("county %q: %w", req.CountyName, err)
	}
	return types.Person{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Gender:      req.Gender,
		DateOfBirth: dob,
		CountyID:    county.ID,
		CountyName:  county.Name,
	}, nil
}

func (s *PersonServiceImpl) Create(ctx context.Context, req types.PersonRequest) (*types.Person, error) {
	l := s.logger.With(slog.String("method", "Create"))

	_, err := s.repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("email %q already registered: %w", req.Email, types.ErrConflict)
	case !errors.Is(err, types.ErrNotFound):
		return nil, err
	}

	p, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	l.InfoContext(ctx, "Person created", slog.Int64("id", created.ID))
	return created, nil
}

func (s *PersonServiceImpl) Update(ctx context.Context, id int64, req types.PersonRequest) (*types.Person, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	p, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.repo.Update(ctx, p)
}

func (s *PersonServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Person deleted", slog.Int64("id", id))
	return nil
}
