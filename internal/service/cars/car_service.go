package cars

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/Domenick1991/quickrent/internal/repository"
)

type CarUseCase interface {
	List(ctx context.Context) ([]domain.Car, error)
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	Available(ctx context.Context, start, end time.Time) ([]domain.Car, error)
}

type CarCache interface {
	GetCars(ctx context.Context) ([]domain.Car, error)
	SetCars(ctx context.Context, cars []domain.Car) error
}

type AvailabilityFinder interface {
	FindAvailableCars(ctx context.Context, rng domain.DateRange) ([]int64, error)
}

type CarService struct {
	repo         repository.CarRepository
	cache        CarCache
	availability AvailabilityFinder
	now          func() time.Time
}

// NewCarService builds the catalogue service. cache may be nil.
func NewCarService(repo repository.CarRepository, cache CarCache, availability AvailabilityFinder) *CarService {
	return &CarService{repo: repo, cache: cache, availability: availability, now: time.Now}
}

func (s *CarService) List(ctx context.Context) ([]domain.Car, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCars(ctx)
		if err != nil {
			log.Printf("Car cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	cars, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCars(ctx, cars); err != nil {
			log.Printf("Car cache write failed: %v", err)
		}
	}
	return cars, nil
}

func (s *CarService) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	return s.repo.GetByID(ctx, id)
}

// Available returns the cars with no blocking booking in the range, after
// clamping the range the same way booking creation does.
func (s *CarService) Available(ctx context.Context, start, end time.Time) ([]domain.Car, error) {
	rng, err := domain.DateRange{Start: start, End: end}.Normalize(s.now())
	if err != nil {
		return nil, err
	}

	ids, err := s.availability.FindAvailableCars(ctx, rng)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Car{}, nil
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	free := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		free[id] = struct{}{}
	}

	cars := make([]domain.Car, 0, len(ids))
	for _, car := range all {
		if _, ok := free[car.ID]; ok {
			cars = append(cars, car)
		}
	}
	return cars, nil
}

var _ CarUseCase = (*CarService)(nil)
