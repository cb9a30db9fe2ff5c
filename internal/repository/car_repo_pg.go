package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/quickrent/internal/domain"
)

type CarRepository interface {
	List(ctx context.Context) ([]domain.Car, error)
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
	Count(ctx context.Context) (int, error)
}

type PGCarRepository struct {
	db DB
}

func NewCarRepository(db DB) CarRepository {
	return &PGCarRepository{db: db}
}

const carColumns = `id, number_plate, brand, model, rent_per_day_cents, is_available, COALESCE(image_url, ''), COALESCE(image_public_id, ''), created_at, updated_at`

func scanCar(row scanner) (*domain.Car, error) {
	var c domain.Car
	if err := row.Scan(&c.ID, &c.NumberPlate, &c.Brand, &c.Model, &c.RentPerDayCents, &c.IsAvailable, &c.ImageURL, &c.ImagePublicID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGCarRepository) List(ctx context.Context) ([]domain.Car, error) {
	rows, err := r.db.Query(ctx, `SELECT `+carColumns+` FROM cars ORDER BY brand, model, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]domain.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}

func (r *PGCarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	c, err := scanCar(r.db.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, "car", id)
	}
	return c, nil
}

func (r *PGCarRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	res, err := r.db.Exec(ctx, `UPDATE cars SET is_available=$1, updated_at=now() WHERE id=$2`, available, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("car %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PGCarRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM cars`).Scan(&n)
	return n, err
}

var _ CarRepository = (*PGCarRepository)(nil)
