package repository

import (
	"context"

	"github.com/Domenick1991/quickrent/internal/domain"
)

type CustomerRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Count(ctx context.Context) (int, error)
}

type PGCustomerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) CustomerRepository {
	return &PGCustomerRepository{db: db}
}

func (r *PGCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, first_name, last_name, COALESCE(phone_number, ''), COALESCE(address, '') FROM customers WHERE lower(email)=lower($1)`, email)
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Address); err != nil {
		return nil, notFound(err, "customer", email)
	}
	return &c, nil
}

func (r *PGCustomerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM customers`).Scan(&n)
	return n, err
}

var _ CustomerRepository = (*PGCustomerRepository)(nil)
