package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/roundtrip/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAirportNotFound = errors.New("airport not found")

type AirportRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Airport, error)
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	row := r.db.QueryRow(ctx, `SELECT iata, city, name, timezone FROM airports WHERE iata=$1`, strings.ToUpper(code))
	var a domain.Airport
	if err := row.Scan(&a.Code, &a.City, &a.Name, &a.Timezone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAirportNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ AirportRepository = (*PGAirportRepository)(nil)
