package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusworks/repair-service/internal/domain"
)

// BuildingRepository reads the campus building directory.
type BuildingRepository interface {
	ListAll(ctx context.Context) ([]domain.Building, error)
}

type buildingRepository struct {
	pool *pgxpool.Pool
}

// NewBuildingRepository constructs repository.
func NewBuildingRepository(pool *pgxpool.Pool) BuildingRepository {
	return &buildingRepository{pool: pool}
}

func (r *buildingRepository) ListAll(ctx context.Context) ([]domain.Building, error) {
	const query = `SELECT id, name FROM buildings ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Building
	for rows.Next() {
		var building domain.Building
		if err := rows.Scan(&building.ID, &building.Name); err != nil {
			return nil, err
		}
		result = append(result, building)
	}
	return result, rows.Err()
}
