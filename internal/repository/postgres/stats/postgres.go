package stats

import (
	"context"

	statsdomain "census-app-go/internal/domain/stats"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) RecordsByType(ctx context.Context) ([]statsdomain.Count, error) {
	return r.counts(ctx, "SELECT t.name AS label, COUNT(c.id) AS total "+
		"FROM census_types t LEFT JOIN census_records c ON c.census_type_id = t.id "+
		"GROUP BY t.id, t.name ORDER BY t.id")
}

func (r *PostgresRepository) RecordsByWasteType(ctx context.Context) ([]statsdomain.Count, error) {
	return r.counts(ctx, "SELECT c.waste_type AS label, COUNT(*) AS total "+
		"FROM census_records c GROUP BY c.waste_type ORDER BY total DESC, label ASC")
}

func (r *PostgresRepository) SectorsByZone(ctx context.Context) ([]statsdomain.Count, error) {
	return r.counts(ctx, "SELECT z.name AS label, COUNT(s.id) AS total "+
		"FROM zones z LEFT JOIN sectors s ON s.zone_id = z.id "+
		"GROUP BY z.id, z.name ORDER BY z.name")
}

func (r *PostgresRepository) UsersByRole(ctx context.Context) ([]statsdomain.Count, error) {
	return r.counts(ctx, "SELECT u.role AS label, COUNT(*) AS total FROM users u GROUP BY u.role ORDER BY u.role")
}

func (r *PostgresRepository) counts(ctx context.Context, query string) ([]statsdomain.Count, error) {
	var rows []struct {
		Label string `gorm:"column:label"`
		Total int64  `gorm:"column:total"`
	}
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]statsdomain.Count, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, statsdomain.Count{Label: row.Label, Total: row.Total})
	}
	return counts, nil
}
