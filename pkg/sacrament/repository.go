package sacrament

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Catalog exposes the sacrament types appointments can be booked for.
type Catalog interface {
	GetAll(ctx context.Context) ([]SacramentType, error)
	Exists(ctx context.Context, name string) (bool, error)
}

type CatalogImpl struct {
	db *sql.DB
}

func NewCatalog(db *sql.DB) *CatalogImpl {
	return &CatalogImpl{db: db}
}

func (c *CatalogImpl) GetAll(ctx context.Context) ([]SacramentType, error) {
	query := `SELECT id, name, display_name FROM sacrament_type ORDER BY id`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query sacrament types: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	types := make([]SacramentType, 0, 8)
	for rows.Next() {
		var st SacramentType
		if err := rows.Scan(&st.ID, &st.Name, &st.DisplayName); err != nil {
			err := fmt.Errorf("could not scan sacrament type: %w", err)
			log.Error(err)
			return nil, err
		}
		types = append(types, st)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return types, nil
}

func (c *CatalogImpl) Exists(ctx context.Context, name string) (bool, error) {
	query := `SELECT 1 FROM sacrament_type WHERE name = $1`

	var one int
	err := c.db.QueryRowContext(ctx, query, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not query sacrament type: %w", err)
		log.Error(err)
		return false, err
	}
	return true, nil
}
