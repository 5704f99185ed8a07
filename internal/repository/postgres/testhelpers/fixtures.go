package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/landcover-microservice/internal/domain"
)

// CountBlobs returns the number of stored documents in a collection
func CountBlobs(db *sql.DB, collection string) (int, error) {
	var n int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM blobs WHERE collection = $1", collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count blobs in %s: %w", collection, err)
	}
	return n, nil
}

// SampleProfile returns a complete calibration profile for round-trip tests
func SampleProfile(id string, createdAt time.Time) *domain.Profile {
	return &domain.Profile{
		ID:   id,
		Name: "sample " + id,
		Ranges: domain.Ranges{
			domain.ClassTrees:  {Low: domain.HSV{55, 178, 124}, High: domain.HSV{65, 208, 154}},
			domain.ClassFields: {Low: domain.HSV{18, 113, 165}, High: domain.HSV{28, 143, 195}},
		},
		LowPercentile:  10,
		HighPercentile: 90,
		Pad:            domain.HSV{5, 15, 15},
		CenterFraction: 1,
		SampleCounts:   map[string]int{domain.ClassTrees: 400, domain.ClassFields: 250},
		CreatedAt:      createdAt.UTC().Truncate(time.Microsecond),
	}
}
