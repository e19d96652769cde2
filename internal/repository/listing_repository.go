package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"apartment-search/internal/filter"
	"apartment-search/internal/model"
)

// ErrNotFound is returned when no listing has the requested id.
var ErrNotFound = errors.New("listing not found")

const listingTable = "apartment_details"

var selectColumns = strings.Join(model.Columns, ", ")

// ListingRepository reads apartment_details through sqlx.
type ListingRepository struct {
	DB      *sqlx.DB
	dialect filter.Dialect
}

func NewListingRepository(db *sqlx.DB, dialect filter.Dialect) *ListingRepository {
	return &ListingRepository{DB: db, dialect: dialect}
}

// Find runs the plan's predicate, order and window.
func (r *ListingRepository) Find(ctx context.Context, plan filter.Plan) ([]model.Listing, error) {
	query := buildQuery(
		"SELECT "+selectColumns+" FROM "+listingTable,
		plan.Where(r.dialect),
		plan.OrderBy(r.dialect),
		plan.LimitClause(),
	)

	var list []model.Listing
	if err := r.DB.SelectContext(ctx, &list, query, plan.Args...); err != nil {
		return nil, fmt.Errorf("ListingRepository.Find: %w", err)
	}
	return list, nil
}

// Count returns how many rows match the plan's predicate, ignoring the window.
func (r *ListingRepository) Count(ctx context.Context, plan filter.Plan) (int, error) {
	query := buildQuery("SELECT COUNT(*) FROM "+listingTable, plan.Where(r.dialect))

	var count int
	if err := r.DB.GetContext(ctx, &count, query, plan.Args...); err != nil {
		return 0, fmt.Errorf("ListingRepository.Count: %w", err)
	}
	return count, nil
}

// GetByID returns ErrNotFound when the id does not exist.
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	query := "SELECT " + selectColumns + " FROM " + listingTable + " WHERE id = " + r.dialect.Placeholder(1)

	var l model.Listing
	err := r.DB.GetContext(ctx, &l, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.GetByID: %w", err)
	}
	return &l, nil
}

// Ping is the liveness probe.
func (r *ListingRepository) Ping(ctx context.Context) error {
	if err := r.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ListingRepository.Ping: %w", err)
	}
	return nil
}

func buildQuery(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
