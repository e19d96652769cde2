package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apartment-search/internal/config"
	"apartment-search/internal/database"
	"apartment-search/internal/filter"
	"apartment-search/internal/model"
)

const schema = `CREATE TABLE apartment_details (
	id INTEGER PRIMARY KEY,
	refid TEXT,
	apt_result_apartment_name TEXT,
	apt_result_address TEXT,
	apt_result_unit_number TEXT,
	apt_result_floorplan TEXT,
	apt_result_sqft TEXT,
	apt_result_bed TEXT,
	apt_result_bath TEXT,
	apt_result_min_rent TEXT,
	apt_result_max_rent TEXT,
	apt_result_available_date_formatted DATE,
	state TEXT
)`

func newTestDB(t *testing.T, rows []model.Listing) *sqlx.DB {
	t.Helper()
	db, dialect, err := database.Open(config.StoreConfig{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.Equal(t, filter.SQLite, dialect)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)

	insert := `INSERT INTO apartment_details (
		id, refid, apt_result_apartment_name, apt_result_address, apt_result_unit_number,
		apt_result_floorplan, apt_result_sqft, apt_result_bed, apt_result_bath,
		apt_result_min_rent, apt_result_max_rent, apt_result_available_date_formatted, state
	) VALUES (
		:id, :refid, :apt_result_apartment_name, :apt_result_address, :apt_result_unit_number,
		:apt_result_floorplan, :apt_result_sqft, :apt_result_bed, :apt_result_bath,
		:apt_result_min_rent, :apt_result_max_rent, :apt_result_available_date_formatted, :state
	)`
	for _, r := range rows {
		_, err := db.NamedExec(insert, r)
		require.NoError(t, err)
	}
	return db
}

func ids(rows []model.Listing) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func intPtr(v int) *int { return &v }

// parityRows extends the sample set with names whose order differs between
// byte and locale collation, and with non-ASCII case pairs.
func parityRows() []model.Listing {
	s, d := model.Str, model.Date
	return append(DefaultSampleRows(),
		model.Listing{ID: 9, Name: s("apple Ct"), Address: s("1 Orchard Ln"), Bed: s("1 Bed"), Bath: s("1 Bath"),
			MinRent: s("$1,200"), AvailableDate: d("2024-06-01"), State: s("WA")},
		model.Listing{ID: 10, Name: s("Élan Place"), Address: s("2 Rue Ave"), Bed: s("2 Bed"), Bath: s("1 Bath"),
			MinRent: s("$2,000"), AvailableDate: d("2024-06-02"), State: s("WA")},
		model.Listing{ID: 11, Name: s("zephyr Row"), Address: s("ÉCOLE ST"), Bed: s("3 Bed"), Bath: s("2 Bath"),
			MinRent: s("$980"), AvailableDate: d("2024-06-03"), State: s("WA")},
	)
}

func TestListingRepository_MatchesSampleRepository(t *testing.T) {
	rows := parityRows()
	db := newTestDB(t, rows)
	store := NewListingRepository(db, filter.SQLite)
	sample := NewSampleRepository(rows)
	ctx := context.Background()

	cases := []model.FilterCriteria{
		{},
		{Name: "oak"},
		{Name: "EXAMPLE"},
		{Name: "100%"},
		{Name: "o_k"},
		{State: "tx"},
		{State: "NY"},
		{Bed: "2"},
		{Bed: "20"},
		{Bath: "1"},
		{Bed: "2", Bath: "2"},
		{Name: "oak", State: "CA"},
		{Name: "e", Bed: "2", Bath: "1", State: "TX"},
		{SortBy: "name"},
		{SortBy: "name", Order: "desc"},
		{SortBy: "minRent", Order: "desc"},
		{SortBy: "availableDate", Order: "desc"},
		{Page: intPtr(0), Size: intPtr(3)},
		{Page: intPtr(1), Size: intPtr(3)},
		{Page: intPtr(2), Size: intPtr(3)},
		{Page: intPtr(9), Size: intPtr(3)},
		{Bed: "2", Page: intPtr(0), Size: intPtr(2), SortBy: "name"},
		{SortBy: "name", Page: intPtr(0), Size: intPtr(4)},
		{SortBy: "name", Page: intPtr(2), Size: intPtr(4)},
		{SortBy: "name", Order: "desc", Page: intPtr(0), Size: intPtr(3)},
		{SortBy: "minRent", Page: intPtr(1), Size: intPtr(5)},
		{Name: "élan"},
		{Name: "ÉLAN"},
		{Name: "école"},
		{Name: "APPLE"},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%02d", i), func(t *testing.T) {
			plan := filter.Compile(c)

			got, err := store.Find(ctx, plan)
			require.NoError(t, err)
			want, err := sample.Find(ctx, plan)
			require.NoError(t, err)
			assert.Equal(t, ids(want), ids(got))

			gotCount, err := store.Count(ctx, plan)
			require.NoError(t, err)
			wantCount, err := sample.Count(ctx, plan)
			require.NoError(t, err)
			assert.Equal(t, wantCount, gotCount)
		})
	}
}

func TestListingRepository_UnicodeContains(t *testing.T) {
	store := NewListingRepository(newTestDB(t, parityRows()), filter.SQLite)

	got, err := store.Find(context.Background(), filter.Compile(model.FilterCriteria{Name: "élan"}))
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, ids(got))

	got, err = store.Find(context.Background(), filter.Compile(model.FilterCriteria{Name: "école"}))
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, ids(got), "address folds too")
}

func TestListingRepository_NameSortIsByteOrder(t *testing.T) {
	store := NewListingRepository(newTestDB(t, parityRows()), filter.SQLite)

	got, err := store.Find(context.Background(), filter.Compile(model.FilterCriteria{SortBy: "name", Page: intPtr(0), Size: intPtr(3)}))
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 2, 5}, ids(got), "uppercase names sort before lowercase ones")
}

func TestListingRepository_NumericPrefix(t *testing.T) {
	s := model.Str
	rows := []model.Listing{
		{ID: 1, Bed: s("2 Bed")},
		{ID: 2, Bed: s("2")},
		{ID: 3, Bed: s("20 Bed")},
		{ID: 4, Bed: s("12 Bed")},
		{ID: 5, Bed: s("02 Bed")},
		{ID: 6, Bed: s("Studio")},
		{ID: 7},
	}
	store := NewListingRepository(newTestDB(t, rows), filter.SQLite)

	got, err := store.Find(context.Background(), filter.Compile(model.FilterCriteria{Bed: "2", SortBy: "name"}))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids(got))
}

func TestListingRepository_GetByID(t *testing.T) {
	rows := DefaultSampleRows()
	store := NewListingRepository(newTestDB(t, rows), filter.SQLite)
	ctx := context.Background()

	l, err := store.GetByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, l.Name)
	assert.Equal(t, "Example Heights", *l.Name)
	require.NotNil(t, l.AvailableDate)
	assert.Equal(t, "2024-05-15", l.AvailableDate.Format("2006-01-02"))

	l, err = store.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, l.AvailableDate)

	_, err = store.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListingRepository_PingAfterClose(t *testing.T) {
	db := newTestDB(t, nil)
	store := NewListingRepository(db, filter.SQLite)
	require.NoError(t, store.Ping(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, store.Ping(context.Background()))

	_, err := store.Find(context.Background(), filter.Compile(model.FilterCriteria{}))
	assert.Error(t, err)
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "SELECT 1 LIMIT 5", buildQuery("SELECT 1", "", "LIMIT 5"))
	assert.Equal(t, "SELECT 1", buildQuery("SELECT 1", "", ""))
}
