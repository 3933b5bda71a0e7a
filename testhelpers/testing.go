package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"fairway/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL and applies the schema. Tests are
// skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, connString, database.PoolOptions{MaxConns: 20})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestTenant creates an active tenant and removes it, with everything it
// owns, when the test finishes.
func SetupTestTenant(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	slug := "test-" + tenantID.String()[:8]
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO tenants (id, slug, name, is_active) VALUES ($1, $2, $3, TRUE)`,
		tenantID, slug, "Test Golf Club")
	if err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		// bookings restrict slot deletion, so clear them before the cascade
		_, _ = db.Pool.Exec(ctx, `DELETE FROM bookings WHERE tenant_id = $1`, tenantID)
		_, _ = db.Pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, tenantID)
	})

	return tenantID
}

// SetupTestSlot creates a bookable tee time for the tenant.
func SetupTestSlot(t *testing.T, db *TestDB, tenantID uuid.UUID, date time.Time, startTime string, maxPlayers int) uuid.UUID {
	t.Helper()

	slotID := uuid.New()
	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO tee_time_slots (id, tenant_id, date, start_time, max_players, price_per_player, cart_fee)
		VALUES ($1, $2, $3, $4::time, $5, 45.00, 15.00)
	`, slotID, tenantID, date, startTime, maxPlayers)
	if err != nil {
		t.Fatalf("Failed to create test slot: %v", err)
	}

	return slotID
}

// SlotCounter reads booked_players straight from the table.
func SlotCounter(t *testing.T, db *TestDB, tenantID, slotID uuid.UUID) (booked, max int) {
	t.Helper()

	err := db.Pool.QueryRow(context.Background(),
		`SELECT booked_players, max_players FROM tee_time_slots WHERE tenant_id = $1 AND id = $2`,
		tenantID, slotID).Scan(&booked, &max)
	if err != nil {
		t.Fatalf("Failed to read slot counter: %v", err)
	}
	return booked, max
}

// ActivePlayers sums players over the slot's pending and confirmed bookings.
func ActivePlayers(t *testing.T, db *TestDB, tenantID, slotID uuid.UUID) int {
	t.Helper()

	var total int
	err := db.Pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(players), 0) FROM bookings
		WHERE tenant_id = $1 AND tee_time_slot_id = $2 AND status IN ('pending', 'confirmed')
	`, tenantID, slotID).Scan(&total)
	if err != nil {
		t.Fatalf("Failed to sum bookings: %v", err)
	}
	return total
}
