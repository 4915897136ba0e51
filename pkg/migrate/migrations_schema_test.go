package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kartik48/sunitas-creations/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestInitSchemaMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CHECK (price >= 0)",
		"CHECK (stock_quantity >= 0)",
		"CHECK (quantity > 0)",
		"CHECK (user_id IS NOT NULL OR session_id IS NOT NULL)",
		"CREATE UNIQUE INDEX idx_orders_order_number ON orders (order_number);",
		"CREATE UNIQUE INDEX idx_cart_items_user_product ON cart_items (user_id, product_id) WHERE user_id IS NOT NULL;",
		"CREATE UNIQUE INDEX idx_cart_items_session_product ON cart_items (session_id, product_id) WHERE session_id IS NOT NULL;",
		"CREATE INDEX idx_orders_user_created ON orders (user_id, created_at DESC, id DESC);",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
