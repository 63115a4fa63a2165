// cmd/migrate/main.go
// Imports users and recipes from a legacy MySQL recipeshare database into
// the local PostgreSQL database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/recipeshare?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/recipeshare/config"
	bundb "github.com/padraicbc/recipeshare/db"
	"github.com/padraicbc/recipeshare/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/recipeshare?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// Disable FK enforcement so recipes can load without strict ordering
	if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
		log.Fatalf("disable FK: %v", err)
	}
	defer func() {
		if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'origin'"); err != nil {
			log.Printf("re-enable FK: %v", err)
		}
	}()

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"users", func() (int, error) { return migrateUsers(ctx, myDB, pgDB) }},
		{"recipes", func() (int, error) { return migrateRecipes(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-10s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

// --- helpers ---

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func migrateUsers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, username, password_hash, image_url, bio FROM users")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []*models.User
	total := 0
	for rows.Next() {
		var (
			u        models.User
			imageURL sql.NullString
			bio      sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &imageURL, &bio); err != nil {
			return total, err
		}
		u.ImageURL = nullStr(imageURL)
		u.Bio = nullStr(bio)

		batch = append(batch, &u)
		if len(batch) == batchSize {
			if err := insertUsers(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := insertUsers(ctx, pgDB, batch); err != nil {
			return total, err
		}
		total += len(batch)
	}
	return total, rows.Err()
}

func insertUsers(ctx context.Context, pgDB *bun.DB, batch []*models.User) error {
	_, err := pgDB.NewInsert().Model(&batch).
		On("CONFLICT (username) DO NOTHING").
		Exec(ctx)
	return err
}

func migrateRecipes(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, title, instructions, minutes_to_complete, user_id FROM recipes")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []*models.Recipe
	total := 0
	for rows.Next() {
		var r models.Recipe
		if err := rows.Scan(&r.ID, &r.Title, &r.Instructions, &r.MinutesToComplete, &r.UserID); err != nil {
			return total, err
		}

		batch = append(batch, &r)
		if len(batch) == batchSize {
			if err := insertRecipes(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := insertRecipes(ctx, pgDB, batch); err != nil {
			return total, err
		}
		total += len(batch)
	}
	return total, rows.Err()
}

func insertRecipes(ctx context.Context, pgDB *bun.DB, batch []*models.Recipe) error {
	_, err := pgDB.NewInsert().Model(&batch).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	return err
}

// resetSequences bumps the serial sequences past the imported ids so new
// inserts don't collide.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	for _, table := range []string{"users", "recipes"} {
		stmt := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), COALESCE(MAX(id), 1)) FROM " + table
		if _, err := pgDB.ExecContext(ctx, stmt); err != nil {
			log.Printf("reset sequence %s: %v", table, err)
		}
	}
}
