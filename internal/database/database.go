package database

import (
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info().Msg("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Info().Str("dsn", dsn).Msg("Using SQLite for local development")

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema and, on PostgreSQL, the exclusion constraint
// that makes booking creation an atomic check-and-insert. The constraint
// covers every non-cancelled status: a pending hold is exclusive the moment
// it is written, so of two racing creations exactly one insert succeeds.
// Stale holds are rewritten to cancelled before insert (same transaction),
// which takes them out of the constraint.
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		// SQLite serializes writers, the in-transaction conflict check
		// in the booking repository is sufficient there.
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS idx_no_double_booking`,
		`ALTER TABLE bookings ADD CONSTRAINT idx_no_double_booking
			EXCLUDE USING gist (
				studio_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			)
			WHERE (status <> 'cancelled')`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
