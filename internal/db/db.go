package db

import (
	"fmt"

	"shiftgrab/internal/auth"
	"shiftgrab/internal/shift"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&shift.Job{},
		&shift.Shift{},
		&shift.PhoneNumber{},
		&shift.UserPreference{},
		&shift.Reminder{},
	); err != nil {
		return err
	}

	// Category membership lookups (GIN for text[])
	if err := gdb.Exec(`create index if not exists idx_phone_categories on phone_numbers using gin (categories);`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_reminders_due on reminders(sent, send_at);`,
		`create index if not exists idx_jobs_owner_status on jobs(user_id, status, created_at desc);`,
		`create index if not exists idx_phone_owner_name on phone_numbers(user_id, name);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
