// Package reminder delivers due shift reminders.
package reminder

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"shiftgrab/internal/shift"
	"shiftgrab/internal/sms"
)

// Dispatcher sends unsent reminders whose send-at time has passed.
// Delivery is at-least-once: a failed send stays unsent and is retried
// on the next pass.
type Dispatcher struct {
	DB  *gorm.DB
	SMS *sms.Client
}

// RunOnce processes one batch of due reminders. An error sending or
// marking one reminder never aborts the rest of the batch.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	var due []shift.Reminder
	err := d.DB.WithContext(ctx).
		Where("sent = false AND send_at <= ?", time.Now()).
		Order("send_at asc").
		Find(&due).Error
	if err != nil {
		return err
	}

	for _, rem := range due {
		if err := d.SMS.Send(ctx, rem.PhoneNumber, rem.Message); err != nil {
			log.Printf("failed to send reminder to %s: %v\n", rem.PhoneNumber, err)
			continue
		}

		// Conditional mark-sent: a concurrent run that already took
		// this reminder leaves zero rows to update.
		res := d.DB.WithContext(ctx).Model(&shift.Reminder{}).
			Where("id = ? AND sent = false", rem.ID).
			Update("sent", true)
		if res.Error != nil {
			log.Printf("failed to mark reminder %d sent: %v\n", rem.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			log.Printf("reminder %d already handled, skipping\n", rem.ID)
			continue
		}
		log.Printf("reminder sent to %s\n", rem.PhoneNumber)
	}
	return nil
}

// Run executes RunOnce on a ticker until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.RunOnce(ctx); err != nil {
				log.Printf("dispatcher pass error: %v\n", err)
			}
		}
	}
}
