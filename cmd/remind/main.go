// Command remind delivers due shift reminders. By default it runs a
// single pass and exits, which suits a cron or scheduled-job setup;
// -interval keeps it running on a ticker instead.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shiftgrab/internal/config"
	"shiftgrab/internal/db"
	"shiftgrab/internal/reminder"
	"shiftgrab/internal/sms"
)

func main() {
	interval := flag.Duration("interval", 0, "run continuously, polling at this interval (0 = single pass)")
	flag.Parse()

	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	d := &reminder.Dispatcher{
		DB:  gdb,
		SMS: sms.NewClient(cfg.SMSEndpoint, cfg.SMSAPIKey),
	}

	if *interval <= 0 {
		if err := d.RunOnce(context.Background()); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx, *interval)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	// let an in-flight pass wind down
	time.Sleep(time.Second)
}
