package bot

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"tracker-bot/database"
	"tracker-bot/tracker"
)

var c *cron.Cron

// startScheduler schedules periodic hub lease renewal: every stored
// subscription gets its subscribe handshake re-issued so the hub does not
// let the lease lapse.
func startScheduler(trk *tracker.Tracker, subs *database.SubscriptionDB) {
	log.Println("Initializing scheduler...")
	c = cron.New()
	spec := viper.GetString("scheduler.renewSpec")
	_, err := c.AddFunc(spec, func() {
		renewLeases(trk, subs)
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}
	c.Start()
	log.Printf("Lease renewal scheduled with spec %q.", spec)

	if viper.GetBool("scheduler.renewAtStartup") {
		go func() {
			log.Println("Performing lease renewal on startup...")
			renewLeases(trk, subs)
		}()
	} else {
		log.Println("Skipping lease renewal on startup as per configuration.")
	}
}

func renewLeases(trk *tracker.Tracker, subs *database.SubscriptionDB) {
	all, err := subs.All()
	if err != nil {
		log.Printf("Lease renewal: could not list subscriptions: %v", err)
		return
	}
	renewed := 0
	for _, sub := range all {
		if err := trk.Renew(context.Background(), sub); err != nil {
			log.Printf("Lease renewal failed for subscription %d (%s): %v", sub.ID, sub.URL, err)
			continue
		}
		renewed++
	}
	log.Printf("Renewed hub leases for %d of %d subscriptions.", renewed, len(all))
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
