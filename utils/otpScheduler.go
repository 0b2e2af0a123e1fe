package utils

import (
	"log"
	"pulse/database"
	"pulse/models"
	"time"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[OTP-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// purgeStaleOTPs hard-deletes verification codes that are used or expired.
// Codes are single-use with a 5 minute lifetime, so anything older than an
// hour is dead weight.
func purgeStaleOTPs() {
	db := database.Database.Db
	cutoff := time.Now().Add(-1 * time.Hour)

	result := db.Unscoped().
		Where("is_used = ? OR expires_at < ?", true, cutoff).
		Delete(&models.OTP{})
	if result.Error != nil {
		logScheduler("Error purging stale OTPs: " + result.Error.Error())
		return
	}

	if result.RowsAffected > 0 {
		logScheduler("Purged stale OTP records")
	}
}

// StartOTPCleanup runs the OTP purge once a day.
func StartOTPCleanup() {
	c := cron.New()

	if _, err := c.AddFunc("@daily", purgeStaleOTPs); err != nil {
		log.Fatalf("Failed to schedule OTP cleanup: %v", err)
	}

	c.Start()
	logScheduler("OTP cleanup scheduled")
}
