package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the status and pricing checks the state machines rely on.
func MigrateConstraints(db *gorm.DB) error {
	statements := []string{
		`ALTER TABLE reservations DROP CONSTRAINT IF EXISTS chk_reservations_status`,
		`ALTER TABLE reservations ADD CONSTRAINT chk_reservations_status
			CHECK (status IN ('réservé', 'finalisé', 'annulé'))`,

		`ALTER TABLE discussion_reservations DROP CONSTRAINT IF EXISTS chk_discussions_status`,
		`ALTER TABLE discussion_reservations ADD CONSTRAINT chk_discussions_status
			CHECK (status IN ('réponse_client', 'réponse_admin', 'finalisé', 'annulé'))`,

		// An awaiting-client discussion always carries a counter-offer
		`ALTER TABLE discussion_reservations DROP CONSTRAINT IF EXISTS chk_discussions_admin_price`,
		`ALTER TABLE discussion_reservations ADD CONSTRAINT chk_discussions_admin_price
			CHECK (status <> 'réponse_admin' OR admin_price IS NOT NULL)`,

		`ALTER TABLE services DROP CONSTRAINT IF EXISTS chk_services_pricing`,
		`ALTER TABLE services ADD CONSTRAINT chk_services_pricing
			CHECK ((pricing_mode = 'fixed' AND price > 0) OR (pricing_mode = 'on_quote' AND price IS NULL))`,

		`CREATE INDEX IF NOT EXISTS idx_discussions_client_created
			ON discussion_reservations (client_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_client_created
			ON reservations (client_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
