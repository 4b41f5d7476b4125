package database

import (
	"florist/internal/catalog"
	"florist/internal/discussions"
	"florist/internal/reservations"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Service{},
		&reservations.Reservation{},
		&discussions.DiscussionReservation{},
	)
}
