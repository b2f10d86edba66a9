package database

import (
	"fmt"

	"github.com/chachabrian/rentmyride-backend/internal/models"
	"gorm.io/gorm"
)

// OverlapConstraint is the exclusion constraint preventing two committed
// bookings of one vehicle from sharing any instant.
const OverlapConstraint = "booking_no_overlap_excl"

// BookingPeriodTrigger keeps bookings.booking_period in step with the dates.
// A booking whose end equals its start holds the vehicle for one day, the
// same day it is billed for.
const BookingPeriodTrigger = "trg_booking_period"

const bookingPeriodFunc = "set_booking_period"

// ReviewTrigger rejects reviews whose booking is not COMPLETED.
const ReviewTrigger = "trg_review_booking_completed"

// schemaPatches run after AutoMigrate. Each statement is idempotent so
// migrations can run on every start.
var schemaPatches = []struct {
	name string
	sql  string
}{
	{
		name: "btree_gist extension",
		sql:  `CREATE EXTENSION IF NOT EXISTS btree_gist`,
	},
	{
		// replaced by the trigger-maintained column below
		name: "drop generated booking_period",
		sql: `DO $$ BEGIN
			IF EXISTS (
				SELECT 1 FROM pg_attribute
				WHERE attrelid = 'bookings'::regclass AND attname = 'booking_period' AND attgenerated <> ''
			) THEN
				ALTER TABLE bookings DROP COLUMN booking_period;
			END IF;
		END $$`,
	},
	{
		name: "booking_period column",
		sql:  `ALTER TABLE bookings ADD COLUMN IF NOT EXISTS booking_period tstzrange`,
	},
	{
		name: "booking_period function",
		sql: `CREATE OR REPLACE FUNCTION ` + bookingPeriodFunc + `() RETURNS trigger AS $$
		BEGIN
			NEW.booking_period := tstzrange(
				NEW.start_date,
				CASE WHEN NEW.end_date > NEW.start_date THEN NEW.end_date ELSE NEW.start_date + interval '24 hours' END,
				'[)');
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`,
	},
	{
		name: "booking_period trigger",
		sql: `DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = '` + BookingPeriodTrigger + `') THEN
				CREATE TRIGGER ` + BookingPeriodTrigger + ` BEFORE INSERT OR UPDATE ON bookings
					FOR EACH ROW EXECUTE FUNCTION ` + bookingPeriodFunc + `();
			END IF;
		END $$`,
	},
	{
		name: "booking_period backfill",
		sql:  `UPDATE bookings SET start_date = start_date WHERE booking_period IS NULL`,
	},
	{
		name: "booking date order check",
		sql: `DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'booking_dates_order_chk') THEN
				ALTER TABLE bookings ADD CONSTRAINT booking_dates_order_chk CHECK (end_date >= start_date);
			END IF;
		END $$`,
	},
	{
		name: "booking overlap exclusion",
		sql: `DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + OverlapConstraint + `') THEN
				ALTER TABLE bookings ADD CONSTRAINT ` + OverlapConstraint + `
					EXCLUDE USING gist (vehicle_id WITH =, booking_period WITH &&)
					WHERE (status IN ('CONFIRMED', 'ACTIVE', 'COMPLETED'));
			END IF;
		END $$`,
	},
	{
		name: "booking status check",
		sql: `DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'booking_status_chk') THEN
				ALTER TABLE bookings ADD CONSTRAINT booking_status_chk
					CHECK (status IN ('PENDING', 'CONFIRMED', 'ACTIVE', 'COMPLETED', 'CANCELLED'));
			END IF;
		END $$`,
	},
	{
		name: "review completed booking function",
		sql: `CREATE OR REPLACE FUNCTION review_requires_completed_booking() RETURNS trigger AS $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM bookings WHERE id = NEW.booking_id AND status = 'COMPLETED') THEN
				RAISE EXCEPTION 'review requires a COMPLETED booking' USING ERRCODE = 'check_violation';
			END IF;
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`,
	},
	{
		name: "review completed booking trigger",
		sql: `DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = '` + ReviewTrigger + `') THEN
				CREATE TRIGGER ` + ReviewTrigger + ` BEFORE INSERT ON reviews
					FOR EACH ROW EXECUTE FUNCTION review_requires_completed_booking();
			END IF;
		END $$`,
	},
}

// RunMigrations creates or updates every table, then applies the raw SQL
// gorm cannot express.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.NotificationPreference{},
		&models.Business{},
		&models.Vehicle{},
		&models.VehiclePhoto{},
		&models.Booking{},
		&models.Payment{},
		&models.Message{},
		&models.MessageArchive{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, patch := range schemaPatches {
		if err := db.Exec(patch.sql).Error; err != nil {
			return fmt.Errorf("apply %s: %w", patch.name, err)
		}
	}
	return nil
}
