package boot

import (
	"hbs/src/common"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/models"
	"hbs/src/utils"
	"log"
	"time"

	"gorm.io/gorm"
)

// The exclusion constraint is the hard guarantee that two active
// reservations never overlap on the same room, even under concurrent
// inserts. Application-level availability checks are advisory.
const reservationOverlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap'
	) THEN
		ALTER TABLE reservations
			ADD CONSTRAINT reservations_no_overlap
			EXCLUDE USING gist (
				room_id WITH =,
				daterange(check_in_date, check_out_date) WITH &&
			)
			WHERE (status IN ('pending', 'confirmed'));
	END IF;
END
$$;
`

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.HotelStaff{},
		&models.RoomType{},
		&models.Room{},
		&models.Reservation{},
		&models.Payment{},
		&models.Review{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		log.Fatalf("error installing btree_gist: %s", err.Error())
	}
	if err := db.Exec(reservationOverlapConstraint).Error; err != nil {
		log.Fatalf("error installing overlap constraint: %s", err.Error())
	}

	return db
}

func InitBroker() {
	go lib.KafkaCreateTopics(
		"reservations-created",
		"reservations-confirmed",
		"reservations-cancelled",
	)
	go common.ReservationEventsConsumer()
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(utils.ExpireStaleReservations, time.Hour)
	if err != nil {
		log.Printf("Error scheduling expiry sweep: %s\n", err.Error())
	} else {
		log.Printf("Expiry sweep scheduled: %s\n", *id)
	}
	sched.Start()
	log.Println("Jobs in queue:", len(sched.Jobs()))
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}
