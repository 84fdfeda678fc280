package boot

import (
	"dtix/src/db"
	"dtix/src/lib"
	"dtix/src/lib/mailer"
	"dtix/src/models"
	"log"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Platform{},
		&models.Venue{},
		&models.Event{},
		&models.TicketType{},
		&models.SeatStatusMap{},
		&models.Ticket{},
		&models.Listing{},
		&models.Earnings{},
		&models.TransferRecord{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitBroker() {
	if _, err := lib.KafkaCreateTopics("seats-sold", "emails-out"); err != nil {
		log.Printf("Error creating topics: %s\n", err.Error())
	}
	if err := lib.KafkaConsume("dtix-api", []string{"seats-sold"}, func(value []byte) {
		log.Printf("seat sold: %s\n", string(value))
	}); err != nil {
		log.Printf("Error starting consumer: %s\n", err.Error())
	}
	if err := mailer.StartConsumer(); err != nil {
		log.Printf("Error starting mailer consumer: %s\n", err.Error())
	}
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
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
