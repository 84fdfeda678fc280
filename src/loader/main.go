package main

import (
	"fmt"
	"io"
	"os"

	"ariga.io/atlas-provider-gorm/gormschema"

	"dtix/src/models"
)

// Atlas external schema loader. Prints the DDL for the full model set
// so migrations can be diffed against the live database.
func main() {
	stmts, err := gormschema.New("postgres").Load(
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
		fmt.Fprintf(os.Stderr, "failed to load gorm schema: %v\n", err)
		os.Exit(1)
	}
	io.WriteString(os.Stdout, stmts)
}
