package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"doorlist/internal/application"
	"doorlist/internal/domain/entities"
	"doorlist/internal/infrastructure/database"
)

const usage = `guestctl manages an event's guest list.

usage:
  guestctl add  -event <uuid> -name <name> [-phone <phone>] [-category vip|regular|family]
  guestctl list -event <uuid>
  guestctl remove <guest uuid>
  guestctl undo   <guest uuid>

DATABASE_URL is read from the environment (or .env).`

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "postgres://localhost:5432/doorlist?sslmode=disable"
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	guestRepo := database.NewGuestRepository(pool)
	guests := application.NewGuestService(guestRepo, log)
	checkins := application.NewCheckInService(guestRepo, log)

	switch os.Args[1] {
	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		event := fs.String("event", "", "event id (uuid)")
		name := fs.String("name", "", "guest name")
		phone := fs.String("phone", "", "guest phone")
		category := fs.String("category", string(entities.CategoryRegular), "vip|regular|family")
		_ = fs.Parse(os.Args[2:])

		eventID := mustUUID(*event, "-event")
		guest, err := guests.CreateGuest(ctx, eventID, *name, *phone, entities.Category(*category))
		if err != nil {
			log.Fatal().Err(err).Msg("create guest failed")
		}
		fmt.Printf("%s  %s  code=%s\n", guest.ID, guest.Name, guest.ScanCode)

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		event := fs.String("event", "", "event id (uuid)")
		_ = fs.Parse(os.Args[2:])

		eventID := mustUUID(*event, "-event")
		all, err := guests.ListGuests(ctx, eventID)
		if err != nil {
			log.Fatal().Err(err).Msg("list guests failed")
		}
		for _, g := range all {
			mark := " "
			if g.CheckedIn {
				mark = "✔"
			}
			fmt.Printf("[%s] %s  %-24s %-10s code=%s\n", mark, g.ID, g.Name, g.Category, g.ScanCode)
		}

	case "remove":
		id := mustUUID(argAt(2), "guest id")
		if err := guests.DeleteGuest(ctx, id); err != nil {
			log.Fatal().Err(err).Msg("remove guest failed")
		}
		fmt.Println("removed")

	case "undo":
		id := mustUUID(argAt(2), "guest id")
		guest, err := checkins.UndoCheckIn(ctx, id)
		if err != nil {
			log.Fatal().Err(err).Msg("undo check-in failed")
		}
		fmt.Printf("%s is no longer checked in\n", guest.Name)

	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func argAt(i int) string {
	if len(os.Args) <= i {
		return ""
	}
	return os.Args[i]
}

func mustUUID(s, what string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s must be a UUID (got %q)\n", what, s)
		os.Exit(2)
	}
	return id
}
