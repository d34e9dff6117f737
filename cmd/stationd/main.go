package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"doorlist/internal/adapters/station"
	"doorlist/internal/application"
	"doorlist/internal/config"
	"doorlist/internal/domain/entities"
	"doorlist/internal/infrastructure/database"
	"doorlist/internal/infrastructure/i18n"
	"doorlist/internal/infrastructure/realtime"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()
	log.Info().Msg("✅ database connected")

	guestRepo := database.NewGuestRepository(pool)
	checkins := application.NewCheckInService(guestRepo, log)
	translator := i18n.NewTranslator(cfg.Locale)
	feedback := station.NewTerminalFeedback(os.Stdout, translator, cfg.Locale)
	bus := realtime.NewListener(cfg.DatabaseURL, log)

	st := station.New(cfg.StationID, cfg.EventID, checkins, guestRepo, bus, feedback, log)

	decoder := newLineDecoder()
	go runConsole(ctx, st, decoder, stop)

	fmt.Printf("🎟️  station %s ready, scan codes or type /help\n", cfg.StationID)
	if err := st.Run(ctx, decoder); err != nil {
		log.Fatal().Err(err).Msg("station terminated")
	}
}

// lineDecoder stands in for the opaque camera decoder: every plain stdin
// line is one decoded payload. Console commands (lines starting with "/")
// are intercepted before they reach it.
type lineDecoder struct {
	payloads chan string
	err      error
}

func newLineDecoder() *lineDecoder {
	return &lineDecoder{payloads: make(chan string)}
}

func (d *lineDecoder) Payloads() <-chan string { return d.payloads }
func (d *lineDecoder) Err() error              { return d.err }

// runConsole owns stdin: plain lines feed the decoder, slash commands drive
// the manual path. The manual path keeps working even after the decoder
// channel is closed.
func runConsole(ctx context.Context, st *station.Station, decoder *lineDecoder, quit func()) {
	var results []entities.Guest
	in := bufio.NewScanner(os.Stdin)

	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "/") {
			select {
			case decoder.payloads <- line:
			case <-ctx.Done():
				return
			}
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case "/find":
			results = st.Search(arg)
			if len(results) == 0 {
				fmt.Println("no matches")
				continue
			}
			for i, g := range results {
				fmt.Printf("%2d. %s %s\n", i+1, g.Name, statusMark(g))
			}
		case "/checkin":
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || n < 1 || n > len(results) {
				fmt.Println("usage: /checkin <result number> (after /find)")
				continue
			}
			if err := st.CheckInManual(ctx, results[n-1].ID); err != nil {
				fmt.Printf("cannot check in: %v\n", err)
			}
		case "/list":
			for _, g := range st.Guests() {
				fmt.Printf("%s %s\n", statusMark(g), g.Name)
			}
		case "/help":
			fmt.Println("scan: type a code | /find <text> | /checkin <n> | /list | /quit")
		case "/quit":
			quit()
			return
		default:
			fmt.Printf("unknown command %s (try /help)\n", cmd)
		}
	}

	decoder.err = in.Err()
	close(decoder.payloads)
}

func statusMark(g entities.Guest) string {
	if g.CheckedIn {
		return "[✔ " + g.CheckedInAt.Local().Format("15:04") + "]"
	}
	return "[ ]"
}
