package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"poker-colosseum/server/arena"
	"poker-colosseum/server/equity"
	"poker-colosseum/server/llm"
	"poker-colosseum/server/store"
)

func mustEnv(keys ...string) {
	for _, k := range keys {
		if os.Getenv(k) == "" {
			log.Fatalf("Missing required env var %s. Put it in .env (dev) or set it on the host (prod).", k)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	_ = godotenv.Load()

	var migrate bool
	for _, a := range os.Args[1:] {
		if a == "--migrate" {
			migrate = true
		}
	}

	// Only require generation credentials when not doing a pure migrate.
	if !migrate && !llm.HaveCredentials() {
		log.Fatal("Missing LLM credentials: set GEMINI_API_KEY (or OPENAI_API_KEY/OPENROUTER_API_KEY).")
	}

	mustEnv("DATABASE_URL")
	dsn := getenv("DATABASE_URL", "")
	port := getenv("PORT", "8080")

	db, err := store.Open(dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close(context.Background())

	if asBool(os.Getenv("AUTO_MIGRATE")) || migrate {
		if err := store.Migrate(context.Background(), db); err != nil {
			log.Fatal(err)
		}
		log.Println("migrated")
		if migrate {
			return
		}
	}

	producer := &arena.Producer{
		Complete:    llm.Complete,
		FourPersona: strings.EqualFold(getenv("PERSONA_MODE", "three"), "four"),
		HandEquity: func(combo string) (float64, bool) {
			return equity.PreflopVsRandom(combo, 0)
		},
	}
	ctrl := &arena.Controller{Store: db, Producer: producer}

	r := Router(db, ctrl, producer)
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Generation requests hold the connection while the model call
		// (up to 45s) runs.
		WriteTimeout: 120 * time.Second,
	}
	log.Printf("listening on http://localhost:%s (Ctrl+C to stop)", port)
	log.Fatal(srv.ListenAndServe())
}
