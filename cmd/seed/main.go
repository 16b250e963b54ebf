// Command seed fills the configured database with sample accounts and posts.
package main

import (
	"flag"
	"log"

	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numAccounts := flag.Int("accounts", 10, "Number of accounts to create")
	postsPer := flag.Int("posts", 5, "Posts per account")
	maxDays := flag.Int("max-days", 90, "Spread post timestamps over this many days")
	clean := flag.Bool("clean", false, "Remove existing sessions, posts and accounts first")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	fast := flag.Bool("fast-hash", true, "Hash the seed password at the minimum bcrypt cost")
	flag.Parse()

	_ = godotenv.Load()

	log.Printf("Seeding %d accounts with %d posts each (clean=%v, dry-run=%v)", *numAccounts, *postsPer, *clean, *dryRun)

	opts := seed.Options{
		NumAccounts:     *numAccounts,
		PostsPerAccount: *postsPer,
		MaxDays:         *maxDays,
		Clean:           *clean,
		DryRun:          *dryRun,
		FastHash:        *fast,
	}

	if *dryRun {
		if _, err := seed.Seed(nil, opts); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	opts.BcryptCost = cfg.BcryptCost

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	res, err := seed.Seed(db, opts)
	_ = database.Close(db)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d accounts and %d posts; every password is %q", len(res.Accounts), res.Posts, seed.DefaultPassword)
}
