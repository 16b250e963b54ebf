// Package seed fills a database with sample accounts and posts for local
// development.
package seed

import (
	"fmt"
	"log/slog"

	"scribe/internal/models"

	"gorm.io/gorm"
)

// Options controls how much data a seed run produces.
type Options struct {
	NumAccounts     int
	PostsPerAccount int
	// MaxDays bounds how far back post timestamps are spread. Defaults to 90.
	MaxDays int
	// Clean removes existing sessions, posts and accounts first.
	Clean bool
	// DryRun builds everything in memory and logs instead of writing.
	DryRun   bool
	FastHash bool
	// BcryptCost is ignored when FastHash is set.
	BcryptCost int
	// RandSeed makes output reproducible when non-zero.
	RandSeed int64
}

// Result summarizes a seed run.
type Result struct {
	Accounts []*models.Account
	Posts    int
}

// Seed populates db according to opts.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	if db == nil && !opts.DryRun {
		return nil, fmt.Errorf("seed: database is required unless dry-run is set")
	}
	if opts.NumAccounts < 0 || opts.PostsPerAccount < 0 {
		return nil, fmt.Errorf("seed: counts must not be negative")
	}

	if opts.Clean && !opts.DryRun {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("seed: clean: %w", err)
		}
		slog.Info("seed: cleared existing data")
	}

	if opts.DryRun {
		return run(NewFactory(db, opts), opts)
	}

	var result *Result
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = run(NewFactory(tx, opts), opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func run(f *Factory, opts Options) (*Result, error) {
	result := &Result{Accounts: make([]*models.Account, 0, opts.NumAccounts)}

	for i := 1; i <= opts.NumAccounts; i++ {
		account, err := f.CreateAccount(i)
		if err != nil {
			return nil, fmt.Errorf("seed: account %d: %w", i, err)
		}
		result.Accounts = append(result.Accounts, account)

		posts, err := f.CreatePostsBatch(account, opts.PostsPerAccount)
		if err != nil {
			return nil, fmt.Errorf("seed: posts for %s: %w", account.Username, err)
		}
		result.Posts += len(posts)
	}

	slog.Info("seed: done",
		"accounts", len(result.Accounts),
		"posts", result.Posts,
		"dry_run", opts.DryRun,
	)
	return result, nil
}

// clearData removes rows in dependency order. Soft-deleted posts are purged too.
func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Session{}, &models.Post{}, &models.Account{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
