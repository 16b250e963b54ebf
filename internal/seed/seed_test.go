package seed

import (
	"testing"
	"time"
	"unicode/utf8"

	"scribe/internal/models"
	"scribe/internal/testutil"
	"scribe/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

func TestBuildAccount_UsernameWithinLimits(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, RandSeed: 42})

	seen := map[string]bool{}
	for _, n := range []int{1, 9, 10, 99, 12345, 1234567890} {
		a := f.BuildAccount(n)
		if err := validation.ValidateUsername(a.Username); err != nil {
			t.Fatalf("username %q (n=%d) is invalid: %v", a.Username, n, err)
		}
		if seen[a.Username] {
			t.Fatalf("duplicate username %q", a.Username)
		}
		seen[a.Username] = true
	}
}

func TestBuildPost_RespectsLimitsAndSpread(t *testing.T) {
	opts := Options{DryRun: true, MaxDays: 30, RandSeed: 7}
	f := NewFactory(nil, opts)
	account := &models.Account{ID: 3, Username: "writer"}

	for i := 0; i < 50; i++ {
		p := f.BuildPost(account)
		if err := validation.ValidatePost(p.Title, p.Body); err != nil {
			t.Fatalf("generated post is invalid: %v (title=%q, body runes=%d)", err, p.Title, utf8.RuneCountInString(p.Body))
		}
		if p.AccountID != account.ID {
			t.Fatalf("expected owner %d, got %d", account.ID, p.AccountID)
		}
		if time.Since(p.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
			t.Fatalf("created_at too old: %v", p.CreatedAt)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo wörld", 5); got != "héllo" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateRunes("  ab  ", 10); got != "ab" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestSeed_DryRunTouchesNothing(t *testing.T) {
	res, err := Seed(nil, Options{NumAccounts: 3, PostsPerAccount: 4, DryRun: true, FastHash: true})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if len(res.Accounts) != 3 || res.Posts != 12 {
		t.Fatalf("unexpected result: %d accounts, %d posts", len(res.Accounts), res.Posts)
	}
	ids := map[uint]bool{}
	for _, a := range res.Accounts {
		if a.ID == 0 || ids[a.ID] {
			t.Fatalf("expected unique synthetic ids, got %d", a.ID)
		}
		ids[a.ID] = true
	}
}

func TestSeed_RequiresDatabase(t *testing.T) {
	if _, err := Seed(nil, Options{NumAccounts: 1}); err == nil {
		t.Fatal("expected an error without a database")
	}
	if _, err := Seed(nil, Options{NumAccounts: -1, DryRun: true}); err == nil {
		t.Fatal("expected an error for negative counts")
	}
}

func TestSeed_SQLite(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	opts := Options{NumAccounts: 2, PostsPerAccount: 3, FastHash: true, RandSeed: 1}

	res, err := Seed(db, opts)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var accounts, posts int64
	db.Model(&models.Account{}).Count(&accounts)
	db.Model(&models.Post{}).Count(&posts)
	if accounts != 2 || posts != 6 {
		t.Fatalf("expected 2 accounts and 6 posts, got %d and %d", accounts, posts)
	}

	var stored models.Account
	if err := db.First(&stored, res.Accounts[0].ID).Error; err != nil {
		t.Fatalf("load account: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(DefaultPassword)); err != nil {
		t.Fatalf("seeded account cannot log in: %v", err)
	}

	opts.Clean = true
	opts.NumAccounts = 1
	opts.PostsPerAccount = 1
	opts.RandSeed = 2
	if _, err := Seed(db, opts); err != nil {
		t.Fatalf("reseed failed: %v", err)
	}
	db.Model(&models.Account{}).Count(&accounts)
	db.Model(&models.Post{}).Count(&posts)
	if accounts != 1 || posts != 1 {
		t.Fatalf("expected clean reseed to leave 1 account and 1 post, got %d and %d", accounts, posts)
	}
}
