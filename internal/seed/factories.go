package seed

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"scribe/internal/models"
	"scribe/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the secret given to every seeded account.
const DefaultPassword = "password123"

// Factory builds and persists sample accounts and posts.
type Factory struct {
	db     *gorm.DB
	opts   Options
	faker  *gofakeit.Faker
	now    func() time.Time
	nextID uint
	hash   string
}

// NewFactory returns a Factory. db may be nil when opts.DryRun is set.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		db:    db,
		opts:  opts,
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// BuildAccount returns an unsaved account with a unique, valid username.
// n disambiguates generated names.
func (f *Factory) BuildAccount(n int) *models.Account {
	base := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToLower(r)
		}
		return -1
	}, f.faker.Username())

	suffix := fmt.Sprintf("%d", n)
	room := validation.UsernameMaxLength - len(suffix)
	if len(base) > room {
		base = base[:room]
	}
	name := base + suffix
	for len(name) < validation.UsernameMinLength {
		name = "u" + name
	}
	return &models.Account{Username: name}
}

// CreateAccount persists a generated account whose secret is DefaultPassword.
func (f *Factory) CreateAccount(n int) (*models.Account, error) {
	account := f.BuildAccount(n)

	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	account.PasswordHash = hash
	account.CreatedAt = f.now().UTC()

	if f.opts.DryRun {
		f.nextID++
		account.ID = f.nextID
		slog.Info("[dry-run] CreateAccount", "id", account.ID, "username", account.Username)
		return account, nil
	}

	if err := f.db.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// passwordHash hashes DefaultPassword once per factory. FastHash drops to
// bcrypt.MinCost so large seeds finish quickly; logins still work.
func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	cost := f.opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if f.opts.FastHash {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	f.hash = string(hashed)
	return f.hash, nil
}

// BuildPost returns an unsaved post owned by account with a created_at
// spread over the last MaxDays days.
func (f *Factory) BuildPost(account *models.Account) *models.Post {
	title := strings.TrimSuffix(f.faker.Sentence(f.faker.Number(2, 5)), ".")
	body := f.faker.Paragraph(f.faker.Number(1, 3), f.faker.Number(2, 5), f.faker.Number(6, 12), "\n\n")

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	age := time.Duration(f.faker.Number(0, maxDays-1))*24*time.Hour +
		time.Duration(f.faker.Number(0, 23))*time.Hour +
		time.Duration(f.faker.Number(0, 59))*time.Minute

	return &models.Post{
		Title:     truncateRunes(title, validation.TitleMaxLength),
		Body:      truncateRunes(body, validation.BodyMaxLength),
		AccountID: account.ID,
		CreatedAt: f.now().Add(-age).UTC(),
	}
}

// CreatePostsBatch builds count posts for account and inserts them in one
// statement.
func (f *Factory) CreatePostsBatch(account *models.Account, count int) ([]*models.Post, error) {
	if count <= 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, f.BuildPost(account))
	}

	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		slog.Info("[dry-run] CreatePostsBatch", "account", account.Username, "count", count)
		return posts, nil
	}

	if err := f.db.CreateInBatches(posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return strings.TrimSpace(string(runes))
}
