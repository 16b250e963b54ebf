package main

import (
	"context"
	"fmt"
	"strconv"

	"scribe/internal/bootstrap"
	"scribe/internal/config"
	"scribe/internal/guard"
	"scribe/internal/repository"
	"scribe/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// opener yields a database handle and the config it was opened with. The
// returned func releases the handle.
type opener func(ctx context.Context) (*gorm.DB, *config.Config, func(), error)

func openConfigured(ctx context.Context) (*gorm.DB, *config.Config, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		return nil, nil, nil, err
	}
	return rt.DB, cfg, rt.Close, nil
}

// services groups what subcommands need, built per invocation.
type services struct {
	accounts    repository.AccountRepository
	credentials *service.CredentialStore
	sessions    *service.SessionAuthority
	posts       *service.PostService
}

func newServices(db *gorm.DB, cfg *config.Config) *services {
	accounts := repository.NewAccountRepository(db)
	return &services{
		accounts:    accounts,
		credentials: service.NewCredentialStore(accounts, service.NewBcryptHasher(cfg.BcryptCost)),
		sessions:    service.NewSessionAuthority(repository.NewSessionRepository(db), accounts, cfg.SessionSecret),
		posts:       service.NewPostService(repository.NewPostRepository(db), accounts, guard.NewPolicy(false)),
	}
}

// withServices opens the database, runs fn and closes the handle.
func withServices(cmd *cobra.Command, open opener, fn func(ctx context.Context, svc *services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, cfg, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, newServices(db, cfg))
}

// NewRootCmd creates the root command for the scribe operator CLI.
func NewRootCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scribectl",
		Short:        "Manage scribe accounts, sessions and posts",
		SilenceUsage: true,
	}

	cmd.AddCommand(newAccountsCmd(open))
	cmd.AddCommand(newSessionsCmd(open))
	cmd.AddCommand(newPostsCmd(open))

	return cmd
}

func parseAccountID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid account id %q", arg)
	}
	return uint(id), nil
}
