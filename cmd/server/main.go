package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts"
	"github.com/goliatone/go-accounts/config"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

type App struct {
	config   *gconfig.Container[*config.BaseConfig]
	bunDB    *bun.DB
	repo     accounts.RepositoryManager
	service  *accounts.Accounts
	resolver *accounts.IdentityResolver
	srv      router.Server[*fiber.App]
	logger   *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("app"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	fmt.Println("============")

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAccounts(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	app.srv.Serve(app.Config().GetServer().GetAddr())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	pcfg := app.Config().GetPersistence()

	var sqldb *sql.DB
	var dialect schema.Dialect

	switch pcfg.GetDriver() {
	case "postgres":
		sqldb = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pcfg.GetDSN())))
		dialect = pgdialect.New()
	default:
		db, err := sql.Open(sqliteshim.ShimName, pcfg.GetDSN())
		if err != nil {
			return err
		}
		sqldb = db
		dialect = sqlitedialect.New()
	}

	persistence.RegisterModel((*accounts.User)(nil))
	persistence.RegisterModel((*accounts.Material)(nil))
	persistence.RegisterModel((*accounts.Product)(nil))
	persistence.RegisterModel((*accounts.ProductEntry)(nil))
	persistence.RegisterModel((*accounts.MaterialSnapshot)(nil))

	client, err := persistence.New(pcfg, sqldb, dialect)
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(accounts.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = accounts.NewRepositoryManager(client.DB())

	return nil
}

func WithAccounts(ctx context.Context, app *App) error {
	acfg := app.Config().GetAuth()

	if err := app.repo.Validate(); err != nil {
		return err
	}

	tokens := accounts.NewTokenService(
		[]byte(acfg.GetSigningKey()),
		acfg.GetTokenExpiration(),
		acfg.GetIssuer(),
		acfg.GetAudience(),
		routerLogger{app.GetLogger("tokens")},
	)

	app.service = accounts.NewAccounts(app.repo, tokens).
		WithLogger(routerLogger{app.GetLogger("accounts")})

	app.resolver = accounts.NewIdentityResolver(tokens, app.repo.Users()).
		WithAuthScheme(acfg.GetAuthScheme()).
		WithLogger(routerLogger{app.GetLogger("resolver")})

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
			AppName:       "go-accounts",
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	accounts.RegisterAPIRoutes(
		srv.Router(),
		accounts.WithControllerRepo(app.repo),
		accounts.WithControllerService(app.service),
		accounts.WithControllerResolver(app.resolver),
		accounts.WithControllerLogger(routerLogger{app.GetLogger("api")}),
	)

	app.srv = srv

	return nil
}

// routerLogger adapts glog to the accounts Logger interface.
type routerLogger struct {
	lgr glog.Logger
}

func (l routerLogger) Debug(format string, args ...any) { l.lgr.Debug(format, args...) }
func (l routerLogger) Info(format string, args ...any)  { l.lgr.Info(format, args...) }
func (l routerLogger) Warn(format string, args ...any)  { l.lgr.Warn(format, args...) }
func (l routerLogger) Error(format string, args ...any) { l.lgr.Error(format, args...) }

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(
		ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
