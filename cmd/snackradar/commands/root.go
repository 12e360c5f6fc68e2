package commands

import (
	"context"
	"fmt"
	"time"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	campuscoord "github.com/snackradar/snackradar/internal/campus"
	"github.com/snackradar/snackradar/internal/config"
	"github.com/snackradar/snackradar/internal/identity"
	"github.com/snackradar/snackradar/internal/logger"
	"github.com/snackradar/snackradar/internal/model"
	"github.com/snackradar/snackradar/internal/prefs"
	"github.com/snackradar/snackradar/internal/push"
	"github.com/snackradar/snackradar/internal/realtime"
	"github.com/snackradar/snackradar/internal/repository/postgres"
	"github.com/snackradar/snackradar/internal/service"
	"github.com/snackradar/snackradar/internal/session"
	storage "github.com/snackradar/snackradar/internal/storage/minio"
	"github.com/snackradar/snackradar/internal/token"
)

// App holds the wired application graph shared by all commands.
type App struct {
	Cfg      *config.Config
	Logger   *logger.Logger
	Prefs    *prefs.Store
	Provider *identity.Provider
	Session  *session.Coordinator
	Campus   *campuscoord.Coordinator
	Events   *service.Events
	Promos   *service.Promos
	Campuses *service.Campuses

	db          *postgres.Connection
	rdb         *redis.Client
	stopObserve func()
}

// NewRootCmd builds the CLI. The application graph is wired before any
// subcommand runs and torn down after it finishes.
func NewRootCmd(buildVersion, buildCommit string) *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:     "snackradar",
		Short:   "Discover and organize campus food events",
		Version: fmt.Sprintf("%s (%s)", buildVersion, buildCommit),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd.Context())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.close()
		},
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newResetPasswordCmd(app),
		newWhoamiCmd(app),
		newCampusesCmd(app),
		newSelectCampusCmd(app),
		newClearCampusCmd(app),
		newEventsCmd(app),
		newPromosCmd(app),
		newNotificationsCmd(app),
		newWatchCmd(app),
	)

	return root
}

func (a *App) init(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	a.Cfg = cfg
	a.Logger = logger.New(cfg.LogLevel)

	a.Prefs, err = prefs.Open(cfg.Prefs.Path)
	if err != nil {
		return fmt.Errorf("failed to open preference store: %w", err)
	}

	a.db, err = postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	a.rdb = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	minioClient, err := minioLib.New(cfg.Storage.Endpoint, &minioLib.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}
	images, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.Endpoint, cfg.Storage.UseSSL)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	publisher := realtime.NewPublisher(a.rdb)
	watcher := realtime.NewWatcher(a.rdb, a.Logger)
	registry := push.NewRegistry(a.rdb)
	tokenSource := push.NewTokenSource(a.Prefs)

	profileRepo := postgres.NewProfileRepository(a.db, publisher, a.Logger)
	campusRepo := postgres.NewCampusRepository(a.db)
	eventRepo := postgres.NewEventRepository(a.db)
	promoRepo := postgres.NewPromoRepository(a.db)
	credentialRepo := postgres.NewCredentialRepository(a.db)

	tokens := token.NewJWT(cfg.JWT.Secret)
	a.Provider = identity.NewProvider(credentialRepo, tokens, a.Prefs, a.Logger)

	a.Campus = campuscoord.NewCoordinator(
		a.Prefs, campusRepo, profileRepo, a.Provider.Current, a.Logger.Component("campus"))
	a.Campus.LoadCached(ctx)

	a.Session = session.NewCoordinator(
		a.Provider, profileRepo, watcher, newTerminalPrompter(), tokenSource, registry,
		session.Config{FetchTimeout: cfg.Session.FetchTimeout},
		a.Logger.Component("session"))

	// Every observed profile feeds campus reconciliation; the profile is the
	// cross-device source of truth for the selection.
	a.stopObserve = a.Session.Observe(func(st session.State) {
		if st.Profile != nil {
			profile := *st.Profile
			go a.Campus.SyncFromProfile(context.Background(), profile)
		}
	})
	a.Session.Start()

	a.Events = service.NewEvents(eventRepo, profileRepo, images, registry, a.Logger.Component("events"))
	a.Promos = service.NewPromos(promoRepo, profileRepo, images, a.Logger.Component("promos"))
	a.Campuses = service.NewCampuses(campusRepo)

	return nil
}

func (a *App) close() {
	if a.Session != nil {
		a.Session.Close()
	}
	if a.stopObserve != nil {
		a.stopObserve()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// waitForMode blocks until the session leaves the loading state or the
// timeout expires, and returns the settled state.
func (a *App) waitForMode(timeout time.Duration) session.State {
	settled := make(chan session.State, 1)
	remove := a.Session.Observe(func(st session.State) {
		if st.Mode != model.ModeLoading {
			select {
			case settled <- st:
			default:
			}
		}
	})
	defer remove()

	select {
	case st := <-settled:
		return st
	case <-time.After(timeout):
		return a.Session.Current()
	}
}
