package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/cache"
	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/config"
	"github.com/dmitrijs2005/recipekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/recipekeeper/internal/client/offline"
	"github.com/dmitrijs2005/recipekeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/recipekeeper/internal/client/services"
	"github.com/dmitrijs2005/recipekeeper/internal/client/session"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config         *config.Config
	log            logging.Logger
	store          kvstore.Store
	cache          *cache.Service
	feed           *reconcile.Feed
	authService    services.AuthService
	recipeService  services.RecipeService
	postService    services.PostService
	commentService services.CommentService
	followService  services.FollowService

	session  session.State
	userName string
	userID   string
	feedPage int

	modeMu sync.Mutex
	mode   Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local store and wires every component once.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := kvstore.Open(ctx, kvstore.Options{
		Backend:        c.StoreBackend,
		SQLitePath:     c.StoragePath,
		RedisAddr:      c.RedisAddr,
		RedisNamespace: c.RedisNamespace,
	})
	if err != nil {
		log.Error(ctx, "error opening local store", "backend", c.StoreBackend, "error", err)
		return nil, err
	}

	sessions := session.NewStore(store, log)
	api, err := client.NewPipeline(client.Options{
		BaseURL:           c.ServerBaseURL,
		RequestTimeout:    c.RequestTimeout,
		UploadTimeout:     c.UploadTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
	}, sessions, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	feed, err := reconcile.NewFeed(c.FeedCacheSize)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	cacheSvc := cache.NewService(store, log)
	credentials := offline.NewCredentialStore(store, log)

	return &App{
		config:         c,
		log:            log,
		store:          store,
		cache:          cacheSvc,
		feed:           feed,
		authService:    services.NewAuthService(api, sessions, credentials, cacheSvc, log),
		recipeService:  services.NewRecipeService(api, cacheSvc, log),
		postService:    services.NewPostService(api, feed, log),
		commentService: services.NewCommentService(api, feed, log),
		followService:  services.NewFollowService(api),
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Warn(ctx, "closing local store", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode between online and offline until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if client.IsNetworkUnreachable(err) && a.Mode() == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else if a.Mode() != ModeOnline {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
