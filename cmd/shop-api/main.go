package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	_ "github.com/tiendita/shop-api/docs"
	"github.com/tiendita/shop-api/internal/cart"
	"github.com/tiendita/shop-api/internal/catalog"
	"github.com/tiendita/shop-api/internal/config"
	"github.com/tiendita/shop-api/internal/member"
	"github.com/tiendita/shop-api/internal/order"
)

// @title        Shop API
// @version      1.0
// @description  Online storefront: members, item catalog, cart and orders.
// @BasePath     /
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[main] postgres: %v", err)
	}
	defer pool.Close()

	var sessions member.SessionStore
	if cfg.RedisAddr != "" {
		sessions = member.NewRedisSessions(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		log.Printf("[main] REDIS_ADDR empty, sessions kept in memory")
		sessions = member.NewMemorySessions()
	}

	files, err := catalog.NewFileStore(cfg.ItemImgDir)
	if err != nil {
		log.Fatalf("[main] image dir: %v", err)
	}

	catalogRepo := catalog.NewPGRepo(pool)
	cartRepo := cart.NewPGRepo(pool)
	orderRepo := order.NewPGRepo(pool)
	memberRepo := member.NewPGRepo(pool)

	members := member.NewService(memberRepo, sessions, cfg.SessionTTL)
	items := catalog.NewService(catalogRepo, files, cfg.ItemImgURL)
	carts := cart.NewService(cartRepo, catalogRepo)
	orders := order.NewService(orderRepo, catalogRepo, cartRepo, catalogRepo)

	r := newRouter(services{
		members: members,
		items:   items,
		carts:   carts,
		orders:  orders,
		imgDir:  cfg.ItemImgDir,
		imgURL:  cfg.ItemImgURL,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[main] shop-api listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("[main] %v", err)
	}
}
