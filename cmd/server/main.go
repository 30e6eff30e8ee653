package main

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"verideal_back_end/internal/auth"
	"verideal_back_end/internal/cache"
	"verideal_back_end/internal/cart"
	"verideal_back_end/internal/catalog"
	"verideal_back_end/internal/checkout"
	"verideal_back_end/internal/config"
	"verideal_back_end/internal/database"
	"verideal_back_end/internal/handlers/payment"
	"verideal_back_end/internal/handlers/product"
	"verideal_back_end/internal/handlers/user"
	"verideal_back_end/internal/models"
	"verideal_back_end/internal/rating"
	"verideal_back_end/internal/routes"
	"verideal_back_end/internal/services"
	"verideal_back_end/internal/store"
	"verideal_back_end/internal/wishlist"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET missing from the environment")
	}

	conns, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer conns.Close()

	session, err := conns.Scylla.Session()
	if err != nil {
		log.Fatalf("❌ ScyllaDB session: %v", err)
	}
	if err := database.EnsureScyllaSchema(session); err != nil {
		log.Fatalf("❌ %v", err)
	}

	cartStore, wishlistStore := selectStores(cfg, conns)
	redisCache := cache.New(conns.Redis)

	// Catalog and search
	catalogOpts := []catalog.Option{catalog.WithCache(redisCache, cfg.Catalog.CacheTTL)}
	if index := services.NewProductIndex(conns.Elastic, cfg.Elastic.Index); index != nil {
		catalogOpts = append(catalogOpts, catalog.WithIndex(index))
	}
	products := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, catalogOpts...)
	ratings := rating.NewAggregator(
		store.NewScyllaReviewStore(conns.Scylla),
		store.NewRedisRatingStore(conns.Redis),
		products,
	)

	// Per-user synchronizers
	carts := cart.NewRegistry(cartStore, cart.NewRedisNotifier(redisCache), cfg.Store.SignOutGuard)
	lists := wishlist.NewRegistry(wishlistStore, cfg.Store.SignOutGuard)

	// Outbound services; each stays out of the wiring when unconfigured
	var (
		authMailer     auth.Mailer
		checkoutMailer checkout.Mailer
		contactMailer  payment.ContactSender
		avatars        auth.AvatarUploader
		payments       checkout.PaymentProvider
	)
	if m := services.NewMailer(cfg.SMTP, cfg.Server.FrontendURL, cfg.Auth.OTPTTL); m != nil {
		authMailer, checkoutMailer, contactMailer = m, m, m
	}
	if s := services.NewAvatarStorage(conns.MinIO, cfg.MinIO.Bucket); s != nil {
		avatars = s
	}
	if s := services.NewStripeService(cfg.Stripe); s != nil {
		payments = s
	}

	users := store.NewScyllaUserStore(conns.Scylla)
	authService := auth.NewService(users, users, redisCache, authMailer, avatars, auth.Options{
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL,
		OTPTTL:   cfg.Auth.OTPTTL,
	})
	authService.Subscribe(carts.HandleAuthEvent)
	authService.Subscribe(lists.HandleAuthEvent)

	auth.InitOAuth(cfg.OAuth, cfg.Auth.SessionSecret, strings.HasPrefix(cfg.Server.BaseURL, "https://"))

	assembler := checkout.NewAssembler(payments, checkoutMailer, store.NewRedisOrderStore(conns.Redis))

	warmupCatalog(products)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Products:   product.NewHandler(products, ratings),
		Reviews:    product.NewReviewHandler(ratings),
		Cart:       user.NewCartHandler(carts, products),
		CartSocket: user.NewCartSocket(carts, redisCache, cfg.Server.CORSOrigins),
		Wishlist:   user.NewWishlistHandler(lists, products),
		Auth:       user.NewAuthHandler(authService, cfg.Server.FrontendURL),
		Checkout:   payment.NewCheckoutHandler(assembler, carts),
		Contact:    payment.NewContactHandler(contactMailer),
	}, authService, redisCache, cfg.Server.AdminEmails)

	log.Println("🚀 VeriDeal server listening on port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}

// selectStores picks the cart and wishlist tables for STORE_DRIVER.
func selectStores(cfg *config.Config, conns *database.Connections) (store.CartStore, store.WishlistStore) {
	if cfg.Store.Driver == "postgres" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.EnsurePostgresSchema(ctx, conns.Postgres); err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Println("✅ Cart and wishlist rows stored in Postgres")
		return store.NewPostgresCartStore(conns.Postgres), store.NewPostgresWishlistStore(conns.Postgres)
	}
	log.Println("✅ Cart and wishlist rows stored in ScyllaDB")
	return store.NewScyllaCartStore(conns.Scylla), store.NewScyllaWishlistStore(conns.Scylla)
}

// warmupCatalog fills the product cache and the search index so the first
// visitor does not pay for the catalog round trip.
func warmupCatalog(products *catalog.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	list, err := products.ListProducts(ctx)
	if err != nil {
		log.Printf("⚠️ Catalog warmup failed: %v", err)
		return
	}
	log.Printf("✅ Catalog cache warmed up (%d products)", len(list))

	n, err := products.Reindex(ctx)
	switch {
	case errors.Is(err, models.ErrNotConfigured):
	case err != nil:
		log.Printf("⚠️ Search index rebuild failed: %v", err)
	default:
		log.Printf("🔍 Search index rebuilt (%d products)", n)
	}
}
