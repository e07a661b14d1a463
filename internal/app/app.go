package app

import (
	"context"
	"log/slog"

	httpapp "lightbox/internal/app/http"
	"lightbox/internal/cart"
	"lightbox/internal/config"
	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/mailer"
	"lightbox/internal/payment"
	"lightbox/internal/repository"
	blog "lightbox/internal/services/blog_service"
	checkout "lightbox/internal/services/checkout_service"
	contact "lightbox/internal/services/contact_service"
	feedback "lightbox/internal/services/feedback_service"
	gallery "lightbox/internal/services/gallery_service"
	order "lightbox/internal/services/order_service"
	photos "lightbox/internal/services/photo_service"
	reconcile "lightbox/internal/services/reconcile_service"
	token "lightbox/internal/services/token_service"
	user "lightbox/internal/services/user_service"
	filestorage "lightbox/internal/storage/filestorage"
	"lightbox/internal/storage/postgresql"
	"lightbox/internal/storage/redis"
	httprouters "lightbox/internal/transport/http"

	"github.com/shopspring/decimal"
)

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.Server
	reconciler *reconcile.Reconciler
	storage    *postgresql.Storage
	redis      *redis.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	storage, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		panic(err)
	}

	if err := storage.Migrate(ctx); err != nil {
		panic(err)
	}

	redisClient := redis.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		log.Warn("redis is not reachable", sl.Err(err))
	}

	repo := repository.NewRepository(storage.Pool())
	tokenRepo := repository.NewRedisTokenRepo(redisClient)

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	if err != nil {
		panic(err)
	}

	var cartBackend cart.Storage
	switch cfg.Cart.Backend {
	case "redis":
		cartBackend = cart.NewRedisStorage(redisClient, cfg.Cart.TTL)
	default:
		cartBackend = cart.NewMemoryStorage(cfg.Cart.TTL)
	}

	carts := cart.NewStore(log, cartBackend)
	carts.Subscribe(func(c models.Cart) {
		log.Debug("cart updated", slog.String("cart_id", c.ID), slog.Int("items", c.ItemCount()))
	})

	stripe := payment.NewStripe(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, nil)
	provider := payment.NewBreakerProvider(log, stripe)

	var mail mailer.Sender
	if cfg.Mail.Host != "" {
		mail = mailer.NewSMTPSender(log, cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
	} else {
		mail = mailer.NewLogSender(log)
	}

	tokenService := token.NewTokenService(log, tokenRepo, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	userService := user.NewUserService(log, repo.User, tokenService)

	galleryService := gallery.NewGalleryService(log, repo.Gallery, repo.Photo, fileStorage)
	photoService := photos.NewPhotoService(log, repo.Photo, galleryService, fileStorage, cfg.FileStorage.MaxSize)
	feedbackService := feedback.NewFeedbackService(log, repo.Feedback, repo.Photo, galleryService)

	checkoutService := checkout.NewCheckoutService(
		log,
		checkout.NewCachedCatalog(repo.Product, cfg.Checkout.CatalogTTL),
		repo.Order,
		provider,
		checkout.Options{
			Currency:     cfg.Checkout.Currency,
			TaxRate:      decimal.NewFromFloat(cfg.Checkout.TaxRate),
			FlatShipping: decimal.NewFromFloat(cfg.Checkout.FlatShipping),
			BaseURL:      cfg.HTTP.SiteURL,
			SuccessPath:  cfg.Checkout.SuccessPath,
			CancelPath:   cfg.Checkout.CancelPath,
		},
	)
	orderService := order.NewOrderService(log, repo.Order, stripe, galleryService, mail)

	blogService := blog.NewBlogService(log, repo.Blog)
	contactService := contact.NewContactService(log, repo.Contact, mail, cfg.Mail.OwnerEmail)

	routers := httprouters.NewRouter(log, httprouters.Services{
		Users:     userService,
		Carts:     carts,
		Checkout:  checkoutService,
		Orders:    orderService,
		Galleries: galleryService,
		Photos:    photoService,
		Feedback:  feedbackService,
		Blog:      blogService,
		Contact:   contactService,
	}, cfg.HTTP.SiteURL)

	server := httpapp.New(log, httpapp.Options{
		Host:          cfg.HTTP.Host,
		Port:          cfg.HTTP.Port,
		JWTSecret:     cfg.Auth.JWTSecret,
		SessionSecret: cfg.Session.Secret,
		SecureCookie:  cfg.Session.Secure,
		CookieMaxAge:  cfg.Session.MaxAge,
		AllowOrigins:  cfg.HTTP.AllowOrigins,
		BodyLimit:     cfg.HTTP.BodyLimit,
		Timeout:       cfg.HTTP.Timeout,
		UploadsDir:    cfg.FileStorage.BaseDir,
	}, routers)
	server.BuildRouters()

	return &App{
		log:        log,
		HTTPServer: server,
		reconciler: reconcile.NewReconciler(log, repo.Order, cfg.Reconcile.Interval, cfg.Reconcile.StaleAfter),
		storage:    storage,
		redis:      redisClient,
	}
}

// StartBackground запускает фоновый reconciler; он останавливается вместе с ctx
func (a *App) StartBackground(ctx context.Context) {
	go a.reconciler.Start(ctx)
}

func (a *App) Stop(ctx context.Context) {
	const op = "app.Stop"

	log := a.log.With(slog.String("op", op))

	if err := a.HTTPServer.Stop(ctx); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
	}

	if err := a.redis.Close(); err != nil {
		log.Error("failed to close redis", sl.Err(err))
	}

	a.storage.Stop()
}
