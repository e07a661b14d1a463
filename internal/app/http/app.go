package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"lightbox/internal/lib/logger/sl"
	lbmiddleware "lightbox/internal/middleware"
	httprouters "lightbox/internal/transport/http"
	"lightbox/internal/transport/http/dto/response"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const checkoutTimeout = 30 * time.Second

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Options struct {
	Host          string
	Port          string
	JWTSecret     string
	SessionSecret string
	SecureCookie  bool
	CookieMaxAge  int
	AllowOrigins  []string
	BodyLimit     string
	Timeout       time.Duration
	UploadsDir    string
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	opts    Options
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = NewValidator()

	store := sessions.NewCookieStore([]byte(opts.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.CookieMaxAge,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	if len(opts.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, httprouters.HeaderGalleryPassword},
			AllowCredentials: true,
		}))
	} else {
		e.Use(middleware.CORS())
	}

	e.Use(middleware.Recover())
	e.Use(lbmiddleware.PrometheusMetrics)

	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, sl.Err(v.Error))
			}

			log.Info("request", attrs...)

			return nil
		},
	}))

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		opts:    opts,
	}
}

// Echo нужен тестам, чтобы гонять запросы через httptest
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"), slog.String("port", s.opts.Port))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	s.e.Server.ReadHeaderTimeout = 10 * time.Second

	if err := s.e.Start(fmt.Sprintf("%s:%s", s.opts.Host, s.opts.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	const op = "http.Server.Stop"

	s.log.Info("stopping", slog.String("op", op))

	if err := s.e.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) jwtConfig(optional bool) echojwt.Config {
	cfg := echojwt.Config{
		SigningKey: []byte(s.opts.JWTSecret),
		ContextKey: httprouters.ContextUserKey,
	}

	if optional {
		// клиент галереи обычно анонимен; токен нужен только для просмотра владельцем
		cfg.ContinueOnIgnoredError = true
		cfg.ErrorHandler = func(c echo.Context, err error) error {
			return nil
		}
	} else {
		cfg.ErrorHandler = func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, response.ErrorResponseWithDetails("unauthorized", "valid bearer token required"))
		}
	}

	return cfg
}

func (s *Server) adminOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := httprouters.CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, response.ErrorResponseWithDetails("unauthorized", "authentication required"))
		}

		// флаг в токене может устареть, поэтому смотрим в базу
		isAdmin, err := s.routers.UserService.IsAdmin(c.Request().Context(), claims.UserID)
		if err != nil || !isAdmin {
			return c.JSON(http.StatusForbidden, response.ErrorResponseWithDetails("forbidden", "admin access required"))
		}

		return next(c)
	}
}

func (s *Server) BuildRouters() {
	requireAuth := echojwt.WithConfig(s.jwtConfig(false))
	optionalAuth := echojwt.WithConfig(s.jwtConfig(true))

	s.e.GET("/health", s.routers.Health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.opts.UploadsDir != "" {
		s.e.Static("/uploads", s.opts.UploadsDir)
	}

	v1 := s.e.Group("/api/v1")
	{
		v1.POST("/register", s.routers.Register)
		v1.POST("/login", s.routers.Login)
		v1.POST("/refresh", s.routers.Refresh)

		userGroup := v1.Group("/users", requireAuth)
		{
			userGroup.GET("/me", s.routers.Me)
		}

		posts := v1.Group("/posts", requireAuth, s.adminOnlyMiddleware)
		{
			posts.POST("", s.routers.CreatePost)
			posts.GET("", s.routers.ListPosts)
			posts.GET("/:id", s.routers.GetPost)
			posts.PUT("/:id", s.routers.UpdatePost)
			posts.DELETE("/:id", s.routers.DeletePost)
			posts.PATCH("/:id/publish", s.routers.PublishPost)
			posts.PATCH("/:id/archive", s.routers.ArchivePost)
		}
	}

	api := s.e.Group("/api")

	cart := api.Group("/cart")
	{
		cart.GET("", s.routers.GetCart)
		cart.DELETE("", s.routers.ClearCart)
		cart.POST("/items", s.routers.AddCartItem)
		cart.PATCH("/items/:id", s.routers.UpdateCartItem)
		cart.DELETE("/items/:id", s.routers.RemoveCartItem)
		cart.POST("/checkout", s.routers.CheckoutCart, middleware.ContextTimeout(checkoutTimeout))
	}

	api.POST("/checkout", s.routers.Checkout, middleware.ContextTimeout(checkoutTimeout))
	api.GET("/orders/confirmation", s.routers.OrderConfirmation)
	api.POST("/webhooks/stripe", s.routers.StripeWebhook)

	galleries := api.Group("/galleries", requireAuth)
	{
		galleries.POST("", s.routers.CreateGallery)
		galleries.GET("", s.routers.ListGalleries)
		galleries.GET("/:id", s.routers.GetGallery)
		galleries.PATCH("/:id", s.routers.UpdateGallery)
		galleries.DELETE("/:id", s.routers.DeleteGallery)
		galleries.POST("/:id/access-key", s.routers.RegenerateAccessKey)
		galleries.POST("/:id/photos", s.routers.UploadPhotos, s.uploadTimeout())
		galleries.PUT("/:id/photos/order", s.routers.ReorderPhotos)
		galleries.DELETE("/:id/photos/:photoId", s.routers.DeletePhoto)
		galleries.GET("/:id/orders", s.routers.GalleryOrders)
		galleries.GET("/:id/comments", s.routers.GalleryComments)
		galleries.POST("/:id/comments/:commentId/reply", s.routers.ReplyComment)
		galleries.POST("/:id/comments/:commentId/read", s.routers.MarkCommentRead)
		galleries.GET("/:id/favorites", s.routers.FavoritesSummary)
	}

	public := api.Group("/g/:slug", optionalAuth)
	{
		public.GET("", s.routers.ViewGallery)
		public.GET("/photos/:photoId/comments", s.routers.PhotoComments)
		public.POST("/comments", s.routers.AddComment)
		public.GET("/favorites", s.routers.MyFavorites)
		public.POST("/favorites", s.routers.AddFavorite)
		public.DELETE("/favorites/:photoId", s.routers.RemoveFavorite)
	}

	blog := api.Group("/blog")
	{
		blog.GET("", s.routers.PublicPosts)
		blog.GET("/:slug", s.routers.PublicPost)
	}

	api.POST("/contact", s.routers.SubmitContact)
}

func (s *Server) uploadTimeout() echo.MiddlewareFunc {
	timeout := s.opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return middleware.ContextTimeout(timeout)
}
