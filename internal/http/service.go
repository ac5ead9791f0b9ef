package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/storefront/api-contract"
	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/config"
	"github.com/tuanvumaihuynh/storefront/internal/http/middleware"
	"github.com/tuanvumaihuynh/storefront/internal/http/swagger"
	"github.com/tuanvumaihuynh/storefront/internal/metric"
	"github.com/tuanvumaihuynh/storefront/internal/service"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	metrics  *metric.Metrics
	tokens   middleware.TokenValidator

	productSvc service.ProductService
	catalogSvc service.CatalogService
	accountSvc service.AccountService
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	gatherer prometheus.Gatherer,
	metrics *metric.Metrics,
	tokens middleware.TokenValidator,
	productSvc service.ProductService,
	catalogSvc service.CatalogService,
	accountSvc service.AccountService,
) *Service {
	return &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "http")),
		gatherer:   gatherer,
		metrics:    metrics,
		tokens:     tokens,
		productSvc: productSvc,
		catalogSvc: catalogSvc,
		accountSvc: accountSvc,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler()
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	if err := s.RegisterMiddlewares(r); err != nil {
		return nil, err
	}

	if s.cfg.Swagger {
		if err := swagger.Register(r, "Storefront API", apicontract.GetSpecBytes()); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) error {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CorsAllowedOrigins),
		middleware.Logging(s.logger),
	)

	if s.cfg.ValidateRequests {
		validate, err := middleware.OpenAPIValidator(s.logger, apicontract.GetSpecBytes())
		if err != nil {
			return fmt.Errorf("openapi validator: %w", err)
		}
		r.Use(validate)
	}

	return nil
}

func (s *Service) RegisterHandlers(r chi.Router) {
	products := newProductHandler(s, s.productSvc)
	catalog := newCatalogHandler(s, s.catalogSvc)
	accounts := newAccountHandler(s, s.accountSvc)

	r.Get("/products", products.ListProducts)
	r.Post("/products", products.CreateProduct)
	r.Put("/products/{id}", products.UpdateProduct)
	r.Delete("/products/{id}", products.DeleteProduct)
	r.Get("/categories", catalog.ListCategories)
	r.Get("/brands", catalog.ListBrands)

	r.Post("/register", accounts.Register)
	r.Post("/login", accounts.Login)
	r.With(middleware.Auth(s.logger, s.tokens)).Get("/listar", accounts.ListAccounts)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, apperr.RouteNotFoundErr)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, apperr.MethodNotAllowedErr)
	})
}
