package app

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/auth"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/console"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/catalog"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/storage/catalogapi"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/pkg/httpclient"
)

// Console is the wired application the commands operate on.
type Console struct {
	Config *Config
	Store  *catalog.Store
	View   *console.View
	Auth   *auth.Client
	Tokens *auth.FileStore
}

// New creates all dependencies. It is the single wiring point for the
// application. m may be nil, in which case the global otel providers are used.
func New(lg *zap.Logger, m *app.Telemetry, cfg *Config, notifier console.Notifier) (*Console, error) {
	lg.Debug("Initializing", zap.String("base_url", cfg.BaseURL))

	var (
		tp trace.TracerProvider = otel.GetTracerProvider()
		mp metric.MeterProvider = otel.GetMeterProvider()
	)
	if m != nil {
		tp, mp = m.TracerProvider(), m.MeterProvider()
	}

	tokens := auth.NewFileStore(cfg.TokenFile)

	// Outermost first: request IDs are assigned before logging sees the
	// request, and the rate limiter runs before the token is loaded.
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithMeterProvider(mp),
	)
	common := []httpclient.Middleware{
		httpclient.RequestID(),
		httpclient.LogRequests(),
		httpclient.RateLimit(httpclient.RateLimitConfig{
			PerSecond: cfg.HTTP.RateLimit,
			Burst:     cfg.HTTP.Burst,
		}),
	}

	authHTTP := &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: httpclient.Wrap(transport, common...),
	}
	catalogHTTP := &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: httpclient.Wrap(transport, append(common, httpclient.Bearer(tokens))...),
	}

	client, err := catalogapi.New(cfg.BaseURL,
		catalogapi.WithHTTPClient(catalogHTTP),
		catalogapi.WithTracerProvider(tp),
		catalogapi.WithMeterProvider(mp),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create catalog client")
	}

	store := catalog.NewStore(client, lg.Named("catalog"))
	view := console.NewView(store, catalog.NewCreationForm(store), notifier, console.Options{
		ImageBaseURL: cfg.ImageBaseURL,
		Currency:     cfg.Currency,
	})

	return &Console{
		Config: cfg,
		Store:  store,
		View:   view,
		Auth:   auth.NewClient(cfg.BaseURL, authHTTP, lg.Named("auth")),
		Tokens: tokens,
	}, nil
}
