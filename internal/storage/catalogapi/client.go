// Package catalogapi is the HTTP client for the remote catalog service.
package catalogapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/catalog"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/domain/product"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/formdata"
	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/pkg/httpclient"
)

const instrumentationName = "github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/internal/storage/catalogapi"

// Endpoint paths relative to the service base URL.
const (
	pathList   = "/api/food/list"
	pathAdd    = "/api/food/add"
	pathUpdate = "/api/food/update"
	pathRemove = "/api/food/remove"
)

// Client talks to the catalog service. It never retries.
type Client struct {
	base     string
	hc       *http.Client
	tracer   trace.Tracer
	requests metric.Int64Counter
}

var _ catalog.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*options)

type options struct {
	hc *http.Client
	tp trace.TracerProvider
	mp metric.MeterProvider
}

// WithHTTPClient sets the HTTP client used for requests. Its transport is
// expected to carry the middleware chain.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.hc = hc }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tp = tp }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.mp = mp }
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base URL %q must be absolute", baseURL)
	}

	o := options{
		hc: http.DefaultClient,
		tp: otel.GetTracerProvider(),
		mp: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	requests, err := o.mp.Meter(instrumentationName).Int64Counter("catalog.client.requests",
		metric.WithDescription("Requests made to the catalog service by operation and result"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create request counter")
	}

	return &Client{
		base:     strings.TrimRight(baseURL, "/"),
		hc:       o.hc,
		tracer:   o.tp.Tracer(instrumentationName),
		requests: requests,
	}, nil
}

// List fetches every product.
func (c *Client) List(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	_, err := c.call(ctx, "list", http.MethodGet, pathList, "", nil,
		func(d *jx.Decoder, key string) error {
			if key != "data" {
				return d.Skip()
			}
			list, err := decodeProducts(d)
			products = list
			return err
		})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create uploads a new product. The service may echo the assigned ID.
func (c *Client) Create(ctx context.Context, body *formdata.Body) (catalog.Created, error) {
	var created catalog.Created
	env, err := c.call(ctx, "create", http.MethodPost, pathAdd, body.ContentType, body.Reader(),
		func(d *jx.Decoder, key string) error {
			switch key {
			case "id", "_id":
				id, err := decodeString(d)
				created.ID = id
				return err
			case "data":
				if d.Next() != jx.Object {
					return d.Skip()
				}
				p, err := decodeProduct(d)
				if created.ID == "" {
					created.ID = p.ID
				}
				return err
			default:
				return d.Skip()
			}
		})
	created.Message = env.Message
	return created, err
}

// Update replaces the stored fields of product id. The body must already
// carry the id part; the argument is used for tracing only.
func (c *Client) Update(ctx context.Context, id string, body *formdata.Body) (string, error) {
	env, err := c.call(ctx, "update", http.MethodPost, pathUpdate, body.ContentType, body.Reader(), nil,
		attribute.String("product.id", id))
	return env.Message, err
}

// Remove deletes product id.
func (c *Client) Remove(ctx context.Context, id string) (string, error) {
	env, err := c.call(ctx, "remove", http.MethodPost, pathRemove, "application/json",
		bytes.NewReader(encodeRemove(id)), nil, attribute.String("product.id", id))
	return env.Message, err
}

func (c *Client) call(
	ctx context.Context,
	op, method, path, contentType string,
	body io.Reader,
	field httpclient.FieldFunc,
	attrs ...attribute.KeyValue,
) (env httpclient.Envelope, rerr error) {
	ctx, span := c.tracer.Start(ctx, "catalog."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("catalog.op", op))...),
	)
	defer func() {
		c.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("result", resultOf(rerr)),
		))
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return httpclient.Envelope{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return httpclient.Call(c.hc, req, op, field)
}

func resultOf(err error) string {
	var (
		ke *httpclient.TokenError
		te *httpclient.TransportError
		se *httpclient.ServiceError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ke):
		return "token_error"
	case errors.As(err, &te):
		return "transport_error"
	case errors.As(err, &se):
		return "service_error"
	default:
		return "error"
	}
}
