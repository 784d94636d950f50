// Package gateway validates incoming requests before forwarding them to the
// sharing service. It owns no state and never talks to the database.
package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ShareIt-Platform/service-sharing/internal/common/middleware"
	"github.com/ShareIt-Platform/service-sharing/internal/common/response"
)

const defaultState = "ALL"

// Gateway checks request shape and proxies valid requests upstream.
type Gateway struct {
	proxy    *httputil.ReverseProxy
	validate *validator.Validate
	logger   *zap.Logger
}

// Option configures a Gateway.
type Option func(*options)

type options struct {
	now       func() time.Time
	transport http.RoundTripper
}

// WithClock overrides the clock used to reject bookings in the past.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTransport overrides the upstream transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// New creates a Gateway forwarding to upstream.
func New(upstream string, logger *zap.Logger, opts ...Option) (*Gateway, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, err
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	if o.transport != nil {
		proxy.Transport = o.transport
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("upstream request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(response.APIResponse{
			Success: false,
			Error:   &response.ErrorBody{Code: "UPSTREAM_UNAVAILABLE", Message: "sharing service unavailable"},
		})
	}

	return &Gateway{
		proxy:    proxy,
		validate: newValidator(o.now),
		logger:   logger,
	}, nil
}

// RegisterRoutes registers the validated routes. Every route mirrors the
// sharing service.
func (g *Gateway) RegisterRoutes(r *gin.RouterGroup) {
	actor := middleware.SharerUserMiddleware()

	bookings := r.Group("/bookings", actor)
	{
		bookings.POST("", withBody[bookingBody](g), g.forward)
		bookings.GET("", g.listParams, g.forward)
		bookings.GET("/owner", g.listParams, g.forward)
		bookings.GET("/:id", g.pathID, g.forward)
		bookings.PATCH("/:id", g.pathID, g.approvedParam, g.forward)
	}

	items := r.Group("/items")
	{
		items.GET("/search", g.pageParams, g.forward)
		items.POST("", actor, withBody[createItemBody](g), g.forward)
		items.GET("", actor, g.pageParams, g.forward)
		items.GET("/:id", actor, g.pathID, g.forward)
		items.PATCH("/:id", actor, g.pathID, withBody[updateItemBody](g), g.forward)
		items.DELETE("/:id", actor, g.pathID, g.forward)
		items.POST("/:id/comment", actor, g.pathID, withBody[commentBody](g), g.forward)
	}

	users := r.Group("/users")
	{
		users.POST("", withBody[createUserBody](g), g.forward)
		users.GET("", g.forward)
		users.GET("/:id", g.pathID, g.forward)
		users.PATCH("/:id", g.pathID, withBody[updateUserBody](g), g.forward)
		users.DELETE("/:id", g.pathID, g.forward)
	}

	requests := r.Group("/requests", actor)
	{
		requests.POST("", withBody[itemRequestBody](g), g.forward)
		requests.GET("", g.forward)
		requests.GET("/all", g.pageParams, g.forward)
		requests.GET("/:id", g.pathID, g.forward)
	}
}

func (g *Gateway) forward(c *gin.Context) {
	g.proxy.ServeHTTP(c.Writer, c.Request)
}

// withBody decodes and validates the JSON body as T, then restores it for
// the upstream call.
func withBody[T any](g *Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "failed to read request body")
			return
		}
		var body T
		if err := json.Unmarshal(raw, &body); err != nil {
			response.BadRequest(c, "malformed JSON body")
			return
		}
		if err := g.validate.Struct(body); err != nil {
			response.BadRequest(c, validationMessage(err))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		c.Request.ContentLength = int64(len(raw))
		c.Next()
	}
}

// listParams fills defaults for state, from and size and checks their ranges.
func (g *Gateway) listParams(c *gin.Context) {
	q, ok := g.bindPage(c)
	if !ok {
		return
	}
	if q.State == "" {
		q.State = defaultState
	}
	values := c.Request.URL.Query()
	values.Set("state", q.State)
	values.Set("from", strconv.Itoa(q.From))
	values.Set("size", strconv.Itoa(q.Size))
	c.Request.URL.RawQuery = values.Encode()
	c.Next()
}

// pageParams checks from and size on routes without a state filter.
func (g *Gateway) pageParams(c *gin.Context) {
	q, ok := g.bindPage(c)
	if !ok {
		return
	}
	values := c.Request.URL.Query()
	values.Set("from", strconv.Itoa(q.From))
	values.Set("size", strconv.Itoa(q.Size))
	c.Request.URL.RawQuery = values.Encode()
	c.Next()
}

func (g *Gateway) bindPage(c *gin.Context) (listQuery, bool) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "from and size must be integers")
		return q, false
	}
	if err := g.validate.Struct(q); err != nil {
		response.BadRequest(c, validationMessage(err))
		return q, false
	}
	return q, true
}

func (g *Gateway) pathID(c *gin.Context) {
	if err := g.validate.Var(c.Param("id"), "required,number"); err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	c.Next()
}

func (g *Gateway) approvedParam(c *gin.Context) {
	if err := g.validate.Var(c.Query("approved"), "required,boolean"); err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}
	c.Next()
}
