// Package whatsapp is the RPC client for the WhatsApp messaging service and
// its gRPC health endpoint.
//
// Messages are sent over connect-go using either the gRPC protocol (the
// default, over cleartext HTTP/2 for http:// addresses) or the Connect
// protocol. Unary calls run through a circuit breaker; streams do not.
package whatsapp

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"

	"twilio-gateway/internal/circuitbreaker"
	"twilio-gateway/internal/common/errors"
	"twilio-gateway/internal/common/logging"
)

const (
	ProtocolGRPC    = "grpc"
	ProtocolConnect = "connect"

	// HealthService is the service name sent in health requests.
	HealthService = "whatsapp"
)

const (
	procHealthCheck           = "/health.Health/Check"
	procHealthWatch           = "/health.Health/Watch"
	procSendMessage           = "/whatsapp.WhatsAppService/SendMessage"
	procGetMessageStatus      = "/whatsapp.WhatsAppService/GetMessageStatus"
	procGetConnectionStatus   = "/whatsapp.WhatsAppService/GetConnectionStatus"
	procWatchConnectionStatus = "/whatsapp.WhatsAppService/WatchConnectionStatus"
	procRestartConnection     = "/whatsapp.WhatsAppService/RestartConnection"
)

// Config configures a Client.
type Config struct {
	Address  string
	Protocol string
	Timeout  time.Duration
	Breaker  circuitbreaker.Config
	// HTTPClient overrides the transport built from Address and Protocol.
	HTTPClient connect.HTTPClient
}

// Client is safe for concurrent use. One instance is shared by the process.
type Client struct {
	timeout time.Duration
	logger  logging.Logger
	breaker *circuitbreaker.Breaker

	healthCheck      *connect.Client[HealthCheckRequest, HealthCheckResponse]
	healthWatch      *connect.Client[HealthCheckRequest, HealthCheckResponse]
	sendMessage      *connect.Client[SendMessageRequest, SendMessageResponse]
	messageStatus    *connect.Client[MessageStatusRequest, MessageStatusResponse]
	connectionStatus *connect.Client[ConnectionStatusRequest, ConnectionStatusResponse]
	connectionWatch  *connect.Client[ConnectionStatusRequest, ConnectionStatusResponse]
	restart          *connect.Client[RestartConnectionRequest, RestartConnectionResponse]
}

// NewClient builds a client. No connection is made until the first call.
func NewClient(cfg Config, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	logger = logger.WithFields(logging.Field{Key: "component", Value: "whatsapp_client"})

	u, err := url.Parse(cfg.Address)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.ConfigError(fmt.Sprintf("invalid messaging service address %q", cfg.Address))
	}
	base := strings.TrimRight(cfg.Address, "/")

	if cfg.Protocol == "" {
		cfg.Protocol = ProtocolGRPC
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker == (circuitbreaker.Config{}) {
		cfg.Breaker = circuitbreaker.DefaultConfig()
	}

	opts := []connect.ClientOption{
		connect.WithCodec(protoCodec{}),
		connect.WithInterceptors(newLoggingInterceptor(logger)),
	}
	switch cfg.Protocol {
	case ProtocolGRPC:
		opts = append(opts, connect.WithGRPC())
	case ProtocolConnect:
	default:
		return nil, errors.ConfigError(fmt.Sprintf("unsupported RPC protocol %q", cfg.Protocol))
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(u.Scheme, cfg.Protocol)
	}

	return &Client{
		timeout: cfg.Timeout,
		logger:  logger,
		breaker: circuitbreaker.New("whatsapp", cfg.Breaker, logger),

		healthCheck: connect.NewClient[HealthCheckRequest, HealthCheckResponse](httpClient, base+procHealthCheck, opts...),
		healthWatch: connect.NewClient[HealthCheckRequest, HealthCheckResponse](httpClient, base+procHealthWatch, opts...),
		sendMessage: connect.NewClient[SendMessageRequest, SendMessageResponse](httpClient, base+procSendMessage, opts...),
		messageStatus: connect.NewClient[MessageStatusRequest, MessageStatusResponse](
			httpClient, base+procGetMessageStatus, opts...),
		connectionStatus: connect.NewClient[ConnectionStatusRequest, ConnectionStatusResponse](
			httpClient, base+procGetConnectionStatus, opts...),
		connectionWatch: connect.NewClient[ConnectionStatusRequest, ConnectionStatusResponse](
			httpClient, base+procWatchConnectionStatus, opts...),
		restart: connect.NewClient[RestartConnectionRequest, RestartConnectionResponse](
			httpClient, base+procRestartConnection, opts...),
	}, nil
}

// newHTTPClient returns an HTTP/2 client for gRPC. Plain http addresses use
// prior-knowledge cleartext HTTP/2.
func newHTTPClient(scheme, protocol string) *http.Client {
	if protocol != ProtocolGRPC {
		return &http.Client{}
	}
	if scheme == "https" {
		return &http.Client{Transport: &http2.Transport{}}
	}
	return &http.Client{Transport: &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
		ReadIdleTimeout: 60 * time.Second,
		PingTimeout:     30 * time.Second,
	}}
}

func callUnary[Req, Res any](ctx context.Context, c *Client, op string, rpc *connect.Client[Req, Res], req *Req) (*Res, error) {
	var out *Res
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := rpc.CallUnary(ctx, connect.NewRequest(req))
		if err != nil {
			return translateError(op, err)
		}
		out = resp.Msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// translateError classifies an RPC failure as an AppError carrying the RPC
// code.
func translateError(op string, err error) error {
	code := connect.CodeOf(err)
	msg := err.Error()
	var ce *connect.Error
	if stderrors.As(err, &ce) && ce.Message() != "" {
		msg = ce.Message()
	}

	var appErr *errors.AppError
	switch code {
	case connect.CodeInvalidArgument:
		appErr = errors.ValidationError(fmt.Sprintf("%s rejected: %s", op, msg))
	case connect.CodeNotFound:
		appErr = &errors.AppError{Type: errors.ErrTypeNotFound, Message: msg}
	case connect.CodeDeadlineExceeded:
		appErr = errors.TimeoutError(op)
	default:
		appErr = errors.ConnectionError(fmt.Sprintf("%s failed: %s", op, msg), nil)
	}
	return appErr.WithCode(code.String()).WithCause(err)
}

// CheckHealth calls the standard health Check RPC.
func (c *Client) CheckHealth(ctx context.Context) (*HealthCheckResponse, error) {
	return callUnary(ctx, c, "health check", c.healthCheck, &HealthCheckRequest{Service: HealthService})
}

// SendMessage sends a text message. PhoneNumber, CountryCode and Text are required.
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	if req == nil || req.PhoneNumber == "" || req.CountryCode == "" || req.Text == "" {
		return nil, errors.ValidationError("phone number, country code and text are required")
	}
	return callUnary(ctx, c, "send message", c.sendMessage, req)
}

func (c *Client) GetMessageStatus(ctx context.Context, messageID string) (*MessageStatusResponse, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, errors.ValidationError("message id is required")
	}
	return callUnary(ctx, c, "get message status", c.messageStatus, &MessageStatusRequest{MessageID: messageID})
}

func (c *Client) GetConnectionStatus(ctx context.Context) (*ConnectionStatusResponse, error) {
	return callUnary(ctx, c, "get connection status", c.connectionStatus, &ConnectionStatusRequest{})
}

func (c *Client) RestartConnection(ctx context.Context, force bool, reason string) (*RestartConnectionResponse, error) {
	return callUnary(ctx, c, "restart connection", c.restart, &RestartConnectionRequest{Force: force, Reason: reason})
}

// IsConnected never fails: any error is reported as disconnected.
func (c *Client) IsConnected(ctx context.Context) (bool, string) {
	status, err := c.GetConnectionStatus(ctx)
	if err != nil {
		c.logger.WithContext(ctx).Warn("Connection check failed", logging.Err(err))
		return false, "Error checking connection"
	}
	return status.State == StateConnected, status.Message
}

// WatchConnectionStatus streams connection state changes to fn until the
// stream ends, fn returns an error or ctx is cancelled. Cancellation is not
// an error.
func (c *Client) WatchConnectionStatus(ctx context.Context, fn func(*ConnectionStatusResponse) error) error {
	return watch(ctx, "watch connection status", c.connectionWatch, &ConnectionStatusRequest{Watch: true}, fn)
}

// WatchHealth streams health status changes to fn.
func (c *Client) WatchHealth(ctx context.Context, fn func(*HealthCheckResponse) error) error {
	return watch(ctx, "watch health", c.healthWatch, &HealthCheckRequest{Service: HealthService}, fn)
}

func watch[Req, Res any](ctx context.Context, op string, rpc *connect.Client[Req, Res], req *Req, fn func(*Res) error) error {
	stream, err := rpc.CallServerStream(ctx, connect.NewRequest(req))
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return translateError(op, err)
	}
	defer stream.Close()

	for stream.Receive() {
		if err := fn(stream.Msg()); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		if ctx.Err() != nil || connect.CodeOf(err) == connect.CodeCanceled {
			return nil
		}
		return translateError(op, err)
	}
	return nil
}

// BreakerStats exposes the circuit breaker state for health reporting.
func (c *Client) BreakerStats() circuitbreaker.Stats {
	return c.breaker.Stats()
}

// loggingInterceptor logs procedure, duration and failures of outgoing calls.
type loggingInterceptor struct {
	logger logging.Logger
}

func newLoggingInterceptor(logger logging.Logger) connect.Interceptor {
	return &loggingInterceptor{logger: logger}
}

func (l *loggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		fields := []logging.Field{
			{Key: "procedure", Value: req.Spec().Procedure},
			{Key: "duration", Value: time.Since(start)},
		}
		if err != nil {
			fields = append(fields, logging.Field{Key: "code", Value: connect.CodeOf(err).String()}, logging.Err(err))
			l.logger.WithContext(ctx).Warn("rpc error", fields...)
		} else {
			l.logger.WithContext(ctx).Debug("rpc ok", fields...)
		}
		return resp, err
	}
}

func (l *loggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		l.logger.WithContext(ctx).Debug("rpc stream start", logging.Field{Key: "procedure", Value: spec.Procedure})
		return next(ctx, spec)
	}
}

func (l *loggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}
