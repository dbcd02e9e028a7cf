// Package remote cliente HTTP de la API de estoque (Django REST). Es la única fuente de verdad
// de productos, categorías y movimientos.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
	"github.com/jhoicas/Inventario-dashboard/pkg/telemetry"
)

// Client implementa los puertos ProductStore, MovementStore, CategoryStore, DashboardStore y AccountStore.
type Client struct {
	http   *resty.Client
	tracer trace.Tracer
	log    *logger.Logger
}

var (
	_ repository.ProductStore   = (*Client)(nil)
	_ repository.MovementStore  = (*Client)(nil)
	_ repository.CategoryStore  = (*Client)(nil)
	_ repository.DashboardStore = (*Client)(nil)
	_ repository.AccountStore   = (*Client)(nil)
)

// New crea el cliente. No hace reintentos automáticos: sólo el reintento único tras renovar el token.
func New(cfg config.RemoteConfig, log *logger.Logger) *Client {
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout()).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	return &Client{
		http:   rc,
		tracer: otel.Tracer(telemetry.InstrumentationName + "/remote"),
		log:    log.Named("remote"),
	}
}

// call describe una petición a la API.
type call struct {
	op     string
	method string
	path   string
	query  map[string]string
	body   any
	out    any
}

func (c *Client) request(ctx context.Context, cl call, token string) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if len(cl.query) > 0 {
		req.SetQueryParams(cl.query)
	}
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}
	return req.Execute(cl.method, cl.path)
}

// doAuth ejecuta una llamada autenticada: ante un 401 renueva el token una vez y reintenta una vez.
// Un segundo 401 o una renovación rechazada termina en domain.ErrSessionExpired.
func (c *Client) doAuth(ctx context.Context, auth repository.Authenticator, cl call) error {
	ctx, span := c.tracer.Start(ctx, "remote."+cl.op, trace.WithAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("http.route", cl.path),
	))
	defer span.End()

	err := c.doAuthSpan(ctx, auth, cl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) doAuthSpan(ctx context.Context, auth repository.Authenticator, cl call) error {
	token, err := auth.AccessToken(ctx)
	if err != nil {
		return err
	}
	resp, err := c.request(ctx, cl, token)
	if err == nil && resp.StatusCode() == http.StatusUnauthorized {
		c.log.Debug().Str("op", cl.op).Msg("401 de la API; renovando token")
		token, err = auth.Refresh(ctx)
		if err != nil {
			return err
		}
		resp, err = c.request(ctx, cl, token)
		if err == nil && resp.StatusCode() == http.StatusUnauthorized {
			return fmt.Errorf("remote %s: 401 tras renovar el token: %w", cl.op, domain.ErrSessionExpired)
		}
	}
	return c.decode(cl, resp, err)
}

// doPublic ejecuta una llamada sin bearer token (login, refresh, registro).
func (c *Client) doPublic(ctx context.Context, cl call) error {
	ctx, span := c.tracer.Start(ctx, "remote."+cl.op)
	defer span.End()

	resp, err := c.request(ctx, cl, "")
	if err = c.decode(cl, resp, err); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// decode traduce la respuesta HTTP a resultado o a *Error.
func (c *Client) decode(cl call, resp *resty.Response, err error) error {
	if err != nil {
		c.log.Warn().Err(err).Str("op", cl.op).Msg("API de estoque no disponible")
		return &Error{Op: cl.op, Message: err.Error(), Err: domain.ErrRemoteUnreachable}
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		if cl.out == nil || len(resp.Body()) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Body(), cl.out); err != nil {
			return fmt.Errorf("remote %s: decodificar respuesta: %w", cl.op, err)
		}
		return nil
	}

	msg, fields := parseErrorBody(resp.Body())
	rerr := &Error{Op: cl.op, StatusCode: status, Message: msg, Fields: fields}
	switch {
	case status == http.StatusNotFound:
		rerr.Err = domain.ErrNotFound
	case status == http.StatusUnauthorized:
		rerr.Err = domain.ErrUnauthorized
	case status >= 500:
		rerr.Err = domain.ErrRemoteUnreachable
		c.log.Warn().Str("op", cl.op).Int("status", status).Msg("error del servidor de estoque")
	default:
		rerr.Err = domain.ErrRemoteRejected
	}
	if rerr.Message == "" {
		rerr.Message = http.StatusText(status)
	}
	return rerr
}

// IsRemoteError indica si err viene de la API (con o sin respuesta).
func IsRemoteError(err error) bool {
	var rerr *Error
	return errors.As(err, &rerr)
}
