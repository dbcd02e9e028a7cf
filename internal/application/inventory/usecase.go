package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/ledger"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
	"github.com/jhoicas/Inventario-dashboard/pkg/telemetry"
)

// RegisterMovementUseCase registra movimientos de estoque contra la API remota.
//
// Secuencia: conciliar localmente -> enviar -> releer el producto del servidor.
// El espejo local sólo se escribe con la relectura; el valor calculado nunca se da por final.
type RegisterMovementUseCase struct {
	sessions  SessionProvider
	products  repository.ProductStore
	movements repository.MovementStore
	mirror    repository.ProductMirror
	alerts    repository.AlertPublisher
	log       *logger.Logger
	tracer    trace.Tracer
	counter   metric.Int64Counter
	now       func() time.Time

	// alertas en vuelo; se publican fuera de la petición
	pending      sync.WaitGroup
	alertTimeout time.Duration
}

// defaultAlertTimeout tope para publicar una alerta (Kafka + SMTP).
const defaultAlertTimeout = 10 * time.Second

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	sessions SessionProvider,
	products repository.ProductStore,
	movements repository.MovementStore,
	mirror repository.ProductMirror,
	alerts repository.AlertPublisher,
	log *logger.Logger,
) *RegisterMovementUseCase {
	l := log.Named("inventory")
	counter, err := otel.Meter(telemetry.InstrumentationName).Int64Counter("inventory.movements",
		metric.WithDescription("Movimientos de estoque por tipo y resultado"))
	if err != nil {
		l.Warn().Err(err).Msg("no se pudo crear el contador inventory.movements")
	}
	return &RegisterMovementUseCase{
		sessions:  sessions,
		products:  products,
		movements: movements,
		mirror:    mirror,
		alerts:    alerts,
		log:       l,
		tracer:    otel.Tracer(telemetry.InstrumentationName + "/inventory"),
		counter:   counter,
		now:       time.Now,

		alertTimeout: defaultAlertTimeout,
	}
}

// RegisterMovement concilia, envía y relee. Devuelve el *ledger.Failure si la conciliación local
// rechaza el movimiento (nada se envía) o el error remoto tal cual si el servidor lo rechaza.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, sessionID string, in dto.RegisterMovementRequest) (*dto.MovementResultResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.RegisterMovement")
	defer span.End()

	input, err := ParseMovementRequest(in)
	if err != nil {
		uc.record(ctx, in.Kind, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("product.id", input.ProductID),
		attribute.String("movement.kind", string(input.Kind)),
	)

	res, err := uc.register(ctx, sessionID, input)
	uc.record(ctx, string(input.Kind), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

func (uc *RegisterMovementUseCase) register(ctx context.Context, sessionID string, input MovementInputDTO) (*dto.MovementResultResponse, error) {
	auth := uc.sessions.Authenticator(sessionID)
	log := uc.log.With().Str("session_id", sessionID).Str("product_id", input.ProductID).Str("kind", string(input.Kind)).Logger()

	// 1. Lectura fresca + conciliación local
	product, err := uc.products.GetProduct(ctx, auth, input.ProductID)
	if err != nil {
		return nil, err
	}
	result := ledger.Apply(*product, input.Kind, input.Quantity)
	if !result.OK() {
		log.Info().Str("failure", string(result.Failure.Kind)).Msg("movimiento rechazado localmente")
		return nil, result.Err()
	}

	// 2. Envío (sin reintentos)
	mov, err := uc.movements.SubmitMovement(ctx, auth, entity.Movement{
		ProductID:  input.ProductID,
		Kind:       input.Kind,
		Quantity:   input.Quantity,
		Note:       input.Note,
		OccurredOn: input.OccurredOn,
	})
	if err != nil {
		log.Warn().Err(err).Msg("la API rechazó el movimiento")
		return nil, err
	}

	// 3. Relectura: el servidor es la única fuente de verdad
	out := &dto.MovementResultResponse{
		Kind:          string(input.Kind),
		Quantity:      input.Quantity,
		PreviousStock: result.Outcome.PreviousStock,
		ExpectedStock: result.Outcome.NewStock,
	}
	if mov != nil {
		out.MovementID = mov.ID
	}
	refreshed, err := uc.products.GetProduct(ctx, auth, input.ProductID)
	if err != nil {
		log.Warn().Err(err).Msg("movimiento aceptado pero no se pudo releer el producto")
		// sin relectura, la última lectura del servidor es la previa al envío
		out.Product = dto.FromProduct(product)
		out.BelowMinimum = product.IsLowStock()
		return out, nil
	}
	if err := uc.mirror.Replace(ctx, refreshed); err != nil {
		log.Warn().Err(err).Msg("no se pudo actualizar el espejo local")
	}

	out.Product = dto.FromProduct(refreshed)
	out.Refreshed = true
	out.BelowMinimum = refreshed.IsLowStock()
	out.Diverged = !refreshed.CurrentStock.Equal(result.Outcome.NewStock)
	if out.Diverged {
		log.Info().
			Str("expected", result.Outcome.NewStock.String()).
			Str("server", refreshed.CurrentStock.String()).
			Msg("el stock del servidor difiere del calculado")
	}

	// 4. Alerta de estoque bajo (best effort, no demora la respuesta)
	if out.BelowMinimum {
		uc.publishLowStock(ctx, sessionID, *refreshed)
	}
	return out, nil
}

// publishLowStock publica en segundo plano con un contexto desligado de la petición y acotado por alertTimeout.
func (uc *RegisterMovementUseCase) publishLowStock(ctx context.Context, sessionID string, p entity.Product) {
	occurredAt := uc.now()
	detached := context.WithoutCancel(ctx)
	uc.pending.Add(1)
	go func() {
		defer uc.pending.Done()
		ctx, cancel := context.WithTimeout(detached, uc.alertTimeout)
		defer cancel()

		triggeredBy := ""
		if s, err := uc.sessions.Get(ctx, sessionID); err == nil {
			triggeredBy = s.Email
		}
		alert := entity.NewLowStockAlert(p, triggeredBy, occurredAt)
		if err := uc.alerts.PublishLowStock(ctx, alert); err != nil {
			uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("no se pudo publicar la alerta de estoque bajo")
		}
	}()
}

// Wait espera a que terminen las alertas en vuelo. Se llama al apagar el servidor.
func (uc *RegisterMovementUseCase) Wait() {
	uc.pending.Wait()
}

// PreviewMovement sólo concilia: lee el producto del servidor y aplica el movimiento sin enviarlo.
// Los rechazos locales vienen en la respuesta (Accepted=false), no como error.
func (uc *RegisterMovementUseCase) PreviewMovement(ctx context.Context, sessionID string, in dto.RegisterMovementRequest) (*dto.MovementPreviewResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.PreviewMovement")
	defer span.End()

	input, err := ParseMovementRequest(in)
	if err != nil {
		return nil, err
	}
	product, err := uc.products.GetProduct(ctx, uc.sessions.Authenticator(sessionID), input.ProductID)
	if err != nil {
		return nil, err
	}

	result := ledger.Apply(*product, input.Kind, input.Quantity)
	out := &dto.MovementPreviewResponse{
		ProductID:     product.ID,
		Kind:          string(input.Kind),
		Quantity:      input.Quantity,
		PreviousStock: product.CurrentStock,
		Accepted:      result.OK(),
	}
	if result.OK() {
		out.NewStock = result.Outcome.NewStock
		out.BelowMinimum = result.Outcome.BelowMinimum
	} else {
		out.NewStock = product.CurrentStock
		out.FailureCode = string(result.Failure.Kind)
		out.Message = result.Failure.Message
	}
	return out, nil
}

func (uc *RegisterMovementUseCase) record(ctx context.Context, kind string, err error) {
	if uc.counter == nil {
		return
	}
	uc.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", Outcome(err)),
	))
}

// Outcome etiqueta de resultado para métricas y logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrMalformedInput):
		return "malformed"
	case errors.Is(err, domain.ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, domain.ErrRemoteRejected):
		return "remote_rejected"
	case errors.Is(err, domain.ErrRemoteUnreachable):
		return "remote_unreachable"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
