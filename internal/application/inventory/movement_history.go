package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/ledger"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

// MovementHistoryUseCase proxy del historial remoto; no se guarda historial local.
type MovementHistoryUseCase struct {
	sessions  SessionProvider
	movements repository.MovementStore
}

func NewMovementHistoryUseCase(sessions SessionProvider, movements repository.MovementStore) *MovementHistoryUseCase {
	return &MovementHistoryUseCase{sessions: sessions, movements: movements}
}

// ListMovements filtra por tipo, producto y rango de fechas (AAAA-MM-DD).
func (uc *MovementHistoryUseCase) ListMovements(ctx context.Context, sessionID string, in dto.MovementListRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	f := repository.MovementFilter{
		ProductID: strings.TrimSpace(in.ProductID),
		Page:      in.Page,
	}
	if strings.TrimSpace(in.Kind) != "" {
		kind, err := ledger.ParseKind(in.Kind)
		if err != nil {
			return nil, err
		}
		f.Kind = kind
	}
	var err error
	if f.From, err = parseDate(in.From); err != nil {
		return nil, err
	}
	if f.To, err = parseDate(in.To); err != nil {
		return nil, err
	}

	page, err := uc.movements.ListMovements(ctx, uc.sessions.Authenticator(sessionID), f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, dto.FromMovement(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page: dto.PageResponse{
			Page:    in.Page,
			Total:   page.Count,
			HasNext: page.HasNext,
			HasPrev: page.HasPrev,
		},
	}, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, &ledger.Failure{Kind: ledger.FailureMalformedInput, Message: "fecha inválida (use AAAA-MM-DD): " + s}
	}
	return &d, nil
}
