package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
)

var _ repository.AlertPublisher = (*MailPublisher)(nil)

var lowStockBody = template.Must(template.New("estoque_baixo").Parse(`Prezado(a) administrador(a),

O produto abaixo atingiu o estoque mínimo:

Produto: {{.Name}}
Código: {{.Code}}
Quantidade atual: {{.CurrentStock.String}} {{.Unit}}
Estoque mínimo: {{.MinimumStock.String}}
Categoria: {{if .Category}}{{.Category}}{{else}}-{{end}}
{{- if .TriggeredBy}}
Movimentação registrada por: {{.TriggeredBy}}{{end}}

Por favor, realize um novo pedido ou ajuste o estoque mínimo.

Atenciosamente,
Sistema de Estoque
`))

// sender subconjunto de *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailPublisher envía la alerta por SMTP a los destinatarios configurados.
type MailPublisher struct {
	dialer sender
	from   string
	to     []string
}

func NewMailPublisher(cfg config.MailConfig) *MailPublisher {
	return &MailPublisher{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

func (p *MailPublisher) PublishLowStock(ctx context.Context, alert entity.LowStockAlert) error {
	msg, err := p.message(alert)
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- p.dialer.DialAndSend(msg) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *MailPublisher) message(alert entity.LowStockAlert) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := lowStockBody.Execute(&body, alert); err != nil {
		return nil, fmt.Errorf("plantilla de correo: %w", err)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetHeader("To", p.to...)
	m.SetHeader("Subject", "Alerta de Estoque Baixo - "+alert.Name)
	m.SetBody("text/plain", body.String())
	return m, nil
}
