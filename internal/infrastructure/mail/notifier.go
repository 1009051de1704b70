// Package mail notificaciones de asignación por SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/pkg/config"
)

var _ usecase.AssignmentNotifier = (*Notifier)(nil)

// Notifier envía el aviso de asignación al técnico. El caso de uso lo trata
// como best-effort: un fallo aquí nunca revierte la asignación.
type Notifier struct {
	cfg config.SMTPConfig
}

// NewNotifier construye el notificador. Devuelve nil con SMTP sin configurar,
// y el caso de uso interpreta nil como notificaciones deshabilitadas.
func NewNotifier(cfg config.SMTPConfig) *Notifier {
	if cfg.Host == "" {
		return nil
	}
	return &Notifier{cfg: cfg}
}

// NotifyAssignment envía el correo de asignación.
func (n *Notifier) NotifyAssignment(ctx context.Context, technician *entity.User, order *entity.WorkOrder) error {
	if technician.Email == nil {
		return nil
	}
	msg := gomail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(*technician.Email); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(fmt.Sprintf("Orden de trabajo asignada: %s", order.Title))
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Hola %s,\n\nSe le asignó la orden de trabajo %q (prioridad %s).\n\nÁrea: %s\nMáquina: %s\n\n%s\n",
		technician.DisplayName, order.Title, order.Priority, order.Area, order.MachineRef, order.Description,
	))

	opts := []gomail.Option{gomail.WithPort(n.cfg.Port)}
	if n.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(n.cfg.User),
			gomail.WithPassword(n.cfg.Password),
		)
	}
	client, err := gomail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}
