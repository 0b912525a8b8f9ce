package notifier

import (
	"context"
	"fmt"

	"restostock/internal/pkg/logger"
)

// Direct envia o alerta na própria requisição: um email e uma mensagem
// WhatsApp por destinatário, em sequência. Um canal lento bloqueia o
// chamador e uma falha de envio propaga o erro.
type Direct struct {
	email   EmailSender
	message MessageSender
}

// NewDirect cria o despachante síncrono.
func NewDirect(email EmailSender, message MessageSender) *Direct {
	return &Direct{email: email, message: message}
}

// NotifyLowStock envia os dois canais para o destinatário.
func (d *Direct) NotifyLowStock(_ context.Context, to Recipient, alert LowStockAlert) error {
	if err := d.email.SendEmail(to.Email, alert.Subject(), alert.Body()); err != nil {
		return fmt.Errorf("falha ao enviar email para %s: %w", to.Email, err)
	}
	if err := d.message.SendMessage(to.Phone, alert.Body()); err != nil {
		return fmt.Errorf("falha ao enviar WhatsApp para %s: %w", to.Phone, err)
	}
	return nil
}

// queuedAlert é o item enfileirado pela variante assíncrona.
type queuedAlert struct {
	to    Recipient
	alert LowStockAlert
}

// Queue é a variante fire-and-forget: enfileira o alerta em memória e um
// worker único faz o envio em background. NotifyLowStock nunca bloqueia a
// requisição; falhas de envio são apenas logadas.
type Queue struct {
	direct *Direct
	log    logger.Logger
	ch     chan queuedAlert
	done   chan struct{}
}

// NewQueue cria a fila e sobe o worker de envio.
func NewQueue(direct *Direct, size int, log logger.Logger) *Queue {
	q := &Queue{
		direct: direct,
		log:    log,
		ch:     make(chan queuedAlert, size),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for item := range q.ch {
		if err := q.direct.NotifyLowStock(context.Background(), item.to, item.alert); err != nil {
			q.log.Error("Falha ao despachar alerta de estoque baixo.", err)
		}
	}
}

// NotifyLowStock enfileira o alerta. Com a fila cheia o alerta é descartado
// com log de aviso, para nunca bloquear o caminho da requisição.
func (q *Queue) NotifyLowStock(_ context.Context, to Recipient, alert LowStockAlert) error {
	select {
	case q.ch <- queuedAlert{to: to, alert: alert}:
	default:
		q.log.Warn("Fila de alertas cheia, alerta descartado.", map[string]interface{}{
			"product": alert.ProductName,
			"email":   to.Email,
		})
	}
	return nil
}

// Close para de aceitar alertas e espera o worker drenar a fila.
func (q *Queue) Close() {
	close(q.ch)
	<-q.done
}
