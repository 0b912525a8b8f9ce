package notifier

import (
	"context"
	"fmt"

	"restostock/internal/domain"
)

// LowStockAlert carrega os dados do alerta de estoque baixo de um produto.
type LowStockAlert struct {
	ProductName  string
	CurrentStock int64
	MinimumStock int64
}

// Subject monta o assunto do email do alerta.
func (a LowStockAlert) Subject() string {
	return "Low Stock: " + a.ProductName
}

// Body monta o corpo compartilhado entre email e WhatsApp.
func (a LowStockAlert) Body() string {
	return fmt.Sprintf(
		"The stock of the product %s is below the minimum amount.\nCurrent stock: %d\nMinimum stock: %d",
		a.ProductName, a.CurrentStock, a.MinimumStock,
	)
}

// Recipient é o destinatário do alerta (um usuário com perfil OWNER).
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// RecipientFromUser projeta um domain.User em destinatário de alerta.
func RecipientFromUser(u domain.User) Recipient {
	return Recipient{Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// Notifier é a porta de despacho de alertas consumida pelo serviço de inventário.
// Há duas implementações: Direct (envia na própria requisição, bloqueante) e
// Queue (enfileira em memória e envia em background). O contrato
// "estoque baixo => notificar cada dono" é o mesmo nas duas.
type Notifier interface {
	NotifyLowStock(ctx context.Context, to Recipient, alert LowStockAlert) error
}

// EmailSender é o colaborador de email (SMTP).
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// MessageSender é o colaborador de mensageria (gateway WhatsApp).
type MessageSender interface {
	SendMessage(toPhone, body string) error
}
