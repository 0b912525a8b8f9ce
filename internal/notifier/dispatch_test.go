package notifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"restostock/internal/domain"
	"restostock/internal/notifier"
	"restostock/internal/pkg/logger"
)

// MockEmailSender é uma implementação mock da interface EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// MockMessageSender é uma implementação mock da interface MessageSender.
type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendMessage(toPhone, body string) error {
	args := m.Called(toPhone, body)
	return args.Error(0)
}

func sampleAlert() notifier.LowStockAlert {
	return notifier.LowStockAlert{ProductName: "Tomato", CurrentStock: 5, MinimumStock: 15}
}

// TestLowStockAlert_Messages testa o assunto e o corpo exatos do alerta.
func TestLowStockAlert_Messages(t *testing.T) {
	alert := sampleAlert()

	assert.Equal(t, "Low Stock: Tomato", alert.Subject())
	assert.Equal(t,
		"The stock of the product Tomato is below the minimum amount.\nCurrent stock: 5\nMinimum stock: 15",
		alert.Body())
}

// TestDirect_SendsBothChannels testa que o despacho síncrono envia email e
// WhatsApp para o mesmo destinatário.
func TestDirect_SendsBothChannels(t *testing.T) {
	mockEmail := new(MockEmailSender)
	mockMessage := new(MockMessageSender)
	direct := notifier.NewDirect(mockEmail, mockMessage)

	alert := sampleAlert()
	to := notifier.Recipient{Name: "Alice", Email: "alice@resto.com", Phone: "+5511999990001"}

	mockEmail.On("SendEmail", "alice@resto.com", alert.Subject(), alert.Body()).Return(nil).Once()
	mockMessage.On("SendMessage", "+5511999990001", alert.Body()).Return(nil).Once()

	err := direct.NotifyLowStock(context.Background(), to, alert)

	assert.NoError(t, err)
	mockEmail.AssertExpectations(t)
	mockMessage.AssertExpectations(t)
}

// TestDirect_Fail_EmailError testa que a falha de email propaga e interrompe
// o envio do WhatsApp.
func TestDirect_Fail_EmailError(t *testing.T) {
	mockEmail := new(MockEmailSender)
	mockMessage := new(MockMessageSender)
	direct := notifier.NewDirect(mockEmail, mockMessage)

	alert := sampleAlert()
	to := notifier.Recipient{Email: "alice@resto.com", Phone: "+5511999990001"}

	mockEmail.On("SendEmail", "alice@resto.com", alert.Subject(), alert.Body()).
		Return(errors.New("SMTP timeout"))

	err := direct.NotifyLowStock(context.Background(), to, alert)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "falha ao enviar email")
	mockMessage.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

// TestQueue_DeliversAndDrainsOnClose testa que a fila entrega os alertas
// enfileirados antes de encerrar.
func TestQueue_DeliversAndDrainsOnClose(t *testing.T) {
	mockEmail := new(MockEmailSender)
	mockMessage := new(MockMessageSender)
	direct := notifier.NewDirect(mockEmail, mockMessage)
	queue := notifier.NewQueue(direct, 8, logger.NewLogger("debug"))

	alert := sampleAlert()
	to := notifier.Recipient{Email: "alice@resto.com", Phone: "+5511999990001"}

	mockEmail.On("SendEmail", "alice@resto.com", alert.Subject(), alert.Body()).Return(nil).Twice()
	mockMessage.On("SendMessage", "+5511999990001", alert.Body()).Return(nil).Twice()

	assert.NoError(t, queue.NotifyLowStock(context.Background(), to, alert))
	assert.NoError(t, queue.NotifyLowStock(context.Background(), to, alert))

	// Close espera o worker drenar: depois daqui os envios aconteceram.
	queue.Close()

	mockEmail.AssertExpectations(t)
	mockMessage.AssertExpectations(t)
}

// TestRecipientFromUser testa a projeção de usuário em destinatário.
func TestRecipientFromUser(t *testing.T) {
	u := domain.User{Name: "Alice", Email: "alice@resto.com", Phone: "+5511999990001", Profile: domain.ProfileOwner}

	to := notifier.RecipientFromUser(u)

	assert.Equal(t, "Alice", to.Name)
	assert.Equal(t, "alice@resto.com", to.Email)
	assert.Equal(t, "+5511999990001", to.Phone)
}
