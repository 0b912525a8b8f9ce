package notifier

import (
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppSender despacha mensagens pelo gateway WhatsApp da Twilio.
// O cliente é construído uma única vez na subida do processo e injetado
// (nada de credencial global no pacote).
type WhatsAppSender struct {
	client *twilio.RestClient
	from   string
}

// NewWhatsAppSender cria o colaborador de mensageria.
func NewWhatsAppSender(accountSID, authToken, from string) *WhatsAppSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &WhatsAppSender{client: client, from: from}
}

// SendMessage envia o corpo para o telefone informado via WhatsApp.
func (s *WhatsAppSender) SendMessage(toPhone, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo("whatsapp:" + toPhone)
	params.SetFrom("whatsapp:" + s.from)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	return err
}
