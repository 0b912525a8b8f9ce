package notifier

import (
	"gopkg.in/gomail.v2"
)

// SMTPSender envia emails de alerta via SMTP autenticado.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender cria o colaborador de email.
// O dialer é construído uma única vez na subida do processo e injetado.
func NewSMTPSender(host string, port int, user, pass, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

// SendEmail monta e envia a mensagem. A falha de entrega volta para o chamador.
func (s *SMTPSender) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}
