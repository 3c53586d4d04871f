package mailer

import (
	"fmt"
	"strings"

	"file-concierge-be/pkg/store"

	"gopkg.in/gomail.v2"
)

// IEmailService delivers file links over SMTP. Used when the tenant blocks
// delegated Mail.Send; otherwise delivery goes through the Graph client.
type IEmailService interface {
	SendFileLink(toEmail string, file store.FileCandidate) error
	SendFileLinks(toEmail string, files []store.FileCandidate) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendFileLink(toEmail string, file store.FileCandidate) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your file: %s", file.Name))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Here is the file you requested</h2>
			<p><a href="%s">%s</a></p>
			<p>This link was sent because you asked the file concierge for it.</p>
		</div>
	`, file.WebURL, file.Name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send file link to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] File link sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendFileLinks(toEmail string, files []store.FileCandidate) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your files (%d)", len(files)))

	var items strings.Builder
	for _, f := range files {
		items.WriteString(fmt.Sprintf(`<li><a href="%s">%s</a></li>`, f.WebURL, f.Name))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Here are the files you requested</h2>
			<ul>%s</ul>
			<p>These links were sent because you asked the file concierge for them.</p>
		</div>
	`, items.String())

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send file links to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] %d file links sent to %s\n", len(files), toEmail)
	return nil
}
