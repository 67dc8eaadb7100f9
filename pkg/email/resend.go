package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"
)

// EmailService sends operational alerts to the admin inbox. Marketplace
// users authenticate through Telegram and have no email address on file.
type EmailService struct {
	client *resend.Client
	from   string
	admin  string
}

func NewEmailService(apiKey, adminEmail string) *EmailService {
	return &EmailService{
		client: resend.NewClient(apiKey),
		from:   "NoteShare <noreply@noteshare.app>",
		admin:  adminEmail,
	}
}

// SendPayoutAlert notifies the admin that a payout needs processing.
func (s *EmailService) SendPayoutAlert(payoutID uint, sellerID uint, amount float64, method string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.admin},
		Subject: fmt.Sprintf("Payout request #%d", payoutID),
		Html: fmt.Sprintf(
			"<p>Seller %d requested a payout of <strong>$%.2f</strong> via %s. The amount is already reserved from their wallet.</p>",
			sellerID, amount, method,
		),
	}
	_, err := s.client.Emails.Send(params)
	return err
}

// SendModerationAlert notifies the admin that an uploaded note awaits review.
func (s *EmailService) SendModerationAlert(noteID uint, title string, sellerID uint) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.admin},
		Subject: fmt.Sprintf("Note pending review: %s", title),
		Html: fmt.Sprintf(
			"<p>Note %d (<strong>%s</strong>) from seller %d is pending moderation.</p>",
			noteID, title, sellerID,
		),
	}
	_, err := s.client.Emails.Send(params)
	return err
}
