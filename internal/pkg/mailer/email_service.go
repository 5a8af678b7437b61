package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendFollowUpReminder(toEmail, patientName, followUp, dischargeDate string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendFollowUpReminder(toEmail, patientName, followUp, dischargeDate string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Follow-up Appointment Reminder")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s,</h2>
			<p>This is a reminder about the follow-up care from your discharge on %s:</p>
			<p style="background-color: #f5f5f5; padding: 15px; border-radius: 5px;">%s</p>
			<p>If you have questions before your appointment, our aftercare assistant is available any time.</p>
			<p>Take care,<br>Your Care Team</p>
		</div>
	`, patientName, dischargeDate, followUp)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send reminder to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Follow-up reminder sent to %s\n", toEmail)
	return nil
}
