package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"ruralearn/config"
	"strings"
)

// SendEmail sends a generic HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Println("Email not configured, skipping send:", subject)
		return nil
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: RuraLearn <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg)); err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// getEmailTemplate wraps body content in the platform's email chrome
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F9F4; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B4332; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B4332; line-height: 1.6; }
			.content h2 { color: #1B4332; margin-top: 0; }
			.footer { background-color: #F4F9F4; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #74C69D; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F5E9; padding: 15px; border-radius: 4px; border-left: 4px solid #74C69D; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>RuraLearn</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				Learning for every village. This is an automated message, please do not reply.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendWelcomeEmail greets a newly registered learner
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Welcome to RuraLearn! Your account is ready.</p>
		<p>Browse the catalog, enroll in a course and start learning at your own pace.
		Every completed course earns you a certificate you can share.</p>`, name)

	if err := SendEmail([]string{email}, "Welcome to RuraLearn", getEmailTemplate("Welcome aboard!", body)); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", email, err)
	}
}

// SendCertificateEmail congratulates a learner on course completion
func SendCertificateEmail(email, name, courseTitle, certificateURL string) {
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Congratulations! You completed <strong>%s</strong>.</p>
		<div class="info-box">Your certificate is ready to view and share.</div>
		<a class="btn" href="%s">View Certificate</a>`, name, courseTitle, certificateURL)

	if err := SendEmail([]string{email}, "Your RuraLearn certificate is ready", getEmailTemplate("Course completed!", body)); err != nil {
		log.Printf("Failed to send certificate email to %s: %v", email, err)
	}
}
