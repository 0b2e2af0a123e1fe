package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"pulse/config"
	"strings"
)

// SendEmail delivers an HTML email through the configured SMTP account.
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: PULSE <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email to %v: %v", to, err)
		return err
	}
	return nil
}

// getEmailTemplate wraps body content in the shared PULSE layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B2A4A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 2px; }
			.content { padding: 40px 30px; color: #1B2A4A; line-height: 1.6; }
			.content h2 { color: #1B2A4A; margin-top: 0; }
			.otp { text-align: center; color: #2E7D32; font-size: 40px; margin: 20px 0; letter-spacing: 6px; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>PULSE</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2025 PULSE. Course reviews by students, for students.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendVerificationEmail delivers the 6-digit verification code. Sent
// synchronously: registration fails loudly if the code cannot go out.
func SendVerificationEmail(email, code string) error {
	subject := "PULSE Email Verification Code"
	body := fmt.Sprintf(`
		<p>Your one-time verification code is:</p>
		<h1 class="otp">%s</h1>
		<p>The code expires in 5 minutes. Do not share it with anyone.</p>
		<p>If you did not create a PULSE account, you can safely ignore this email.</p>
	`, code)

	return SendEmail([]string{email}, subject, getEmailTemplate("Verify your email", body))
}

// SendWelcomeEmail greets a newly verified student.
func SendWelcomeEmail(email, name string) {
	if name == "" {
		name = "student"
	}
	subject := "Welcome to PULSE"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your email is verified and your account is ready.</p>
		<p>Search professors and courses, read what other students think, and share your own reviews.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome to PULSE!", body))
}
