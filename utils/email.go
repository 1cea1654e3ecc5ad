// utils/email.go
package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/keighl/postmark"

	"zaymart-backend/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOTPEmail sends a password-reset code to the user.
func (es *EmailService) SendOTPEmail(toEmail, code, userName string) error {
	if userName == "" {
		userName = "User"
	}
	subject := "Password Reset OTP - ZayMart"
	return es.SendEmail(toEmail, subject, OTPEmailBody(userName, code))
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(toEmail, userName string, order models.Order) error {
	subject := "Order Confirmation - ZayMart"
	return es.SendEmail(toEmail, subject, OrderConfirmationBody(userName, order))
}

// OTPEmailBody renders the password-reset email.
func OTPEmailBody(userName, code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #ffffff; border-radius: 10px; padding: 30px;">
    <h2 style="text-align: center; color: #4a90e2;">ZayMart Password Reset</h2>
    <p>Hello %s,</p>
    <p>We received a request to reset your password. Use the following one-time code to continue:</p>
    <div style="border: 2px dashed #4a90e2; border-radius: 8px; padding: 20px; text-align: center; margin: 30px 0;">
      <span style="font-size: 32px; font-weight: bold; letter-spacing: 5px; color: #4a90e2;">%s</span>
    </div>
    <p>This code expires in <strong>10 minutes</strong>. Do not share it with anyone.</p>
    <p>If you did not request a password reset, you can safely ignore this email.</p>
    <p style="margin-top: 30px; font-size: 12px; color: #999; text-align: center;">&copy; %d ZayMart. This is an automated email, please do not reply.</p>
  </div>
</body>
</html>`, userName, code, time.Now().Year())
}

// OrderConfirmationBody renders the order confirmation email.
func OrderConfirmationBody(userName string, order models.Order) string {
	tracking := ""
	if order.InternalTrackingNumber != "" {
		tracking = fmt.Sprintf("<p>You can track your order with the code <strong>%s</strong>.</p>", order.InternalTrackingNumber)
	}
	return fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>$%.2f</strong><br>Status: <strong>%s</strong><br>%s<br>Thank you for shopping with us!",
		userName,
		order.ID.Hex(),
		order.Total,
		order.Status,
		tracking,
	)
}
