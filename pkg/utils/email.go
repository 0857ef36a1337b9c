package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "BikeHub"
	frontendURL   = os.Getenv("FRONTEND_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #e63946; margin: 0;">BikeHub</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2026 BikeHub. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "BikeHub-Mailer"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

// SendDealerWelcomeEmail delivers the temporary password for a freshly
// provisioned dealer account.
func SendDealerWelcomeEmail(dealerEmail, dealerName, temporaryPassword string) error {
	subject := "Welcome to BikeHub - Your Dealer Account"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Welcome to BikeHub</h1>
					<p>Hello %s,</p>
					<p>A dealer account has been created for your business. Use the temporary password below to log in:</p>
					<p style="text-align: center; font-size: 20px; letter-spacing: 2px;"><strong>%s</strong></p>
					<p>You will be asked to change this password on first login. It expires in 3 days.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/login" style="background-color: #e63946; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Login to BikeHub</a>
					</div>
					<p>Best regards,<br>The BikeHub Team</p>
				</div>`+emailFooter,
		dealerName, temporaryPassword, frontendURL)

	return sendEmail([]string{dealerEmail}, subject, body)
}

// SendNewBookingEmailToDealer notifies a dealer that a test ride was requested.
func SendNewBookingEmailToDealer(dealerEmail, bikeName, userName, date, slot string) error {
	subject := "New Test Ride Request - BikeHub"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">New Test Ride Request</h1>
					<p>Hello,</p>
					<p><strong>%s</strong> has requested a test ride on the <strong>%s</strong> for <strong>%s</strong> at <strong>%s</strong>.</p>
					<p>Please log in to your BikeHub dealer dashboard to approve, reject or reschedule this booking.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/dealer/bookings" style="background-color: #e63946; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Bookings</a>
					</div>
					<p>Best regards,<br>The BikeHub Team</p>
				</div>`+emailFooter,
		userName, bikeName, date, slot, frontendURL)

	return sendEmail([]string{dealerEmail}, subject, body)
}

// SendBookingStatusEmail notifies the requester about a dealer decision on
// their test ride booking.
func SendBookingStatusEmail(userEmail, bikeName, status, dealerResponse string) error {
	var headline, detail string
	switch status {
	case "approved":
		headline = "Test Ride Approved"
		detail = fmt.Sprintf("Good news! Your test ride booking for the <strong>%s</strong> has been approved.", bikeName)
	case "rejected":
		headline = "Test Ride Rejected"
		detail = fmt.Sprintf("Unfortunately, your test ride booking for the <strong>%s</strong> has been rejected.", bikeName)
	case "rescheduled":
		headline = "Test Ride Rescheduled"
		detail = fmt.Sprintf("Your test ride booking for the <strong>%s</strong> has been rescheduled. Check your bookings for the new date and time.", bikeName)
	default:
		headline = "Booking Update"
		detail = fmt.Sprintf("Your test ride booking for the <strong>%s</strong> was updated to %s.", bikeName, status)
	}

	note := ""
	if dealerResponse != "" {
		note = fmt.Sprintf(`<p>Message from the dealer: <em>%s</em></p>`, dealerResponse)
	}

	subject := headline + " - BikeHub"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">%s</h1>
					<p>Hello,</p>
					<p>%s</p>
					%s
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/bookings" style="background-color: #e63946; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View My Bookings</a>
					</div>
					<p>Best regards,<br>The BikeHub Team</p>
				</div>`+emailFooter,
		headline, detail, note, frontendURL)

	return sendEmail([]string{userEmail}, subject, body)
}
