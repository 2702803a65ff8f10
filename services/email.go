package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/printvault/printvault_api/model"
)

type EmailService struct {
	context.DefaultService

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	baseURL      string

	templates map[string]*template.Template
}

const EMAIL_SVC = "email_svc"

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.smtpHost = os.Getenv("SMTP_HOST")
	svc.smtpPort = os.Getenv("SMTP_PORT")
	svc.smtpUsername = os.Getenv("SMTP_USERNAME")
	svc.smtpPassword = os.Getenv("SMTP_PASSWORD")
	svc.fromEmail = os.Getenv("FROM_EMAIL")
	svc.fromName = os.Getenv("FROM_NAME")
	svc.baseURL = os.Getenv("BASE_URL")

	if svc.smtpPort == "" {
		svc.smtpPort = "587"
	}
	if svc.fromName == "" {
		svc.fromName = "PrintVault"
	}
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:8000"
	}

	svc.templates = make(map[string]*template.Template)

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	err := svc.loadTemplates()
	if err != nil {
		log.WithError(err).Error("Failed to load email templates")
		// Don't fail startup, just log the error
	}

	return nil
}

const welcomeEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome to {{.AppName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4F46E5; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .button { display: inline-block; padding: 12px 24px; background-color: #4F46E5; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome to {{.AppName}}!</h1>
        </div>
        <div class="content">
            <h2>Hi {{.Name}},</h2>
            <p>Your {{.AppName}} account is ready. Browse the catalog, grab free models, and your purchases will always be available from your account.</p>
            <a href="{{.CatalogURL}}" class="button">Browse Models</a>
        </div>
        <div class="footer">
            <p>&copy; 2026 {{.AppName}}. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`

const orderReceiptEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Order Receipt - {{.AppName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #059669; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .items { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
        .items table { width: 100%; border-collapse: collapse; }
        .items th, .items td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
        .total { font-weight: bold; font-size: 16px; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thanks for your order!</h1>
        </div>
        <div class="content">
            <h2>Hi {{.Name}},</h2>
            <p>Your order <strong>{{.OrderID}}</strong> is complete. The files below are now available to download from your account.</p>
            <div class="items">
                <table>
                    <tr><th>Model</th><th>Qty</th><th>Price</th></tr>
                    {{range .Items}}
                    <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>${{printf "%.2f" .Price}}</td></tr>
                    {{end}}
                    <tr><td class="total">Total</td><td></td><td class="total">${{printf "%.2f" .Total}}</td></tr>
                </table>
            </div>
            <p>Happy printing!</p>
        </div>
        <div class="footer">
            <p>&copy; 2026 {{.AppName}}. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`

type WelcomeEmailData struct {
	AppName    string
	Name       string
	CatalogURL string
}

type ReceiptItem struct {
	Name     string
	Quantity int
	Price    float64
}

type OrderReceiptEmailData struct {
	AppName string
	Name    string
	OrderID string
	Items   []ReceiptItem
	Total   float64
}

func (svc *EmailService) loadTemplates() error {
	var err error

	svc.templates["welcome"], err = template.New("welcome").Parse(welcomeEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse welcome email template: %v", err)
	}

	svc.templates["order_receipt"], err = template.New("order_receipt").Parse(orderReceiptEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse order receipt email template: %v", err)
	}

	return nil
}

func (svc *EmailService) SendWelcomeEmail(email, name string) error {
	if svc.smtpHost == "" {
		log.Warn("SMTP not configured, skipping welcome email")
		return nil
	}

	data := WelcomeEmailData{
		AppName:    "PrintVault",
		Name:       name,
		CatalogURL: fmt.Sprintf("%s/api/v1/products", svc.baseURL),
	}

	subject := "Welcome to PrintVault"
	return svc.sendTemplateEmail(email, subject, "welcome", data)
}

func (svc *EmailService) SendOrderReceipt(user *model.User, order *model.Order) error {
	if svc.smtpHost == "" {
		log.Warn("SMTP not configured, skipping order receipt email")
		return nil
	}

	items := make([]ReceiptItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ReceiptItem{
			Name:     item.Product.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	data := OrderReceiptEmailData{
		AppName: "PrintVault",
		Name:    user.Name,
		OrderID: order.ID,
		Items:   items,
		Total:   order.Total,
	}

	subject := fmt.Sprintf("Your PrintVault order %s", order.ID)
	return svc.sendTemplateEmail(user.Email, subject, "order_receipt", data)
}

func (svc *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	tmpl, exists := svc.templates[templateName]
	if !exists {
		return fmt.Errorf("template %s not found", templateName)
	}

	var body bytes.Buffer
	err := tmpl.Execute(&body, data)
	if err != nil {
		return fmt.Errorf("failed to execute template: %v", err)
	}

	return svc.sendEmail(to, subject, body.String())
}

func (svc *EmailService) sendEmail(to, subject, body string) error {
	if svc.smtpHost == "" {
		return fmt.Errorf("SMTP not configured")
	}

	auth := smtp.PlainAuth("", svc.smtpUsername, svc.smtpPassword, svc.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		svc.fromName, svc.fromEmail, to, subject, body))

	err := smtp.SendMail(
		svc.smtpHost+":"+svc.smtpPort,
		auth,
		svc.fromEmail,
		[]string{to},
		msg,
	)

	if err != nil {
		log.WithError(err).WithFields(log.Fields{"to": to, "subject": subject}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.WithFields(log.Fields{"to": to, "subject": subject}).Info("Email sent successfully")
	return nil
}
