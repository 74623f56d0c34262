package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// InvoiceLine is a single row in the emailed invoice table.
type InvoiceLine struct {
	Name      string
	Quantity  int
	UnitPrice float64
	GSTRate   float64
	Total     float64
}

// InvoiceEmail holds everything needed to render and send an invoice.
type InvoiceEmail struct {
	ShopName      string
	ShopAddress   string
	ShopGSTIN     string
	BillNo        string
	Date          string
	CustomerName  string
	PaymentMethod string
	Lines         []InvoiceLine
	Subtotal      float64
	Discount      float64
	CGST          float64
	SGST          float64
	GrandTotal    float64
	AmountInWords string
	FooterNote    string
}

// SendInvoice renders the GST invoice template and emails it.
func (s *EmailService) SendInvoice(toEmail string, inv *InvoiceEmail) error {
	htmlContent, err := renderInvoice(inv)
	if err != nil {
		return fmt.Errorf("failed to render invoice template: %w", err)
	}

	subject := fmt.Sprintf("Invoice %s - %s", inv.BillNo, inv.ShopName)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

func renderInvoice(inv *InvoiceEmail) (string, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, inv); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// invoiceTemplate is the HTML template for emailed GST invoices.
const invoiceTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.BillNo}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, Helvetica, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 640px; margin: 24px auto; background-color: #ffffff; border: 1px solid #e2e8f0; border-collapse: collapse; width: 100%;">
        <tr>
            <td style="background-color: #166534; padding: 24px 30px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 24px;">{{.ShopName}}</h1>
                {{if .ShopAddress}}<p style="color: #dcfce7; margin: 6px 0 0 0; font-size: 13px;">{{.ShopAddress}}</p>{{end}}
                {{if .ShopGSTIN}}<p style="color: #dcfce7; margin: 4px 0 0 0; font-size: 13px;">GSTIN: {{.ShopGSTIN}}</p>{{end}}
            </td>
        </tr>
        <tr>
            <td style="padding: 24px 30px;">
                <table style="width: 100%; font-size: 14px; color: #1f2937;">
                    <tr>
                        <td><strong>Bill No:</strong> {{.BillNo}}</td>
                        <td style="text-align: right;"><strong>Date:</strong> {{.Date}}</td>
                    </tr>
                    <tr>
                        <td><strong>Customer:</strong> {{.CustomerName}}</td>
                        <td style="text-align: right;"><strong>Payment:</strong> {{.PaymentMethod}}</td>
                    </tr>
                </table>

                <table style="width: 100%; border-collapse: collapse; margin-top: 18px; font-size: 13px;">
                    <tr style="background-color: #f0fdf4; color: #166534;">
                        <th style="text-align: left; padding: 8px; border-bottom: 1px solid #bbf7d0;">Item</th>
                        <th style="text-align: right; padding: 8px; border-bottom: 1px solid #bbf7d0;">Qty</th>
                        <th style="text-align: right; padding: 8px; border-bottom: 1px solid #bbf7d0;">Rate</th>
                        <th style="text-align: right; padding: 8px; border-bottom: 1px solid #bbf7d0;">GST%</th>
                        <th style="text-align: right; padding: 8px; border-bottom: 1px solid #bbf7d0;">Amount</th>
                    </tr>
                    {{range .Lines}}
                    <tr>
                        <td style="padding: 8px; border-bottom: 1px solid #f1f5f9;">{{.Name}}</td>
                        <td style="text-align: right; padding: 8px; border-bottom: 1px solid #f1f5f9;">{{.Quantity}}</td>
                        <td style="text-align: right; padding: 8px; border-bottom: 1px solid #f1f5f9;">{{printf "%.2f" .UnitPrice}}</td>
                        <td style="text-align: right; padding: 8px; border-bottom: 1px solid #f1f5f9;">{{printf "%.1f" .GSTRate}}</td>
                        <td style="text-align: right; padding: 8px; border-bottom: 1px solid #f1f5f9;">{{printf "%.2f" .Total}}</td>
                    </tr>
                    {{end}}
                </table>

                <table style="width: 100%; font-size: 14px; color: #1f2937; margin-top: 18px;">
                    <tr><td>Subtotal</td><td style="text-align: right;">{{printf "%.2f" .Subtotal}}</td></tr>
                    {{if gt .Discount 0.0}}<tr><td>Discount</td><td style="text-align: right;">-{{printf "%.2f" .Discount}}</td></tr>{{end}}
                    <tr><td>CGST</td><td style="text-align: right;">{{printf "%.2f" .CGST}}</td></tr>
                    <tr><td>SGST</td><td style="text-align: right;">{{printf "%.2f" .SGST}}</td></tr>
                    <tr style="font-weight: bold; font-size: 16px;"><td style="padding-top: 8px;">Grand Total</td><td style="text-align: right; padding-top: 8px;">Rs. {{printf "%.2f" .GrandTotal}}</td></tr>
                </table>

                <p style="font-size: 12px; color: #4b5563; margin-top: 12px;"><em>{{.AmountInWords}}</em></p>
            </td>
        </tr>
        <tr>
            <td style="background-color: #f8fafc; padding: 18px 30px; text-align: center; border-top: 1px solid #e2e8f0;">
                <p style="color: #6b7280; font-size: 12px; margin: 0;">{{if .FooterNote}}{{.FooterNote}}{{else}}Thank you for your business!{{end}}</p>
            </td>
        </tr>
    </table>
</body>
</html>
`
