package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/krishisethu/pos-api/internal/domain/entity"
	"github.com/krishisethu/pos-api/internal/domain/repository"
	"github.com/krishisethu/pos-api/pkg/apperror"
	"github.com/krishisethu/pos-api/pkg/billing"
	"github.com/krishisethu/pos-api/pkg/email"
	"github.com/krishisethu/pos-api/pkg/printer"
)

// PrinterService formats GST invoices and drives the thermal printer.
// Invoices print in two copies: ORIGINAL FOR RECIPIENT and DUPLICATE FOR
// SUPPLIER, as GST record-keeping expects.
type PrinterService struct {
	printer      printer.Printer
	saleRepo     repository.SaleRepository
	settingsRepo repository.SettingsRepository
	emailService *email.EmailService
	printerType  string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	settingsRepo repository.SettingsRepository,
	emailService *email.EmailService,
	printerType string,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		saleRepo:     saleRepo,
		settingsRepo: settingsRepo,
		emailService: emailService,
		printerType:  printerType,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// Returns the invoice data so the handler can return it as JSON when the printer is disabled.
func (s *PrinterService) TestPrint() (*entity.Invoice, error) {
	invoice := &entity.Invoice{
		Header: entity.InvoiceHeader{
			ShopName:     "PRINTER TEST",
			AddressLine1: "Test Address",
			Phone:        "+91 00000 00000",
		},
		BillNo:  "TEST-001",
		Date:    "Test Date",
		Cashier: "System",
		Items: []entity.InvoiceItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 10.00, GSTRate: 5, Total: 10.00},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 5.00, GSTRate: 5, Total: 10.00},
		},
		SubTotal:      20.00,
		CGST:          0.50,
		SGST:          0.50,
		Total:         21.00,
		Paid:          21.00,
		AmountInWords: billing.AmountInWords(21.00),
	}

	data := FormatInvoice(invoice)
	if err := s.printer.Print(data); err != nil {
		return invoice, fmt.Errorf("test print failed: %w", err)
	}

	return invoice, nil
}

// BuildInvoice composes the printable invoice for a sale from the sale
// record and the shop settings.
func (s *PrinterService) BuildInvoice(ctx context.Context, saleID uuid.UUID) (*entity.Invoice, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &entity.ShopSettings{ShopName: "KrishiSethu Fertilizers"}
	}

	taxAmount := float64(sale.TaxAmount) / 100
	total := float64(sale.Total) / 100
	paid := float64(sale.AmountPaid) / 100

	invoice := &entity.Invoice{
		Header: entity.InvoiceHeader{
			ShopName:     settings.ShopName,
			AddressLine1: settings.AddressLine1,
			AddressLine2: settings.AddressLine2,
			Phone:        settings.Phone,
			GSTIN:        settings.GSTIN,
			StateCode:    settings.StateCode,
		},
		BillNo:        sale.SaleNo,
		Date:          sale.SaleDate.Format("02-01-2006 15:04"),
		Customer:      sale.CustomerName,
		PaymentMethod: sale.PaymentMethod.String(),
		SubTotal:      float64(sale.Subtotal) / 100,
		Discount:      float64(sale.Discount) / 100,
		CGST:          billing.RoundRupees(taxAmount / 2),
		SGST:          billing.RoundRupees(taxAmount / 2),
		Total:         total,
		Paid:          paid,
		Due:           total - paid,
		AmountInWords: billing.AmountInWords(total),
		Footer:        settings.InvoiceFooter,
	}

	if sale.Customer != nil && sale.Customer.GSTIN != nil {
		invoice.CustomerGSTIN = *sale.Customer.GSTIN
	}

	for _, item := range sale.Items {
		invoice.Items = append(invoice.Items, entity.InvoiceItem{
			Name:        item.ProductName,
			HSNCode:     item.HSNCode,
			BatchNumber: item.BatchNumber,
			Quantity:    item.Quantity,
			UnitPrice:   float64(item.UnitPrice) / 100,
			GSTRate:     item.GSTRate,
			Total:       float64(item.Total) / 100,
		})
	}

	return invoice, nil
}

// PrintInvoice prints both GST copies of a sale's invoice.
func (s *PrinterService) PrintInvoice(ctx context.Context, saleID uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.BuildInvoice(ctx, saleID)
	if err != nil {
		return nil, err
	}

	for _, label := range []string{entity.InvoiceCopyOriginal, entity.InvoiceCopyDuplicate} {
		invoice.CopyLabel = label
		if err := s.printer.Print(FormatInvoice(invoice)); err != nil {
			log.Printf("Printer error (sale %s, %s): %v", saleID, label, err)
			return invoice, fmt.Errorf("failed to print invoice: %w", err)
		}
	}

	return invoice, nil
}

// EmailInvoice sends the invoice to the given address.
func (s *PrinterService) EmailInvoice(ctx context.Context, saleID uuid.UUID, toEmail string) error {
	invoice, err := s.BuildInvoice(ctx, saleID)
	if err != nil {
		return err
	}

	msg := &email.InvoiceEmail{
		ShopName:      invoice.Header.ShopName,
		ShopAddress:   invoice.Header.AddressLine1,
		ShopGSTIN:     invoice.Header.GSTIN,
		BillNo:        invoice.BillNo,
		Date:          invoice.Date,
		CustomerName:  invoice.Customer,
		PaymentMethod: invoice.PaymentMethod,
		Subtotal:      invoice.SubTotal,
		Discount:      invoice.Discount,
		CGST:          invoice.CGST,
		SGST:          invoice.SGST,
		GrandTotal:    invoice.Total,
		AmountInWords: invoice.AmountInWords,
		FooterNote:    invoice.Footer,
	}
	for _, item := range invoice.Items {
		msg.Lines = append(msg.Lines, email.InvoiceLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			GSTRate:   item.GSTRate,
			Total:     item.Total,
		})
	}

	return s.emailService.SendInvoice(toEmail, msg)
}

// FormatInvoice converts an Invoice into ESC/POS bytes.
func FormatInvoice(inv *entity.Invoice) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(inv.Header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if inv.Header.AddressLine1 != "" {
		doc.Text(inv.Header.AddressLine1)
	}
	if inv.Header.AddressLine2 != "" {
		doc.Text(inv.Header.AddressLine2)
	}
	if inv.Header.Phone != "" {
		doc.Text(inv.Header.Phone)
	}
	if inv.Header.GSTIN != "" {
		doc.TextF("GSTIN: %s", inv.Header.GSTIN)
	}

	doc.SetBold(true).Text("TAX INVOICE").SetBold(false)
	if inv.CopyLabel != "" {
		doc.Text(inv.CopyLabel)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Bill info
	doc.KeyValue("Bill No:", inv.BillNo).
		KeyValue("Date:", inv.Date)

	if inv.Cashier != "" {
		doc.KeyValue("Cashier:", inv.Cashier)
	}
	if inv.Customer != "" {
		doc.KeyValue("Customer:", inv.Customer)
	}
	if inv.CustomerGSTIN != "" {
		doc.KeyValue("Cust GSTIN:", inv.CustomerGSTIN)
	}
	if inv.PaymentMethod != "" {
		doc.KeyValue("Payment:", inv.PaymentMethod)
	}

	doc.Separator('-')

	// Items with HSN and batch for GST records
	for _, item := range inv.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
		if item.HSNCode != "" {
			doc.TextF("  HSN %s GST %.1f%%", item.HSNCode, item.GSTRate)
		}
		if item.BatchNumber != "" {
			doc.TextF("  Batch %s", item.BatchNumber)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", inv.SubTotal))
	if inv.Discount > 0 {
		doc.KeyValue("Discount:", fmt.Sprintf("-%.2f", inv.Discount))
	}
	if inv.CGST > 0 {
		doc.KeyValue("CGST:", fmt.Sprintf("%.2f", inv.CGST)).
			KeyValue("SGST:", fmt.Sprintf("%.2f", inv.SGST))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", inv.Total)).
		SetBold(false)

	if inv.Paid > 0 {
		doc.KeyValue("Paid:", fmt.Sprintf("%.2f", inv.Paid))
	}
	if inv.Due > 0 {
		doc.KeyValue("Due:", fmt.Sprintf("%.2f", inv.Due))
	}

	if inv.AmountInWords != "" {
		doc.Separator('-').
			WrappedText(inv.AmountInWords)
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed()
	if inv.Footer != "" {
		doc.Text(inv.Footer)
	} else {
		doc.Text("Thank you! Visit again.")
	}
	doc.LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
