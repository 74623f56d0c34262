package entity

// InvoiceHeader holds the shop header printed at the top of a GST invoice.
type InvoiceHeader struct {
	ShopName     string `json:"shop_name"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	Phone        string `json:"phone,omitempty"`
	GSTIN        string `json:"gstin,omitempty"`
	StateCode    string `json:"state_code,omitempty"`
}

// InvoiceItem represents a single line item on an invoice.
type InvoiceItem struct {
	Name        string  `json:"name"`
	HSNCode     string  `json:"hsn_code,omitempty"`
	BatchNumber string  `json:"batch_number,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	GSTRate     float64 `json:"gst_rate"`
	Total       float64 `json:"total"`
}

// Invoice copy labels printed under the header.
const (
	InvoiceCopyOriginal  = "ORIGINAL FOR RECIPIENT"
	InvoiceCopyDuplicate = "DUPLICATE FOR SUPPLIER"
)

// Invoice is a value object representing a printable GST invoice.
// It is NOT a database entity — it is composed from sale data at print time.
type Invoice struct {
	Header        InvoiceHeader `json:"header"`
	CopyLabel     string        `json:"copy_label,omitempty"`
	BillNo        string        `json:"bill_no"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	Customer      string        `json:"customer,omitempty"`
	CustomerGSTIN string        `json:"customer_gstin,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Items         []InvoiceItem `json:"items"`
	SubTotal      float64       `json:"sub_total"`
	Discount      float64       `json:"discount"`
	CGST          float64       `json:"cgst"`
	SGST          float64       `json:"sgst"`
	Total         float64       `json:"total"`
	Paid          float64       `json:"paid"`
	Due           float64       `json:"due"`
	AmountInWords string        `json:"amount_in_words"`
	Footer        string        `json:"footer,omitempty"`
}
