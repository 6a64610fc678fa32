package models

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePaid   InvoiceStatus = "Paid"
	InvoiceUnpaid InvoiceStatus = "Unpaid"
)

// Invoice is a tenant-store invoice row, keyed by Number within the tenant.
// Total stays string-encoded; the store holds no typed columns.
type Invoice struct {
	Number      string        `json:"invoiceNumber"`
	Date        string        `json:"date"`
	Client      string        `json:"client"`
	Total       string        `json:"total"`
	Status      InvoiceStatus `json:"status"`
	PayloadJSON string        `json:"payload,omitempty"`
}

// Client is a tenant-store client row, keyed by Name.
type Client struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Product is a tenant-store product row, keyed by SKU.
type Product struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
}
