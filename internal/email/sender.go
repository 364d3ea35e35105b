// Package email renders and delivers outbound transactional email.
package email

import "context"

// QuotationLine is a single row of the quotation email table.
type QuotationLine struct {
	ProductName     string
	ItemDescription string
	Quantity        int
	UnitPrice       string
	TotalPrice      string
}

// QuotationEmailData carries everything the quotation template needs.
// Money fields are preformatted with two fractional digits.
type QuotationEmailData struct {
	QuotationNumber string
	CustomerName    string
	QuotationDate   string
	Lines           []QuotationLine
	GrandTotal      string
}

// Sender delivers quotation emails. Implemented by SMTPSender; tests supply
// their own fake.
type Sender interface {
	SendQuotationEmail(ctx context.Context, toEmail string, data QuotationEmailData) error
}
