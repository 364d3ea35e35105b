package email

import (
	"strings"
	"testing"
)

func TestRenderQuotationTemplate(t *testing.T) {
	data := quotationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Quotation 123",
			Heading: "Quotation 123",
		},
		QuotationEmailData: QuotationEmailData{
			QuotationNumber: "123",
			CustomerName:    "Juan Dela Cruz",
			QuotationDate:   "2025-06-01",
			Lines: []QuotationLine{
				{ProductName: "Widget", ItemDescription: "Blue, large", Quantity: 2, UnitPrice: "10.00", TotalPrice: "20.00"},
				{ProductName: "Gadget", Quantity: 3, UnitPrice: "5.56", TotalPrice: "16.67"},
			},
			GrandTotal: "36.67",
		},
	}

	html, err := renderEmailTemplate("quotation.html", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Juan Dela Cruz",
		"2025-06-01",
		"Widget",
		"Blue, large",
		"20.00",
		"36.67",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestRenderQuotationTemplate_EscapesHTML(t *testing.T) {
	data := quotationEmailData{
		baseEmailData: baseEmailData{Title: "Quotation", Heading: "Quotation"},
		QuotationEmailData: QuotationEmailData{
			CustomerName:  "<script>alert(1)</script>",
			QuotationDate: "2025-06-01",
			GrandTotal:    "0.00",
		},
	}

	html, err := renderEmailTemplate("quotation.html", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("expected customer name to be escaped")
	}
}

func TestRenderUnknownTemplateFails(t *testing.T) {
	if _, err := renderEmailTemplate("missing.html", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
