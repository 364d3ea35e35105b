package email

const (
	subjectQuotation = "Your Quotation from AND I QUOTE"
)
