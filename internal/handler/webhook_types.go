package handler

// Inbound callback payloads from the workflow engine. Field names are
// the engine's contract.

// InvoiceProcessedEvent announces that the engine finished processing a
// submission.
type InvoiceProcessedEvent struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	InvoiceID string `json:"invoice_id"`
	Message   string `json:"message"`
	PDFURL    string `json:"pdf_url"`
}

// DocumentDeliveryEvent carries a generated PDF back to the portal.
type DocumentDeliveryEvent struct {
	OrderID    string `json:"order_id"`
	PDFContent string `json:"pdf_content"`
	Filename   string `json:"filename"`
	Type       string `json:"type"`
}

// StatusUpdateEvent is the generic lifecycle notification.
type StatusUpdateEvent struct {
	OrderID   string `json:"order_id"`
	Estado    string `json:"estado"`
	Detalles  string `json:"detalles"`
	Timestamp string `json:"timestamp"`
}
