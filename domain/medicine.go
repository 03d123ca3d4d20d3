package domain

// The types below back the legacy stock pages, which keep their whole
// dataset in browser storage instead of the REST API.

// StockRecord is one medicine batch on hand.
type StockRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Batch       string `json:"batch"`
	Quantity    int    `json:"quantity"`
	Expiry      string `json:"expiry"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Dosage      string `json:"dosage,omitempty"`
	CreatedDate string `json:"createdDate"`
}

// PurchaseLog is a legacy purchase entry. Its total is always derived from
// quantity and cost per unit, never stored.
type PurchaseLog struct {
	ID           int64   `json:"id"`
	Date         string  `json:"date"`
	ItemName     string  `json:"itemName"`
	Batch        string  `json:"batch"`
	ExpiryDate   string  `json:"expiryDate"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit"`
	SupplierName string  `json:"supplierName"`
	CostPerUnit  float64 `json:"costPerUnit"`
}

type IssueLog struct {
	ID           int64  `json:"id"`
	MedicineName string `json:"medicineName"`
	Quantity     int    `json:"quantity"`
	IssuedTo     string `json:"issuedTo"`
	IssueDate    string `json:"issueDate"`
}
