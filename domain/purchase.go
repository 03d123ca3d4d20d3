package domain

// PurchaseRecord is one delivery of an inventory item.
type PurchaseRecord struct {
	UUID          string   `json:"uuid"`
	ItemID        string   `json:"itemId"`
	ItemName      string   `json:"itemName"`
	PurchaseDate  string   `json:"purchaseDate"`
	Quantity      int      `json:"quantity"`
	BatchNo       string   `json:"batchNo"`
	ExpiryDate    string   `json:"expiryDate"`
	Supplier      string   `json:"supplier"`
	InvoiceNumber string   `json:"invoiceNumber"`
	CostPerUnit   *float64 `json:"costPerUnit"`
	Status        Status   `json:"status"`
}
