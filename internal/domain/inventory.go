package domain

type StockLevel struct {
	ItemNumber  int    `json:"item_number"`
	Description string `json:"description"`
	Available   int    `json:"available"`
	Reserved    int    `json:"reserved"`
}
