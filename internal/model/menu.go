package model

// MenuItem is one sellable item on a merchant's menu.
type MenuItem struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"isAvailable"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// MenuCategory groups menu items under a heading.
type MenuCategory struct {
	ID    string     `json:"id,omitempty"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Menu is a merchant's full published menu.
type Menu struct {
	ID         string         `json:"id,omitempty"`
	MerchantID string         `json:"merchantId,omitempty"`
	Categories []MenuCategory `json:"categories"`
}

// Upload is a stored file reference returned by the menu-import upload step.
type Upload struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// MenuImportResult is the outcome of processing uploaded menu sources.
type MenuImportResult struct {
	Preview  *Menu    `json:"preview,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
