package model

import "time"

// MerchantStatus is the activation state of a merchant account.
type MerchantStatus string

const (
	MerchantActive   MerchantStatus = "ACTIVE"
	MerchantInactive MerchantStatus = "INACTIVE"
)

// Merchant is one tenant on the platform.
type Merchant struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Address   string         `json:"address,omitempty"`
	Status    MerchantStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`

	// Operator notification preferences, applied when the live
	// dispatcher is initialized for this merchant.
	NotificationSoundEnabled *bool    `json:"notificationSoundEnabled,omitempty"`
	NotificationSoundVolume  *float64 `json:"notificationSoundVolume,omitempty"`
}

// UserRole is the access level of a platform user.
type UserRole string

const (
	RoleSuperAdmin    UserRole = "SUPER_ADMIN"
	RoleMerchantAdmin UserRole = "MERCHANT_ADMIN"
)

// User is an operator account.
type User struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       UserRole `json:"role"`
	MerchantID string   `json:"merchantId,omitempty"`
}

// WhatsAppLine is a WhatsApp Business phone line bound to a merchant.
type WhatsAppLine struct {
	ID                 string    `json:"id"`
	MerchantID         string    `json:"merchantId"`
	MerchantName       string    `json:"merchantName,omitempty"`
	Phone              string    `json:"phone"`
	DisplayPhoneNumber string    `json:"displayPhoneNumber,omitempty"`
	Status             string    `json:"status"` // "ACTIVE" | "INACTIVE"
	PhoneNumberID      string    `json:"phoneNumberId,omitempty"`
	WabaID             string    `json:"wabaId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// PaymentAccount is a merchant bank/wallet account shown to customers.
type PaymentAccount struct {
	ID            string `json:"id"`
	MerchantID    string `json:"merchantId"`
	Bank          string `json:"bank"`
	AccountNumber string `json:"accountNumber"`
	HolderName    string `json:"holderName"`
	IsDefault     bool   `json:"isDefault"`
}

// BusinessHours is one weekday's opening window for a merchant.
type BusinessHours struct {
	ID         string `json:"id,omitempty"`
	Weekday    int    `json:"weekday"` // 0 = Sunday
	OpensAt    string `json:"opensAt"` // "09:00"
	ClosesAt   string `json:"closesAt"`
	IsClosed   bool   `json:"isClosed"`
	MerchantID string `json:"merchantId,omitempty"`
}

// DemoRequestStatus is the triage state of an inbound demo request.
type DemoRequestStatus string

const (
	DemoPending   DemoRequestStatus = "PENDING"
	DemoContacted DemoRequestStatus = "CONTACTED"
	DemoClosed    DemoRequestStatus = "CLOSED"
)

// DemoRequest is an inbound lead from the public site.
type DemoRequest struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone,omitempty"`
	Company   string            `json:"company,omitempty"`
	Status    DemoRequestStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// StatsSummary is the dashboard aggregate view.
type StatsSummary struct {
	Merchants      int            `json:"merchants,omitempty"`
	Orders         int            `json:"orders,omitempty"`
	WhatsAppLines  int            `json:"whatsappLines,omitempty"`
	OrdersByStatus map[string]int `json:"ordersByStatus,omitempty"`
	DailyOrders    []DailyCount   `json:"dailyOrders,omitempty"`
}

// DailyCount is one day's order count in the dashboard summary.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
