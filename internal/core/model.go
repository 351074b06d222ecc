package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is the tenant boundary. Every other record belongs to exactly one
// company, and every query is scoped by company ID.
type Company struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email,omitempty"`
	Currency          string          `json:"currency"`
	DefaultTaxRate    decimal.Decimal `json:"default_tax_rate"`
	QuoteValidityDays int             `json:"quote_validity_days"`
	QuotePrefix       string          `json:"quote_prefix"`
	NextQuoteNumber   int64           `json:"next_quote_number"`
	InvoicePrefix     string          `json:"invoice_prefix"`
	NextInvoiceNumber int64           `json:"next_invoice_number"`
	POPrefix          string          `json:"po_prefix"`
	NextPONumber      int64           `json:"next_po_number"`
	SalePrefix        string          `json:"sale_prefix"`
	ExpensePrefix     string          `json:"expense_prefix"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CompanySettings is the subset of company state the document services need:
// numbering prefixes, defaults, and the quote validity window.
type CompanySettings struct {
	Currency          string          `json:"currency"`
	DefaultTaxRate    decimal.Decimal `json:"default_tax_rate"`
	QuoteValidityDays int             `json:"quote_validity_days"`
	QuotePrefix       string          `json:"quote_prefix"`
	InvoicePrefix     string          `json:"invoice_prefix"`
	POPrefix          string          `json:"po_prefix"`
	SalePrefix        string          `json:"sale_prefix"`
	ExpensePrefix     string          `json:"expense_prefix"`
}

type User struct {
	ID           int       `json:"id"`
	CompanyID    int       `json:"company_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Customer struct {
	ID        int       `json:"id"`
	CompanyID int       `json:"company_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Vendor struct {
	ID               int       `json:"id"`
	CompanyID        int       `json:"company_id"`
	Name             string    `json:"name"`
	ContactPerson    *string   `json:"contact_person,omitempty"`
	Email            *string   `json:"email,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	Address          *string   `json:"address,omitempty"`
	PaymentTermsDays int       `json:"payment_terms_days"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CategoryKind distinguishes product catalog categories from expense categories.
type CategoryKind string

const (
	CategoryProduct CategoryKind = "product"
	CategoryExpense CategoryKind = "expense"
)

type Category struct {
	ID        int          `json:"id"`
	CompanyID int          `json:"company_id"`
	Name      string       `json:"name"`
	Kind      CategoryKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}

type TaxRate struct {
	ID        int             `json:"id"`
	CompanyID int             `json:"company_id"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
}

type Product struct {
	ID            int             `json:"id"`
	CompanyID     int             `json:"company_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	CategoryID    *int            `json:"category_id,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	Unit          string          `json:"unit"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LineItem is a quantity × unit-price entry within a document. Items are owned
// exclusively by their parent; quote→invoice conversion copies values, never
// references.
type LineItem struct {
	ID          int              `json:"id"`
	Position    int              `json:"position"`
	ProductID   *int             `json:"product_id,omitempty"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	Total       decimal.Decimal  `json:"total"`
	Profit      *decimal.Decimal `json:"profit,omitempty"`
}

// LineItemInput is the client-supplied shape of a line item. Total and profit
// are always recomputed server-side; client-supplied aggregates are ignored.
type LineItemInput struct {
	ProductID   *int             `json:"product_id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
}

// DiscountType selects how a document-level discount is interpreted.
type DiscountType string

const (
	DiscountAmount     DiscountType = "amount"
	DiscountPercentage DiscountType = "percentage"
)

// ClientKind tags the ordering party of a purchase order: either the tenant
// company itself or one of its registered customers.
type ClientKind string

const (
	ClientCompany  ClientKind = "company"
	ClientCustomer ClientKind = "customer"
)

// ClientRef is the resolved tagged union. CustomerID is set iff Kind is
// ClientCustomer.
type ClientRef struct {
	Kind       ClientKind `json:"kind"`
	CustomerID *int       `json:"customer_id,omitempty"`
}

type Quote struct {
	ID                 int             `json:"id"`
	CompanyID          int             `json:"company_id"`
	CustomerID         int             `json:"customer_id"`
	CustomerName       string          `json:"customer_name"`
	Number             string          `json:"number"`
	Status             QuoteStatus     `json:"status"`
	Items              []LineItem      `json:"items"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Discount           decimal.Decimal `json:"discount"`
	DiscountType       DiscountType    `json:"discount_type"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	Total              decimal.Decimal `json:"total"`
	Notes              *string         `json:"notes,omitempty"`
	ValidUntil         *time.Time      `json:"valid_until,omitempty"`
	RejectionReason    *string         `json:"rejection_reason,omitempty"`
	ConvertedInvoiceID *int            `json:"converted_invoice_id,omitempty"`
	SentAt             *time.Time      `json:"sent_at,omitempty"`
	ViewedAt           *time.Time      `json:"viewed_at,omitempty"`
	AcceptedAt         *time.Time      `json:"accepted_at,omitempty"`
	RejectedAt         *time.Time      `json:"rejected_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type Invoice struct {
	ID           int             `json:"id"`
	CompanyID    int             `json:"company_id"`
	CustomerID   int             `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	QuoteID      *int            `json:"quote_id,omitempty"`
	Number       string          `json:"number"`
	Status       InvoiceStatus   `json:"status"`
	Items        []LineItem      `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType DiscountType    `json:"discount_type"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Payments     []Payment       `json:"payments,omitempty"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	SentAt       *time.Time      `json:"sent_at,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Payment struct {
	ID        int             `json:"id"`
	InvoiceID int             `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidOn    time.Time       `json:"paid_on"`
	Method    string          `json:"method"`
	Reference *string         `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type PurchaseOrder struct {
	ID                   int             `json:"id"`
	CompanyID            int             `json:"company_id"`
	VendorID             int             `json:"vendor_id"`
	VendorName           string          `json:"vendor_name"`
	Client               ClientRef       `json:"client"`
	Number               string          `json:"number"`
	Status               POStatus        `json:"status"`
	Items                []LineItem      `json:"items"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	Discount             decimal.Decimal `json:"discount"`
	DiscountType         DiscountType    `json:"discount_type"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	TaxAmount            decimal.Decimal `json:"tax_amount"`
	Total                decimal.Decimal `json:"total"`
	Notes                *string         `json:"notes,omitempty"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date,omitempty"`
	ApprovedBy           *string         `json:"approved_by,omitempty"`
	SentAt               *time.Time      `json:"sent_at,omitempty"`
	ConfirmedAt          *time.Time      `json:"confirmed_at,omitempty"`
	ApprovedAt           *time.Time      `json:"approved_at,omitempty"`
	StartedAt            *time.Time      `json:"started_at,omitempty"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
	CancelledAt          *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type Sale struct {
	ID            int             `json:"id"`
	CompanyID     int             `json:"company_id"`
	CustomerID    *int            `json:"customer_id,omitempty"`
	Number        string          `json:"number"`
	Status        SaleStatus      `json:"status"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountType  DiscountType    `json:"discount_type"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	PaymentMethod string          `json:"payment_method"`
	SoldOn        time.Time       `json:"sold_on"`
	Notes         *string         `json:"notes,omitempty"`
	Returns       []SaleReturn    `json:"returns,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type SaleReturn struct {
	ID         int             `json:"id"`
	SaleID     int             `json:"sale_id"`
	SaleItemID int             `json:"sale_item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     *string         `json:"reason,omitempty"`
	ReturnedOn time.Time       `json:"returned_on"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Expense struct {
	ID            int             `json:"id"`
	CompanyID     int             `json:"company_id"`
	VendorID      *int            `json:"vendor_id,omitempty"`
	CategoryID    *int            `json:"category_id,omitempty"`
	Number        string          `json:"number"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	SpentOn       time.Time       `json:"spent_on"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
