package domain

import "time"

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"

	UnitGram       SupplyUnit = "g"
	UnitMilliliter SupplyUnit = "ml"
	UnitPiece      SupplyUnit = "un"

	PricingFull        PricingMode = "full"
	PricingFixedProfit PricingMode = "fixed_profit"
)

type UserRole string
type SupplyUnit string
type PricingMode string

// ReusableSupplyCategory groups supplies produced by reusable recipes.
const ReusableSupplyCategory = "Pre-preparo"

type User struct {
	ID           int64
	Name         string
	Email        string
	Role         UserRole
	IsGoogle     bool
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type Category struct {
	ID        int64
	Name      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product is a menu entry. Category holds the category name, not its id.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    string
	ListIDs     []int64
	Image       string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToppingItem is a single add-on that can belong to any number of lists.
type ToppingItem struct {
	ID        int64
	Name      string
	Price     float64
	Image     string
	Free      bool
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToppingList groups add-ons offered with a product. MaxFree is the number
// of free-eligible items the customer may pick at no charge.
type ToppingList struct {
	ID        int64
	Name      string
	ItemIDs   []int64
	MaxFree   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Customer struct {
	ID            int64
	Name          string
	Phone         string
	AddressCEP    string
	AddressNumber string
	AddressFull   string
	LastOrderAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Supply is a raw material bought in packages of Amount units for Price.
type Supply struct {
	ID        int64
	Name      string
	Category  string
	Unit      SupplyUnit
	Price     float64
	Amount    float64
	RecipeID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnitCost is the price of one unit (gram, ml or piece).
func (s Supply) UnitCost() float64 {
	if s.Amount <= 0 {
		return 0
	}
	return s.Price / s.Amount
}

// RecipeIngredient is a snapshot of a supply taken when it was added to a
// recipe, plus the amount the recipe consumes.
type RecipeIngredient struct {
	SupplyID   int64      `json:"supplyId"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Unit       SupplyUnit `json:"unit"`
	Price      float64    `json:"price"`
	Amount     float64    `json:"amount"`
	UsedAmount float64    `json:"usedAmount"`
}

func (i RecipeIngredient) UnitCost() float64 {
	if i.Amount <= 0 {
		return 0
	}
	return i.Price / i.Amount
}

// Cost is the ingredient cost for one unit of the recipe.
func (i RecipeIngredient) Cost() float64 {
	return i.UnitCost() * i.UsedAmount
}

// SnapshotOf copies the cost fields of a supply.
func SnapshotOf(s Supply, used float64) RecipeIngredient {
	return RecipeIngredient{
		SupplyID:   s.ID,
		Name:       s.Name,
		Category:   s.Category,
		Unit:       s.Unit,
		Price:      s.Price,
		Amount:     s.Amount,
		UsedAmount: used,
	}
}

type Recipe struct {
	ID                 int64
	Name               string
	Ingredients        []RecipeIngredient
	ProfitPercent      float64
	OperationalPercent float64
	PricingMode        PricingMode
	ManualPrices       map[int64]float64
	IsReusable         bool
	YieldAmount        float64
	YieldUnit          string
	Instructions       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SalesChannel is an outlet with its own fee structure. IsBase marks the
// channel whose money profit fixed-profit pricing holds constant.
type SalesChannel struct {
	ID                int64
	Name              string
	CommissionPercent float64
	PaymentFeePercent float64
	FixedFee          float64
	Color             string
	IsBase            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
