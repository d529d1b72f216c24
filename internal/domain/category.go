package domain

import "context"

// Category names form a fixed set shared by every owner
const (
	CategoryFoodDining     = "Food & Dining"
	CategoryTransportation = "Transportation"
	CategoryShopping       = "Shopping"
	CategoryEntertainment  = "Entertainment"
	CategoryBillsUtilities = "Bills & Utilities"
	CategoryHealthcare     = "Healthcare"
	CategoryEducation      = "Education"
	CategoryRentMortgage   = "Rent & Mortgage"
	CategoryInvestment     = "Investment"
	CategorySavings        = "Savings"
	CategoryOther          = "Other"
)

// UncategorizedLabel is used for expenses without a category
const UncategorizedLabel = CategoryOther

type Category struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// CategoryRepository reads the shared category reference data
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id int32) (*Category, error)
}
