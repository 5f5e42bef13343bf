package model

// DefaultSubCategory is used whenever a record has no finer classification.
const DefaultSubCategory = "General"

// DemoCategories is the fixed set of categories demo data is generated for.
var DemoCategories = []string{
	"Food",
	"Utilities",
	"Transportation",
	"Personal",
	"Family",
	"Entertainment",
	"Subscriptions",
	"Miscellaneous",
}
