package domain

// ExpenseCategory is one of the fixed expense category keys
type ExpenseCategory string

const (
	CategoryHousing       ExpenseCategory = "housing"
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryUtilities     ExpenseCategory = "utilities"
	CategoryEntertainment ExpenseCategory = "entertainment"
	CategoryHealth        ExpenseCategory = "health"
	CategorySavings       ExpenseCategory = "savings"
	CategoryOther         ExpenseCategory = "other"
)

// CategoryInfo describes the display metadata of an expense category bucket
type CategoryInfo struct {
	Key   ExpenseCategory `json:"key"`
	Name  string          `json:"name"`
	Color string          `json:"color"`
}

// ExpenseCategories is the fixed, ordered set of expense buckets. Expenses with
// a key outside this set are grouped under "other" for breakdowns.
var ExpenseCategories = []CategoryInfo{
	{Key: CategoryHousing, Name: "Vivienda", Color: "#3b82f6"},
	{Key: CategoryFood, Name: "Alimentación", Color: "#22c55e"},
	{Key: CategoryTransport, Name: "Transporte", Color: "#eab308"},
	{Key: CategoryUtilities, Name: "Servicios", Color: "#a855f7"},
	{Key: CategoryEntertainment, Name: "Entretenimiento", Color: "#ec4899"},
	{Key: CategoryHealth, Name: "Salud", Color: "#ef4444"},
	{Key: CategorySavings, Name: "Ahorros", Color: "#10b981"},
	{Key: CategoryOther, Name: "Otros", Color: "#6b7280"},
}

// IncomeCategories is the fixed vocabulary for income records
var IncomeCategories = []string{"salary", "freelance", "investment", "gift", "other"}

// IsExpenseCategory reports whether key is one of the known expense buckets
func IsExpenseCategory(key string) bool {
	for _, c := range ExpenseCategories {
		if string(c.Key) == key {
			return true
		}
	}
	return false
}

// IsIncomeCategory reports whether key is one of the known income categories
func IsIncomeCategory(key string) bool {
	for _, c := range IncomeCategories {
		if c == key {
			return true
		}
	}
	return false
}

// CategoryByKey returns the bucket metadata for a category key, falling back
// to the "other" bucket for unknown keys.
func CategoryByKey(key string) CategoryInfo {
	for _, c := range ExpenseCategories {
		if string(c.Key) == key {
			return c
		}
	}
	return ExpenseCategories[len(ExpenseCategories)-1]
}
