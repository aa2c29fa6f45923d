package models

// Recipe is a row from the read-only catalog dataset. The dataset file
// stores the ingredient list as a serialized JSON array in a text
// column; the repository decodes it into Ingredients and drops rows
// whose cell does not parse.
type Recipe struct {
	ID             int64    `json:"id" gorm:"primaryKey;autoIncrement;column:id"`
	Name           string   `json:"name" gorm:"column:name;type:text"`
	RawIngredients string   `json:"-" gorm:"column:ingredients;type:text"`
	Ingredients    []string `json:"ingredients" gorm:"-"`
	Instructions   string   `json:"instructions" gorm:"column:instructions;type:text"`
}

// TableName pins the catalog table name used by the pre-built dataset.
func (Recipe) TableName() string {
	return "recipes"
}
