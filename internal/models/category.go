package models

// Category names the complaint classification registry. Inserting a duplicate
// name is a no-op, not an error.
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// DefaultCategories returns the nine categories seeded at first initialization.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Academic", Description: "Issues related to teaching, exams, courses"},
		{Name: "Infrastructure", Description: "Building, classroom, lab issues"},
		{Name: "Hostel", Description: "Hostel accommodation and facilities"},
		{Name: "Library", Description: "Library resources and services"},
		{Name: "Canteen", Description: "Food and canteen services"},
		{Name: "Transport", Description: "College bus and transport"},
		{Name: "Administration", Description: "Administrative procedures"},
		{Name: "Harassment", Description: "Ragging, bullying, harassment"},
		{Name: "Other", Description: "Other complaints"},
	}
}
