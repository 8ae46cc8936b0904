package models

// CategoryOthers is the fallback bucket for transactions the external
// classifier could not place, and for rows with no category at all.
const CategoryOthers = "Others"

// Categories is the spending vocabulary the external classifier assigns
// from. The schema does not enforce it; it is published here so reporting
// and seed tooling agree on the spelling.
var Categories = []string{
	"Food & Dining",
	"Groceries",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Investment",
	"Transfer",
	CategoryOthers,
}

// KnownCategory reports whether c is part of the published vocabulary.
func KnownCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}
