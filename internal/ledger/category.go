package ledger

import "strings"

// OtherCategory is the choice that asks the user for a free-text label.
const OtherCategory = "Other"

// Category is either a named choice or a custom label entered through
// OtherCategory. It is resolved to plain text before a record is stored.
type Category struct {
	label  string
	custom bool
}

// NamedCategory returns a category picked from a list of choices.
func NamedCategory(name string) Category {
	return Category{label: strings.TrimSpace(name)}
}

// CustomCategory returns a category typed in by the user.
func CustomCategory(text string) Category {
	return Category{label: strings.TrimSpace(text), custom: true}
}

// ParseCategory resolves a category choice. Choosing OtherCategory
// substitutes the user supplied text, which is then required.
func ParseCategory(choice, other string) (Category, error) {
	choice = strings.TrimSpace(choice)
	if strings.EqualFold(choice, OtherCategory) {
		category := CustomCategory(other)
		if category.label == "" {
			return Category{}, invalid("categoryOther", "a category description is required when choosing Other")
		}
		return category, nil
	}
	if choice == "" {
		return Category{}, invalid("category", "category is required")
	}
	return NamedCategory(choice), nil
}

// IsCustom reports whether the label was typed in by the user.
func (c Category) IsCustom() bool {
	return c.custom
}

func (c Category) String() string {
	return c.label
}
