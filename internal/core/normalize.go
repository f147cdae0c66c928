package core

// Legacy category labels emitted by earlier prompt versions, mapped onto
// the canonical output set
var legacyCategories = map[Category]Category{
	"MOST_IMPORTANT":       CategoryActionable,
	"MODERATELY_IMPORTANT": CategoryInformational,
}

// NormalizeCategory rewrites legacy category synonyms to their canonical
// value. Unknown values pass through unchanged, so normalization is
// idempotent.
func NormalizeCategory(category Category) Category {
	if canonical, ok := legacyCategories[category]; ok {
		return canonical
	}
	return category
}

// NormalizeEmails canonicalizes the category of every email in place and
// returns the slice for convenience.
func NormalizeEmails(emails []TriageEmail) []TriageEmail {
	for i := range emails {
		emails[i].Category = NormalizeCategory(emails[i].Category)
	}
	return emails
}
