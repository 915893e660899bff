package models

// Allergen is the catalog view of a reference allergen document, as embedded
// into text analysis prompts.
type Allergen struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	CommonNames        []string `json:"commonNames"`
	HiddenSources      []string `json:"hiddenSources"`
	CrossReactiveFoods []string `json:"crossReactiveFoods"`
}

// AllergenFromDocument builds an Allergen from a reference document. Records
// without both an id and a name are not usable as catalog entries.
func AllergenFromDocument(doc Document) (Allergen, bool) {
	if !doc.Has("id") || !doc.Has("name") {
		return Allergen{}, false
	}
	return Allergen{
		ID:                 doc.String("id"),
		Name:               doc.String("name"),
		CommonNames:        nonNil(doc.Strings("commonNames")),
		HiddenSources:      nonNil(doc.Strings("hiddenSources")),
		CrossReactiveFoods: nonNil(doc.Strings("crossReactiveFoods")),
	}, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
