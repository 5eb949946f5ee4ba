package pipeline

// categoryKeywords drives category inference for records that arrive
// unclassified. A category is added when any of its keywords appears
// as a substring of the lowercased title + description. Static
// configuration, never mutated.
var categoryKeywords = map[string][]string{
	"benefits":       {"benefit", "compensation", "pension", "claim", "disability rating"},
	"crisis":         {"crisis", "suicide", "hotline", "emergency assistance"},
	"disability":     {"disability", "disabled", "accessibility", "adaptive"},
	"education":      {"education", "school", "scholarship", "tuition", "gi bill", "vocational training"},
	"employment":     {"job", "career", "hiring", "employment", "resume", "workforce"},
	"family":         {"family", "spouse", "caregiver", "dependent", "childcare"},
	"financial":      {"financial", "loan", "grant", "debt", "emergency fund"},
	"food":           {"food", "meal", "pantry", "nutrition", "groceries"},
	"healthcare":     {"health care", "healthcare", "medical", "clinic", "hospital", "dental"},
	"housing":        {"housing", "homeless", "shelter", "rent", "mortgage"},
	"legal":          {"legal", "attorney", "lawyer", "court", "expungement"},
	"mental-health":  {"mental health", "counseling", "therapy", "ptsd", "substance abuse"},
	"transportation": {"transportation", "transit", "rideshare", "shuttle"},
}

// tagKeywords maps content keywords to the tag each one produces.
// Static configuration, never mutated.
var tagKeywords = map[string]string{
	"ptsd":            "ptsd",
	"disabled":        "disabled",
	"family":          "family",
	"crisis":          "crisis",
	"caregiver":       "caregiver",
	"spouse":          "spouse",
	"homeless":        "homeless",
	"women":           "women",
	"substance abuse": "substance-abuse",
	"active duty":     "active-duty",
	"low income":      "low-income",
}
