package domain

// KeywordProfile is the distilled form of a free-text topic: a short
// essence plus weighted keyword and query sets. Immutable after creation;
// every downstream stage reads it, none writes it.
type KeywordProfile struct {
	Essence         string   `json:"essence"`
	PrimaryKeywords []string `json:"primary_keywords"`
	SearchQueries   []string `json:"search_queries"`
}

// FallbackProfile degrades a topic into a single-element profile. Used when
// the language model is unavailable or returns something unparseable;
// downstream stages must work correctly with it.
func FallbackProfile(topic string) KeywordProfile {
	return KeywordProfile{
		Essence:         topic,
		PrimaryKeywords: []string{topic},
		SearchQueries:   []string{topic},
	}
}

// Valid reports whether the profile carries all three fields. A profile
// missing any field is treated as a malformed upstream response.
func (p KeywordProfile) Valid() bool {
	return p.Essence != "" && len(p.PrimaryKeywords) > 0 && len(p.SearchQueries) > 0
}
