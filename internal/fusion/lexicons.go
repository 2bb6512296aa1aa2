package fusion

// SignalLexicon is a static, versioned table of signal phrases. Each phrase
// is matched independently by case-insensitive substring containment; no
// weighting happens here (weights live in the scoring lexicons).
type SignalLexicon struct {
	Version   string
	Languages []string

	Intent     []string // intent / negotiation keywords
	Pain       []string // financial / emotional pain keywords
	Topics     []string // topical / occupational keywords
	Activities []string // call-to-action / activity phrases
}

// DefaultSignalLexicon covers the English/Tagalog phrasing seen in prospect
// bios and captured posts.
var DefaultSignalLexicon = SignalLexicon{
	Version:   "2026-08",
	Languages: []string{"en", "tl"},

	Intent: []string{
		"extra income",
		"side hustle",
		"sideline",
		"negosyo",
		"raket",
		"business opportunity",
		"passive income",
		"financial freedom",
		"insurance",
		"investment",
		"looking for work",
		"work from home",
	},
	Pain: []string{
		"pagod sa trabaho",
		"walang ipon",
		"kapos",
		"utang",
		"sahod na kulang",
		"laid off",
		"nawalan ng trabaho",
		"struggling",
		"can't pay",
		"bills piling up",
		"stressed",
		"burnout",
	},
	Topics: []string{
		"ofw",
		"teacher",
		"nurse",
		"engineer",
		"driver",
		"call center",
		"online seller",
		"freelancer",
		"entrepreneur",
		"real estate",
		"crypto",
		"small business",
	},
	Activities: []string{
		"pm me",
		"dm me",
		"message me",
		"pm is the key",
		"interested",
		"sign up",
		"join now",
		"how to start",
		"sali na",
		"link in bio",
	},
}
