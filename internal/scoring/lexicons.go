package scoring

// WeightedPhrase is one lexicon entry: a phrase matched by case-insensitive
// substring containment and the points it awards.
type WeightedPhrase struct {
	Phrase string
	Points int
}

// Weighted lexicon tables. Kept as ordered slices, not maps, so factor output
// is deterministic for the same input. Versioned alongside the signal lexicon
// in the fusion package.
const LexiconVersion = "2026-08"

// intentLexicon awards 18-30 points per matched phrase, capped at 30 total.
var intentLexicon = []WeightedPhrase{
	{"business opportunity", 30},
	{"passive income", 28},
	{"financial freedom", 26},
	{"extra income", 25},
	{"negosyo", 24},
	{"side hustle", 22},
	{"work from home", 21},
	{"insurance", 20},
	{"raket", 20},
	{"sideline", 19},
	{"investment", 18},
}

// painLexicon awards 14-20 points per matched phrase, capped at 20 total.
var painLexicon = []WeightedPhrase{
	{"laid off", 20},
	{"nawalan ng trabaho", 20},
	{"pagod sa trabaho", 18},
	{"sahod na kulang", 18},
	{"walang ipon", 17},
	{"utang", 16},
	{"bills piling up", 16},
	{"kapos", 15},
	{"burnout", 15},
	{"struggling", 14},
}

// lifeEventLexicon awards 11-15 points per matched phrase, capped at 15 total.
var lifeEventLexicon = []WeightedPhrase{
	{"new baby", 15},
	{"buntis", 14},
	{"graduated", 14},
	{"kasal", 13},
	{"married", 13},
	{"graduation", 13},
	{"promoted", 13},
	{"wedding", 12},
	{"new job", 12},
	{"bagong trabaho", 12},
	{"retired", 12},
	{"relocated", 11},
	{"moved to", 11},
}

// leadershipTitles flag authority when found in the occupation field.
var leadershipTitles = []string{
	"director",
	"manager",
	"supervisor",
	"head",
	"chief",
	"president",
	"vice president",
	"owner",
	"founder",
	"principal",
	"team lead",
}
