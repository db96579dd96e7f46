package collector

import (
	"sort"
	"strings"

	"github.com/aluiziolira/go-appstore-collector/itunes"
)

// Categories maps App Store category names to their genre identifiers.
var Categories = map[string]int{
	"games":                6014,
	"business":             6000,
	"education":            6017,
	"lifestyle":            6012,
	"entertainment":        6016,
	"utilities":            6002,
	"travel":               6003,
	"sports":               6004,
	"social_networking":    6005,
	"reference":            6006,
	"productivity":         6007,
	"photo_video":          6008,
	"news":                 6009,
	"navigation":           6010,
	"music":                6011,
	"medical":              6020,
	"magazines_newspapers": 6021,
	"food_drink":           6023,
	"finance":              6015,
	"health_fitness":       6013,
	"weather":              6001,
	"books":                6018,
	"shopping":             6024,
	"developer_tools":      6026,
	"graphics_design":      6027,
}

// PriorityTerms are the searches that historically surface the most
// apps, ordered so the broadest queries own contested track IDs.
var PriorityTerms = []string{
	"app", "game", "free", "pro", "best", "new", "top", "2024", "2025",
	"social", "photo", "video", "music", "chat", "shop", "bank",
	"instagram", "tiktok", "youtube", "whatsapp", "facebook",
	"oyun", "ücretsiz", "en iyi", "yeni", "müzik", "film", "sosyal",
	"ai", "chatgpt", "vpn", "pdf", "qr", "edit", "camera",
}

// categoryVariations are the per-genre term variations that widen a
// category sweep beyond its own name.
var categoryVariations = []string{"app", "best", "top", "new", "free", "pro"}

// AllCategories returns every known category name in stable order.
func AllCategories() []string {
	names := make([]string, 0, len(Categories))
	for name := range Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TermQueries builds one query per plain search term.
func TermQueries(terms []string, limit int) []itunes.Query {
	queries := make([]itunes.Query, 0, len(terms))
	for _, term := range terms {
		queries = append(queries, itunes.Query{Term: term, Limit: limit})
	}
	return queries
}

// CategoryQueries builds the query sweep for the given category names.
// Unknown names are skipped. Each category is searched under its own
// name (underscores become spaces) and a fixed set of variations.
func CategoryQueries(categories []string, limit int) []itunes.Query {
	var queries []itunes.Query
	for _, name := range categories {
		genreID, ok := Categories[name]
		if !ok {
			continue
		}
		queries = append(queries, itunes.Query{
			Term:    strings.ReplaceAll(name, "_", " "),
			GenreID: genreID,
			Limit:   limit,
		})
		for _, term := range categoryVariations {
			queries = append(queries, itunes.Query{Term: term, GenreID: genreID, Limit: limit})
		}
	}
	return queries
}

// alphabet covers ASCII letters plus the Turkish ones, matching the
// store front the collector targets by default.
var alphabet = []string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"ç", "ğ", "ı", "ö", "ş", "ü",
}

var vowels = []string{"a", "e", "i", "o", "u"}

// AlphabetQueries builds single-letter queries plus letter+vowel pairs,
// a cheap way to sweep names the term lists never reach.
func AlphabetQueries(limit int) []itunes.Query {
	var queries []itunes.Query
	for _, letter := range alphabet {
		queries = append(queries, itunes.Query{Term: letter, Limit: limit})
		for _, vowel := range vowels {
			queries = append(queries, itunes.Query{Term: letter + vowel, Limit: limit})
		}
	}
	return queries
}
