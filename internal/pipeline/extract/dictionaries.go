// internal/pipeline/extract/dictionaries.go
package extract

// Static lookup tables for the UAE employee-banking domain. Loaded once at
// process start and never mutated.

// companyDictionary maps lowercase aliases to canonical company names.
var companyDictionary = map[string]string{
	"emirates nbd":          "Emirates NBD",
	"enbd":                  "Emirates NBD",
	"adcb":                  "ADCB",
	"abu dhabi commercial bank": "ADCB",
	"fab":                   "FAB",
	"first abu dhabi bank":  "FAB",
	"mashreq":               "Mashreq",
	"mashreq bank":          "Mashreq",
	"rakbank":               "RAKBANK",
	"dubai islamic bank":    "Dubai Islamic Bank",
	"dib":                   "Dubai Islamic Bank",
	"adib":                  "ADIB",
	"emirates islamic":      "Emirates Islamic",
	"cbd":                   "Commercial Bank of Dubai",
	"commercial bank of dubai": "Commercial Bank of Dubai",
	"careem":                "Careem",
	"talabat":               "Talabat",
	"noon":                  "Noon",
	"emaar":                 "Emaar",
	"etisalat":              "Etisalat",
	"du":                    "du",
	"dp world":              "DP World",
	"emirates airlines":     "Emirates Airlines",
	"flydubai":              "flydubai",
	"majid al futtaim":      "Majid Al Futtaim",
	"chalhoub":              "Chalhoub Group",
	"chalhoub group":        "Chalhoub Group",
	"aramex":                "Aramex",
	"g42":                   "G42",
	"tabby":                 "Tabby",
	"sarwa":                 "Sarwa",
}

// sectorDictionary maps lowercase aliases to canonical sector names.
var sectorDictionary = map[string]string{
	"bank":         "banking",
	"banks":        "banking",
	"banking":      "banking",
	"fintech":      "fintech",
	"financial technology": "fintech",
	"healthcare":   "healthcare",
	"health care":  "healthcare",
	"hospitals":    "healthcare",
	"retail":       "retail",
	"e-commerce":   "retail",
	"ecommerce":    "retail",
	"logistics":    "logistics",
	"shipping":     "logistics",
	"construction": "construction",
	"real estate":  "real estate",
	"property":     "real estate",
	"hospitality":  "hospitality",
	"hotels":       "hospitality",
	"technology":   "technology",
	"tech":         "technology",
	"software":     "technology",
	"education":    "education",
	"schools":      "education",
	"energy":       "energy",
	"oil and gas":  "energy",
	"insurance":    "insurance",
	"aviation":     "aviation",
	"airlines":     "aviation",
	"telecom":      "telecom",
	"telecommunications": "telecom",
}

// regionDictionary maps lowercase aliases to canonical region names.
var regionDictionary = map[string]string{
	"uae":               "UAE",
	"united arab emirates": "UAE",
	"emirates":          "UAE",
	"dubai":             "Dubai",
	"abu dhabi":         "Abu Dhabi",
	"sharjah":           "Sharjah",
	"ajman":             "Ajman",
	"ras al khaimah":    "Ras Al Khaimah",
	"fujairah":          "Fujairah",
	"umm al quwain":     "Umm Al Quwain",
	"difc":              "DIFC",
	"adgm":              "ADGM",
	"jlt":               "JLT",
	"jafza":             "JAFZA",
	"dubai south":       "Dubai South",
	"northern emirates": "Northern Emirates",
	"gcc":               "GCC",
	"saudi arabia":      "Saudi Arabia",
	"ksa":               "Saudi Arabia",
	"qatar":             "Qatar",
}

// signalDictionary maps lowercase trigger phrases to canonical signal types.
var signalDictionary = map[string]string{
	"hiring":           "hiring-expansion",
	"recruiting":       "hiring-expansion",
	"expanding":        "hiring-expansion",
	"expansion":        "hiring-expansion",
	"growing headcount": "hiring-expansion",
	"new office":       "office-opening",
	"office opening":   "office-opening",
	"opened an office":  "office-opening",
	"relocating":       "office-opening",
	"funding":          "funding-round",
	"raised":           "funding-round",
	"series a":         "funding-round",
	"series b":         "funding-round",
	"series c":         "funding-round",
	"investment round": "funding-round",
	"entering the market": "market-entry",
	"market entry":     "market-entry",
	"launched in":      "market-entry",
	"new market":       "market-entry",
	"subsidiary":       "subsidiary-creation",
	"new entity":       "subsidiary-creation",
	"spin-off":         "subsidiary-creation",
}

// heuristicStopwords are capitalized words that are never company guesses.
var heuristicStopwords = map[string]bool{
	"find": true, "show": true, "list": true, "search": true, "score": true,
	"rank": true, "draft": true, "compare": true, "the": true, "and": true,
	"for": true, "with": true, "top": true, "best": true, "what": true,
	"which": true, "give": true, "get": true, "tell": true, "companies": true,
	"uae": true, "dubai": true, "q1": true, "q2": true, "q3": true, "q4": true,
}

// Confidence tiers per extraction source. Hand-tuned.
const (
	confDictionaryCompany = 0.95
	confDictionary        = 0.90
	confPattern           = 0.85
	confDate              = 0.80
	confHeuristic         = 0.60
)
