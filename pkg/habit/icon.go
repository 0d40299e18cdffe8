package habit

// supportedIcons is the closed set of icon identifiers the frontend can
// render. Keeping the set here decouples stored habits from any particular
// icon library: an unknown name is rejected at the API boundary instead of
// failing at render time.
var supportedIcons = map[string]struct{}{
	"activity":     {},
	"apple":        {},
	"bed":          {},
	"bike":         {},
	"book-open":    {},
	"brain":        {},
	"briefcase":    {},
	"brush":        {},
	"coffee":       {},
	"droplets":     {},
	"dumbbell":     {},
	"flame":        {},
	"footprints":   {},
	"guitar":       {},
	"heart":        {},
	"heart-pulse":  {},
	"languages":    {},
	"leaf":         {},
	"moon":         {},
	"music":        {},
	"palette":      {},
	"pen-line":     {},
	"pill":         {},
	"salad":        {},
	"smile":        {},
	"sprout":       {},
	"sun":          {},
	"utensils":     {},
	"wallet":       {},
	"waves":        {},
}

func IsSupportedIcon(name string) bool {
	_, ok := supportedIcons[name]
	return ok
}
