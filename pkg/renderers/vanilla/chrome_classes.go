package vanilla

// ChromeClass is a typed identifier for the semantic CSS classes the
// templates emit. Stylesheets and tests target these instead of layout.
type ChromeClass string

const (
	ClassPage    ChromeClass = "shelf-page"
	ClassStats   ChromeClass = "shelf-stats"
	ClassFilters ChromeClass = "shelf-filters"
	ClassChips   ChromeClass = "shelf-chips"
	ClassList    ChromeClass = "shelf-list"
	ClassCard    ChromeClass = "shelf-card"
	ClassBadge   ChromeClass = "shelf-badge"
	ClassActions ChromeClass = "shelf-actions"
	ClassDialog  ChromeClass = "shelf-dialog"
	ClassNotice  ChromeClass = "shelf-notice"
	ClassEmpty   ChromeClass = "shelf-empty"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"page":    string(ClassPage),
		"stats":   string(ClassStats),
		"filters": string(ClassFilters),
		"chips":   string(ClassChips),
		"list":    string(ClassList),
		"card":    string(ClassCard),
		"badge":   string(ClassBadge),
		"actions": string(ClassActions),
		"dialog":  string(ClassDialog),
		"notice":  string(ClassNotice),
		"empty":   string(ClassEmpty),
	}
}
