package spotlight

// Group keys in display order.
const (
	GroupActions    = "actions"
	GroupProjects   = "projects"
	GroupExperience = "experience"
	GroupEducation  = "education"
	GroupSkills     = "skills"
	GroupLinks      = "links"
)

// GroupOrder is the fixed order groups are shown in.
var GroupOrder = []string{GroupActions, GroupProjects, GroupExperience, GroupEducation, GroupSkills, GroupLinks}

// Pinned ids always lead the result list.
var Pinned = []string{"action:terminal", "action:notes"}

const (
	// Threshold is the largest per-key mismatch (1 - quality) still counted as a match.
	Threshold = 0.38

	// EmptyQueryLimit caps the list shown before the visitor types.
	EmptyQueryLimit = 8
	// SearchLimit caps the ranked list for a query.
	SearchLimit = 20
	// CollapsedGroupSize is how many items a group shows until expanded.
	CollapsedGroupSize = 5
)

// Field weights.
const (
	weightTitle    = 0.6
	weightSubtitle = 0.2
	weightCategory = 0.1
	weightKeywords = 0.1
)

// ActionKind tells the shell what selecting an item does.
type ActionKind string

const (
	ActionOpenApp           ActionKind = "open-app"
	ActionOpenNotes         ActionKind = "open-notes"
	ActionOpenContact       ActionKind = "open-contact"
	ActionOpenProject       ActionKind = "open-project"
	ActionCloseAll          ActionKind = "close-all"
	ActionShuffleBackground ActionKind = "shuffle-background"
	ActionCopy              ActionKind = "copy"
	ActionOpenURL           ActionKind = "open-url"
	ActionShowTutorial      ActionKind = "show-tutorial"
)

// Action is the client-side effect of choosing an item.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Target string     `json:"target,omitempty"`
}

// Item is one launcher entry.
type Item struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Category string   `json:"category"`
	Group    string   `json:"group"`
	Keywords []string `json:"keywords,omitempty"`
	Action   Action   `json:"action"`
}

// Result is a ranked item.
type Result struct {
	Item
	Score float64 `json:"score"`
}

// Group is a run of results sharing a category.
type Group struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Count    int      `json:"count"`
	Hidden   int      `json:"hidden"`
	Expanded bool     `json:"expanded"`
	Items    []Result `json:"items"`
}
