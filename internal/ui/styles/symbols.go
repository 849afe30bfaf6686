package styles

// Status symbols
const (
	CheckSymbol   = "✓"
	CrossSymbol   = "✗"
	WarningSymbol = "⚠"
	DirtySymbol   = "●"
	MissingSymbol = "?"
)

// Check renders a success mark.
func Check() string { return SuccessStyle.Render(CheckSymbol) }

// Cross renders a failure mark.
func Cross() string { return ErrorStyle.Render(CrossSymbol) }

// Warn renders a warning mark.
func Warn() string { return WarningStyle.Render(WarningSymbol) }

// Dirty renders the uncommitted-changes marker.
func Dirty() string { return ErrorStyle.Render(DirtySymbol) }
