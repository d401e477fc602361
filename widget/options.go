package widget

import "strings"

// Variant selects the card style.
type Variant string

const (
	VariantDefault  Variant = "default"
	VariantFeatured Variant = "featured"
)

// Layout selects how cards are arranged in a section.
type Layout string

const (
	LayoutGrid Layout = "grid"
	LayoutList Layout = "list"
)

// Section defaults.
const (
	DefaultSectionLimit = 3
	DefaultListLimit    = 10
	DefaultTitle        = "📖 Blog PagRico"
	DefaultSubtitle     = "Insights sobre pagamentos internacionais e fintech"
)

// Options configure a fetch or a rendered section. The zero value renders
// three recent posts in a grid with a header and a call to action.
type Options struct {
	Limit      int // 0 uses the default, negative means no limit
	Featured   bool
	Category   string
	HideHeader bool
	HideCTA    bool
	Title      string
	Subtitle   string
	Layout     Layout

	// OnState, when set, observes every state transition of RenderSection.
	OnState func(State)
}

func (o Options) withDefaults(limit int) Options {
	if o.Limit == 0 {
		o.Limit = limit
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Subtitle == "" {
		o.Subtitle = DefaultSubtitle
	}
	if o.Layout != LayoutList {
		o.Layout = LayoutGrid
	}
	o.Category = strings.TrimSpace(o.Category)
	return o
}

func (o Options) variant() Variant {
	if o.Featured {
		return VariantFeatured
	}
	return VariantDefault
}

// State is the lifecycle of one RenderSection call.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateEmpty
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
