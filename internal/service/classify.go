package service

// Verb is the kind of invocation, decoupled from any transport framework.
type Verb int

const (
	VerbOther Verb = iota
	// VerbRead is a read-style call such as GET.
	VerbRead
	// VerbSubmit is a submit-style call such as POST.
	VerbSubmit
)

func (v Verb) String() string {
	switch v {
	case VerbRead:
		return "read"
	case VerbSubmit:
		return "submit"
	default:
		return "other"
	}
}

const (
	ActionView = "view"
	ActionLike = "like"
)

type Operation int

const (
	OpRead Operation = iota
	OpIncrementViews
	OpIncrementLikes
)

func (o Operation) String() string {
	switch o {
	case OpIncrementViews:
		return "increment_views"
	case OpIncrementLikes:
		return "increment_likes"
	default:
		return "read"
	}
}

// Classify maps an action hint and a verb to at most one increment.
//
// "like" increments likes only on a submit; every other action (including the
// empty default) increments views only on a read. Any other pairing is a plain
// read rather than an error.
func Classify(action string, verb Verb) Operation {
	if action == ActionLike {
		if verb == VerbSubmit {
			return OpIncrementLikes
		}
		return OpRead
	}

	if verb == VerbRead {
		return OpIncrementViews
	}
	return OpRead
}
