package input

// ImeAction is the action the IME's action key performs.
type ImeAction int

const (
	ImeActionDefault ImeAction = iota
	ImeActionNone
	ImeActionGo
	ImeActionSearch
	ImeActionSend
	ImeActionPrevious
	ImeActionNext
	ImeActionDone
)

func (a ImeAction) String() string {
	switch a {
	case ImeActionNone:
		return "None"
	case ImeActionGo:
		return "Go"
	case ImeActionSearch:
		return "Search"
	case ImeActionSend:
		return "Send"
	case ImeActionPrevious:
		return "Previous"
	case ImeActionNext:
		return "Next"
	case ImeActionDone:
		return "Done"
	default:
		return "Default"
	}
}

// KeyboardType hints which keyboard layout the IME should offer.
type KeyboardType int

const (
	KeyboardText KeyboardType = iota
	KeyboardASCII
	KeyboardNumber
	KeyboardPhone
	KeyboardURI
	KeyboardEmail
	KeyboardPassword
	KeyboardNumberPassword
	KeyboardDecimal
)

// Capitalization hints automatic capitalization to the IME.
type Capitalization int

const (
	CapitalizeNone Capitalization = iota
	CapitalizeCharacters
	CapitalizeWords
	CapitalizeSentences
)

// ImeOptions configure the IME for one session.
type ImeOptions struct {
	SingleLine     bool
	Capitalization Capitalization
	AutoCorrect    bool
	KeyboardType   KeyboardType
	ImeAction      ImeAction
}

// DefaultImeOptions returns the options used when a field sets none.
func DefaultImeOptions() ImeOptions {
	return ImeOptions{AutoCorrect: true}
}

// ResolvedAction returns the action the action key performs. Default
// resolves to Done for single-line fields and None (newline) otherwise.
func (o ImeOptions) ResolvedAction() ImeAction {
	if o.ImeAction != ImeActionDefault {
		return o.ImeAction
	}
	if o.SingleLine {
		return ImeActionDone
	}
	return ImeActionNone
}
