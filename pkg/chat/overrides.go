package chat

// Per-request defaults applied by withDefaults.
const (
	// DefaultTop is the default number of passages to retrieve.
	DefaultTop = 3

	// DefaultTemperature is the default sampling temperature for answer
	// synthesis.
	DefaultTemperature = 0.7
)

// Overrides is the per-request configuration bag. Zero values mean "use the
// default"; an Overrides decoded from an empty JSON object behaves like the
// defaults.
type Overrides struct {
	// Top bounds the number of retrieved passages.
	Top int `json:"top"`

	// ExcludeCategory, when set, excludes passages whose category metadata
	// equals the value.
	ExcludeCategory string `json:"exclude_category"`

	// PromptTemplate customizes the synthesis prompt. Empty means the
	// default template; a ">>>" prefix injects the remainder into the
	// default template; anything else replaces the template entirely.
	PromptTemplate string `json:"prompt_template"`

	// SuggestFollowupQuestions asks the model to propose follow-up
	// questions after the answer.
	SuggestFollowupQuestions bool `json:"suggest_followup_questions"`

	// Temperature is the sampling temperature for answer synthesis.
	Temperature float64 `json:"temperature"`
}

// withDefaults returns a copy with zero values replaced by defaults.
func (o Overrides) withDefaults() Overrides {
	if o.Top <= 0 {
		o.Top = DefaultTop
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	return o
}
