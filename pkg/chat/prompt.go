package chat

import (
	"fmt"
	"regexp"
	"strings"
)

// defaultPromptTemplate is the system-style instruction block for answer
// synthesis. It mandates answering only from the listed sources, saying
// "don't know" when they are insufficient, HTML for tabular data, and
// refusing code or SQL generation.
const defaultPromptTemplate = `<|im_start|>system
Assistant helps the company employees with their product questions, and questions about product releases. Be brief in your answers.
If asking a clarifying question to the user would help, ask the question.
Answer ONLY with the facts listed in the list of sources below. Look into all the sources.
If there isn't enough information below, say you don't know.
Do not generate answers that don't use the sources below.
For tabular information return it as an html table. Do not return markdown format.
Each source has a name followed by colon and the actual information.
Do not generate any code or SQL statements in any format.
If prompted to generate code or SQL queries say I am not allowed to generate code or SQL queries.
For questions about releases and new features look all the sources.
{follow_up_questions_prompt}
{injected_prompt}
Sources:
{sources}
<|im_end|>
{chat_history}
`

// followUpQuestionsPrompt fills the follow_up_questions_prompt slot when the
// caller asks for follow-up suggestions.
const followUpQuestionsPrompt = `Generate three very brief follow-up questions that the user would likely ask next about their products.
Use double angle brackets to reference the questions, e.g. <<Could you please clarify what exactly are you looking for?>>.
Try not to repeat questions that have already been asked.
Only generate questions and do not generate any text before or after the questions, such as 'Next Questions'`

// injectSentinel marks a template override that injects into the default
// template instead of replacing it.
const injectSentinel = ">>>"

var slotPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// renderTemplate substitutes named slots into tmpl. A slot referenced by the
// template but absent from slots fails with ErrMalformedOverride, as does a
// template that omits one of the required slots. There is no best-effort
// substitution.
func renderTemplate(tmpl string, slots map[string]string, required ...string) (string, error) {
	for _, name := range required {
		if !strings.Contains(tmpl, "{"+name+"}") {
			return "", fmt.Errorf("%w: template omits required slot {%s}", ErrMalformedOverride, name)
		}
	}

	var undefined string
	out := slotPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := slots[name]
		if !ok {
			if undefined == "" {
				undefined = name
			}
			return m
		}
		return v
	})
	if undefined != "" {
		return "", fmt.Errorf("%w: template references undefined slot {%s}", ErrMalformedOverride, undefined)
	}

	return out, nil
}

// nonewlines collapses internal line breaks to spaces so each source stays on
// one line of the sources block.
func nonewlines(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// AssemblePrompt builds the synthesis prompt from the retrieved passages, the
// conversation (including the in-flight turn), and the caller's template
// override. Three modes are selected by inspecting the override: empty uses
// the default template; an override starting with ">>>" injects the remainder
// into the default template's injected_prompt slot; anything else replaces
// the template entirely, in which case only the sources, chat_history, and
// follow_up_questions_prompt slots are available.
func AssemblePrompt(passages []Passage, history History, followUpRequested bool, templateOverride string) (string, error) {
	var followUp string
	if followUpRequested {
		followUp = followUpQuestionsPrompt
	}

	slots := map[string]string{
		"follow_up_questions_prompt": followUp,
		"sources":                    SourcesBlock(passages),
		"chat_history":               history.Transcript(true, DefaultApproxMaxTokens),
	}

	switch {
	case templateOverride == "":
		slots["injected_prompt"] = ""
		return renderTemplate(defaultPromptTemplate, slots)
	case strings.HasPrefix(templateOverride, injectSentinel):
		slots["injected_prompt"] = templateOverride[len(injectSentinel):] + "\n"
		return renderTemplate(defaultPromptTemplate, slots)
	default:
		return renderTemplate(templateOverride, slots, "sources")
	}
}

// SourcesBlock renders the retrieved passages as newline-joined
// "source:content" lines, in retrieval order.
func SourcesBlock(passages []Passage) string {
	lines := make([]string, len(passages))
	for i, p := range passages {
		lines[i] = p.DataPoint()
	}
	return strings.Join(lines, "\n")
}
