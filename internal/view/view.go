// Package view holds the HTML templates and static assets of the quiz pages and
// the page model they are rendered from.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stemsi/mcq-client/internal/model"
	"github.com/stemsi/mcq-client/internal/quiz"
	"github.com/stemsi/mcq-client/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageTemplate is the name of the template rendering a whole page.
const PageTemplate = "page.html"

// Static returns the static asset tree (styles and the small page script).
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded tree is fixed at build time
	}
	return sub
}

// Templates parses the page templates. Rich text in questions, options and
// explanations goes through r; a render failure falls back to escaped text.
func Templates(r render.Renderer) (*template.Template, error) {
	title := cases.Title(language.English)

	funcs := template.FuncMap{
		"richtext": func(src string) template.HTML {
			out, err := r.Render(src)
			if err != nil {
				out, _ = render.Plain{}.Render(src)
			}
			return out
		},
		"title": func(s any) string { return title.String(fmt.Sprint(s)) },
		"pct":   func(f float64) string { return fmt.Sprintf("%.1f", f) },
	}

	return template.New(PageTemplate).Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Page is everything a quiz page renders.
type Page struct {
	Phase     model.Phase
	Options   model.QuizOptions
	Form      model.QuizConfig
	Prompt    string
	Error     string
	Questions []QuestionView
	Score     *model.Score
}

// QuestionView is one numbered question as shown in the answering or results phase.
type QuestionView struct {
	Number   int
	Question model.Question
	Selected string
	Outcome  *model.Outcome
}

// NewPage builds the page for sess. The form starts from its defaults; while the test
// is being answered the correct keys and explanations are left out.
func NewPage(sess quiz.Session) Page {
	p := Page{
		Phase:   sess.Phase,
		Options: model.DefaultQuizOptions(),
		Form:    model.DefaultQuizConfig(),
		Error:   sess.Error,
		Score:   sess.Score,
	}

	for i, q := range sess.Questions() {
		qv := QuestionView{Number: i + 1, Question: q, Selected: sess.Answers[q.ID]}
		switch sess.Phase {
		case model.PhaseAnswering:
			qv.Question.CorrectAnswer = ""
			qv.Question.Explanation = ""
		case model.PhaseResults:
			if sess.Score != nil && i < len(sess.Score.Outcomes) {
				qv.Outcome = &sess.Score.Outcomes[i]
			}
		}
		p.Questions = append(p.Questions, qv)
	}
	return p
}

// ShowsForm reports whether the configuration form is on the page.
func (p Page) ShowsForm() bool {
	return p.Phase == model.PhaseConfiguring || p.Phase == model.PhaseError
}
