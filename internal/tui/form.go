package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/classify"
)

type formField int

const (
	fieldTitle formField = iota
	fieldAuthor
	fieldCategory
	fieldContent
	fieldCount
)

// form is the compose and edit screen. When editing, original holds the
// article being changed so only modified fields are sent.
type form struct {
	editing  bool
	original article.Article

	title      textinput.Model
	author     textinput.Model
	content    textarea.Model
	categories []string
	category   int
	focus      formField
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Prompt = ""
	ti.SetValue(value)
	return ti
}

func newForm(d article.Draft) form {
	ta := textarea.New()
	ta.Placeholder = "Write the article..."
	ta.CharLimit = 20000
	ta.ShowLineNumbers = false
	ta.SetValue(d.Content)

	f := form{
		title:   newInput("Title", d.Title),
		author:  newInput("Author", d.Author),
		content: ta,
	}
	for _, c := range classify.AllCategories() {
		f.categories = append(f.categories, string(c))
	}
	f.category = -1
	for i, c := range f.categories {
		if c == d.Category {
			f.category = i
		}
	}
	if f.category < 0 {
		if d.Category != "" {
			// Keep an unknown category selectable so editing does not
			// silently change it.
			f.categories = append(f.categories, d.Category)
			f.category = len(f.categories) - 1
		} else {
			f.category = 0
		}
	}
	f.focusOn(fieldTitle)
	return f
}

func newEditForm(a article.Article) form {
	f := newForm(article.DraftOf(a))
	f.editing = true
	f.original = a
	return f
}

func (f *form) focusOn(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.author.Blur()
	f.content.Blur()
	switch field {
	case fieldTitle:
		return f.title.Focus()
	case fieldAuthor:
		return f.author.Focus()
	case fieldContent:
		return f.content.Focus()
	}
	return nil
}

func (f *form) draft() article.Draft {
	return article.Draft{
		Title:    strings.TrimSpace(f.title.Value()),
		Author:   strings.TrimSpace(f.author.Value()),
		Content:  f.content.Value(),
		Category: f.categories[f.category],
	}
}

// patch returns the fields changed relative to the article being edited.
func (f *form) patch() article.Patch {
	return article.Diff(f.original, f.draft())
}

// valid reports whether the form can be submitted.
func (f *form) valid() bool {
	return f.draft().Title != ""
}

func (f *form) setSize(width, height int) {
	w := max(width-14, 20)
	f.title.Width = w
	f.author.Width = w
	f.content.SetWidth(w)
	f.content.SetHeight(max(height-12, 3))
}

// update handles keys other than submit and cancel.
func (f *form) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		return f.focusOn((f.focus + 1) % fieldCount)
	case "shift+tab":
		return f.focusOn((f.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldAuthor:
		f.author, cmd = f.author.Update(msg)
	case fieldContent:
		f.content, cmd = f.content.Update(msg)
	case fieldCategory:
		switch msg.String() {
		case "left", "h":
			f.category = (f.category + len(f.categories) - 1) % len(f.categories)
		case "right", "l", " ":
			f.category = (f.category + 1) % len(f.categories)
		}
	}
	return cmd
}

func (f *form) label(field formField, text string) string {
	if f.focus == field {
		return formFocusLabelStyle.Render(text)
	}
	return formLabelStyle.Render(text)
}

func (f *form) view(accent string, apiOnline bool) string {
	heading := "New article"
	if f.editing {
		heading = "Edit article"
	}

	var cats []string
	for i, c := range f.categories {
		if i == f.category {
			cats = append(cats, tabActiveStyle.Background(accentColor(accent)).Render(c))
		} else {
			cats = append(cats, tabInactiveStyle.Render(c))
		}
	}

	hint := "tab next field  ←/→ category  ctrl+s save  esc cancel"
	if !apiOnline {
		hint = offlineStyle.Render("REST API offline, saving is disabled") + "  esc cancel"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Foreground(accentColor(accent)).Render(heading),
		"",
		f.label(fieldTitle, "Title")+f.title.View(),
		f.label(fieldAuthor, "Author")+f.author.View(),
		f.label(fieldCategory, "Category")+strings.Join(cats, " "),
		"",
		f.label(fieldContent, "Content"),
		f.content.View(),
		"",
		helpDimStyle.Render(hint),
	)
}
