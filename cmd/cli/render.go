package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/myrjola/holocron/internal/catalog"
	"github.com/myrjola/holocron/internal/listing"
	"github.com/myrjola/holocron/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFE81F"))
	labelStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFE81F"))
	tableBorder    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var titleCase = cases.Title(language.English)

func notFoundMessage(category catalog.Category) string {
	return titleCase.String(category.Singular) + " not found"
}

// printPage writes the items of state as a table followed by the pagination line.
func printPage[T entity](w io.Writer, category catalog.Category, state listing.State[T]) {
	_, _ = fmt.Fprintln(w, titleStyle.Render(category.Heading))
	if len(state.Items) == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("No %s found.", category.Plural)))
		return
	}

	headers := []string{"ID", "Name"}
	for _, f := range state.Items[0].Fields() {
		headers = append(headers, f.Label)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		Headers(headers...)
	for _, item := range state.Items {
		row := []string{strconv.Itoa(item.EntityID()), item.DisplayName()}
		for _, f := range item.Fields() {
			row = append(row, f.Value)
		}
		t.Row(row...)
	}
	_, _ = fmt.Fprintln(w, t.Render())
	_, _ = fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Page %d of %d, %d %s",
		state.Page, state.TotalPages, state.Total, category.Plural)))
}

// printDetail writes every field of item as an aligned label and value list.
func printDetail(w io.Writer, item models.Summary) {
	_, _ = fmt.Fprintln(w, titleStyle.Render(item.DisplayName()))

	fields := item.Fields()
	if d, ok := item.(interface{ DetailFields() []models.Field }); ok {
		fields = d.DetailFields()
	}
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label)+1)
	}
	label := labelStyle.Width(width + 1)
	for _, f := range fields {
		_, _ = fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, label.Render(f.Label+":"), f.Value))
	}

	if e, ok := item.(interface{ Excerpt() string }); ok && e.Excerpt() != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, mutedStyle.Render(e.Excerpt()))
	}
}
