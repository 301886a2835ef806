package ui

import (
	"fmt"
	"strings"
	"time"

	"remindr/internal/config"
	"remindr/internal/tasks"
	"remindr/internal/todo"
)

const noTasks = "No tasks found."

func (m Model) View() string {
	st := newStyles(m.dark)
	var b strings.Builder

	b.WriteString(st.title.Render(m.query.View.Label()))
	b.WriteString("  ")
	b.WriteString(st.muted.Render(m.endpoint))
	b.WriteString("\n")
	b.WriteString(m.renderTabs(st))
	b.WriteString("\n")
	b.WriteString(m.renderControls(st))
	b.WriteString("\n\n")

	b.WriteString(m.renderTaskList(st))

	switch m.mode {
	case modeAdd, modeEdit:
		b.WriteString("\n")
		b.WriteString(m.renderForm(st))
	case modeSearch:
		b.WriteString("\nSearch: ")
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	if m.showDetail && m.mode == modeList {
		if t, ok := m.selected(); ok && t.Description != "" {
			b.WriteString("\n")
			b.WriteString(renderMarkdown(t.Description, m.width-4, m.dark))
			b.WriteString("\n")
		}
	}

	if m.askPermission && m.mode == modeList {
		b.WriteString("\n")
		b.WriteString(st.prompt.Render("Allow desktop notifications for due tasks? y/n"))
		b.WriteString("\n")
	}
	if m.banner != "" {
		b.WriteString("\n")
		b.WriteString(st.banner.Render(m.banner))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
	}
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(st.muted.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderTabs(st styles) string {
	parts := make([]string, 0, len(tasks.Views))
	for _, v := range tasks.Views {
		if v == m.query.View {
			parts = append(parts, st.tabActive.Render(v.Label()))
			continue
		}
		parts = append(parts, st.tab.Render(v.Label()))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderControls(st styles) string {
	search := m.query.Search
	if search == "" {
		search = "-"
	}
	theme := "light"
	if m.dark {
		theme = "dark"
	}
	return st.muted.Render(fmt.Sprintf("search: %s • filter: %s • sort: %s • theme: %s",
		search, m.query.Status, m.query.Sort, theme))
}

func (m Model) renderTaskList(st styles) string {
	if len(m.visible) == 0 {
		return st.muted.Render(noTasks) + "\n"
	}
	now := m.now()
	loc := now.Location()
	var b strings.Builder
	for i, t := range m.visible {
		selected := i == m.cursor && m.mode == modeList

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[✓]"
		}
		title := t.Title
		if strings.TrimSpace(title) == "" {
			title = "(No title)"
		}
		titleStyle := st.taskTitle
		switch {
		case t.Completed:
			titleStyle = st.completed
		case t.IsOverdue(now):
			titleStyle = st.overdue
		}

		var body strings.Builder
		body.WriteString(checkbox + " " + titleStyle.Render(title))
		if t.Description != "" {
			body.WriteString("\n    " + firstLine(t.Description))
		}
		body.WriteString("\n    " + st.muted.Render(dueLabel(t, loc)))

		card := st.card
		if selected {
			card = st.cardActive
		}
		b.WriteString(card.Render(body.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm(st styles) string {
	var b strings.Builder
	heading := "Add task"
	if m.mode == modeEdit {
		heading = "Edit task"
	}
	b.WriteString(st.title.Render(heading))
	b.WriteString("\n")
	labels := []string{"Title      ", "Description", "Due        "}
	for i, f := range m.fields {
		prefix := " "
		if i == m.focus {
			prefix = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s : %s\n", prefix, labels[i], f.View()))
	}
	if m.validation != "" {
		b.WriteString(st.validation.Render(m.validation))
		b.WriteString("\n")
	}
	return b.String()
}

func dueLabel(t todo.Task, loc *time.Location) string {
	if t.DueDate == nil {
		return "No due date"
	}
	return "Due: " + t.DueDate.In(loc).Format("Mon Jan 2 2006 15:04")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s edit • %s delete • %s view • %s search • %s filter • %s sort • %s theme • %s detail • %s refresh • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Edit, k.Delete, k.View, k.Search, k.Filter, k.Sort, k.Theme, k.Detail, k.Refresh, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
