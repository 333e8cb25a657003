package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/smartnotes/internal/client/models"
)

// noteColors tints the color column. Colors without an entry print plain.
var noteColors = map[string]*color.Color{
	"red":    color.New(color.FgRed),
	"orange": color.New(color.FgHiRed),
	"yellow": color.New(color.FgYellow),
	"green":  color.New(color.FgGreen),
	"blue":   color.New(color.FgBlue),
	"purple": color.New(color.FgMagenta),
	"gray":   color.New(color.FgHiBlack),
}

// paint is kept to the last column, where escape codes cannot shift the
// table alignment.
func paint(name string) string {
	if c, ok := noteColors[name]; ok {
		return c.Sprint(name)
	}
	return name
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printNotes(w io.Writer, notes []models.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tTAGS\tFLAGS\tUPDATED\tCOLOR")
	for _, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			n.ID, n.Title, strings.Join(n.Tags, ","), noteMarks(n), n.UpdatedAt.Local().Format(time.DateTime), paint(n.Color))
	}
	tw.Flush()
}

func noteMarks(n models.Note) string {
	var m []string
	if n.IsFavorite {
		m = append(m, "fav")
	}
	if n.IsLocked {
		m = append(m, "locked")
	}
	if n.IsArchived {
		m = append(m, "archived")
	}
	if n.IsDeleted {
		m = append(m, "trash")
	}
	return strings.Join(m, ",")
}

func printNote(w io.Writer, n *models.Note) {
	fmt.Fprintf(w, "%s (v%d)\n", n.Title, n.Version)
	if len(n.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(n.Tags, ", "))
	}
	if marks := noteMarks(*n); marks != "" {
		fmt.Fprintf(w, "Flags: %s\n", marks)
	}
	fmt.Fprintf(w, "Color: %s\n\n%s\n", paint(n.Color), n.Content)
}

func printTasks(w io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDONE\tTITLE\tDUE\tPRIORITY")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%s\t[%s]\t%s\t%s\t%d\n", t.ID, done, t.Title, formatDue(t.DueDate), t.Priority)
	}
	tw.Flush()
}

func printTask(w io.Writer, t *models.Task) {
	fmt.Fprintf(w, "%s (v%d)\n", t.Title, t.Version)
	fmt.Fprintf(w, "Due: %s\nPriority: %d\nCompleted: %t\n", formatDue(t.DueDate), t.Priority, t.Completed)
	if t.Description != nil {
		fmt.Fprintf(w, "\n%s\n", *t.Description)
	}
}

func printVersions(w io.Writer, versions []models.NoteVersion) {
	if len(versions) == 0 {
		fmt.Fprintln(w, "No earlier versions")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "VERSION\tTITLE\tSAVED")
	for _, v := range versions {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", v.Version, v.Title, v.CreatedAt.Local().Format(time.DateTime))
	}
	tw.Flush()
}

func formatDue(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.UTC().Format(dateLayout)
}
