package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/smartnotes/internal/client/models"
)

// noteFlags maps the flag names accepted by "flag" to patch fields.
var noteFlags = map[string]string{
	"favorite": "is_favorite",
	"locked":   "is_locked",
	"archived": "is_archived",
	"deleted":  "is_deleted",
}

func (a *App) ListNotes(ctx context.Context, _ []string) error {
	if err := a.session.RefreshNotes(ctx); err != nil {
		return err
	}
	printNotes(a.out, a.session.Notes)
	return nil
}

// ListLocked shows the locked partition of both resources.
func (a *App) ListLocked(ctx context.Context, _ []string) error {
	if !a.session.Unlocked() {
		printlnFn("Locked items are hidden, run 'unlock' first")
		return nil
	}
	if err := a.session.RefreshNotes(ctx); err != nil {
		return err
	}
	if err := a.session.RefreshTasks(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Locked notes:")
	printNotes(a.out, a.session.LockedNotes)
	fmt.Fprintln(a.out, "Locked tasks:")
	printTasks(a.out, a.session.LockedTasks)
	return nil
}

func (a *App) ShowNote(ctx context.Context, args []string) error {
	n, err := a.session.ShowNote(ctx, args[0])
	if err != nil {
		return err
	}
	printNote(a.out, n)
	return nil
}

func (a *App) NewNote(ctx context.Context, _ []string) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	tags, err := GetList(a.reader, "Tags", a.out)
	if err != nil {
		return err
	}

	n, err := a.session.CreateNote(ctx, models.NewNote{Title: title, Content: content, Tags: tags})
	if err != nil {
		return err
	}
	printlnFn("Note created:", n.ID)
	return nil
}

// EditNote prompts for each editable field. An empty answer keeps the
// current value.
func (a *App) EditNote(ctx context.Context, args []string) error {
	n, err := a.session.ShowNote(ctx, args[0])
	if err != nil {
		return err
	}

	p := models.Patch{}
	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", n.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		p["title"] = title
	}
	content, err := GetMultiline(a.reader, "Content (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if content != "" {
		p["content"] = content
	}
	tags, err := GetList(a.reader, fmt.Sprintf("Tags [%s]", strings.Join(n.Tags, ", ")), a.out)
	if err != nil {
		return err
	}
	if len(tags) > 0 {
		p["tags"] = tags
	}

	return a.patchNote(ctx, n.ID, p)
}

// FlagNote sets one of the boolean note flags: flag <id> <name> <true|false>.
func (a *App) FlagNote(ctx context.Context, args []string) error {
	field, ok := noteFlags[args[1]]
	if !ok {
		return fmt.Errorf("unknown flag %q, expected favorite, locked, archived or deleted", args[1])
	}
	v, err := strconv.ParseBool(args[2])
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[2], err)
	}
	return a.patchNote(ctx, args[0], models.Patch{field: v})
}

func (a *App) ColorNote(ctx context.Context, args []string) error {
	return a.patchNote(ctx, args[0], models.Patch{"color": args[1]})
}

func (a *App) TrashNote(ctx context.Context, args []string) error {
	return a.patchNote(ctx, args[0], models.Patch{"is_deleted": true})
}

func (a *App) RestoreNote(ctx context.Context, args []string) error {
	return a.patchNote(ctx, args[0], models.Patch{"is_deleted": false})
}

func (a *App) patchNote(ctx context.Context, id string, p models.Patch) error {
	n, err := a.session.UpdateNote(ctx, id, p)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Note %s saved (version %d)", n.ID, n.Version))
	return nil
}

func (a *App) NoteVersions(ctx context.Context, args []string) error {
	versions, err := a.api.NoteVersions(ctx, args[0])
	if err != nil {
		return err
	}
	printVersions(a.out, versions)
	return nil
}

// filtersFor returns the remembered filters of "notes" or "tasks" and a
// function that saves an edited copy.
func (a *App) filtersFor(kind string) (models.Filters, func(context.Context, models.Filters) error, error) {
	switch kind {
	case "notes":
		return a.session.NoteFilters, a.session.SetNoteFilters, nil
	case "tasks":
		return a.session.TaskFilters, a.session.SetTaskFilters, nil
	default:
		return models.Filters{}, nil, fmt.Errorf("unknown list %q, expected notes or tasks", kind)
	}
}

// SortBy remembers the listing order: sort <notes|tasks> <order>.
func (a *App) SortBy(ctx context.Context, args []string) error {
	f, save, err := a.filtersFor(args[0])
	if err != nil {
		return err
	}
	f.Sort = args[1]
	return save(ctx, f)
}

// Search remembers a search text; "search notes" alone clears it.
func (a *App) Search(ctx context.Context, args []string) error {
	f, save, err := a.filtersFor(args[0])
	if err != nil {
		return err
	}
	f.Search = strings.Join(args[1:], " ")
	return save(ctx, f)
}

// FilterTag limits the note listing to one tag; "tag" alone clears it.
func (a *App) FilterTag(ctx context.Context, args []string) error {
	f := a.session.NoteFilters
	f.Tag = ""
	if len(args) > 0 {
		f.Tag = args[0]
	}
	return a.session.SetNoteFilters(ctx, f)
}
