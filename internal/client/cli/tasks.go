package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/client/models"
	"github.com/dmitrijs2005/smartnotes/internal/filex"
	"github.com/dmitrijs2005/smartnotes/internal/netx"
)

const dateLayout = "2006-01-02"

func (a *App) ListTasks(ctx context.Context, _ []string) error {
	if err := a.session.RefreshTasks(ctx); err != nil {
		return err
	}
	printTasks(a.out, a.session.Tasks)
	return nil
}

func (a *App) ShowTask(ctx context.Context, args []string) error {
	t, err := a.session.ShowTask(ctx, args[0])
	if err != nil {
		return err
	}
	printTask(a.out, t)
	return nil
}

func (a *App) NewTask(ctx context.Context, _ []string) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	in := models.NewTask{Title: title}

	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	if desc != "" {
		in.Description = &desc
	}

	due, err := getSimpleText(a.reader, "Due date YYYY-MM-DD (optional)", a.out)
	if err != nil {
		return err
	}
	if in.DueDate, err = parseDue(due); err != nil {
		return err
	}

	prio, err := getSimpleText(a.reader, "Priority 1-3 (optional)", a.out)
	if err != nil {
		return err
	}
	if prio != "" {
		if in.Priority, err = strconv.Atoi(prio); err != nil {
			return fmt.Errorf("invalid priority %q", prio)
		}
	}

	t, err := a.session.CreateTask(ctx, in)
	if err != nil {
		return err
	}
	printlnFn("Task created:", t.ID)
	return nil
}

func (a *App) CompleteTask(ctx context.Context, args []string) error {
	return a.completeTask(ctx, args[0], true)
}

func (a *App) ReopenTask(ctx context.Context, args []string) error {
	return a.completeTask(ctx, args[0], false)
}

func (a *App) completeTask(ctx context.Context, id string, completed bool) error {
	t, err := a.session.CompleteTask(ctx, id, completed)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Task %s saved (version %d)", t.ID, t.Version))
	return nil
}

func (a *App) DeleteTask(ctx context.Context, args []string) error {
	if err := a.session.DeleteTask(ctx, args[0]); err != nil {
		return err
	}
	printlnFn("Task deleted")
	return nil
}

// DueTask sets or clears ("none") the due date: due <id> <YYYY-MM-DD|none>.
func (a *App) DueTask(ctx context.Context, args []string) error {
	if strings.EqualFold(args[1], "none") {
		return a.patchTask(ctx, args[0], models.Patch{"due_date": nil})
	}
	due, err := parseDue(args[1])
	if err != nil {
		return err
	}
	return a.patchTask(ctx, args[0], models.Patch{"due_date": due})
}

func (a *App) PrioritizeTask(ctx context.Context, args []string) error {
	prio, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid priority %q", args[1])
	}
	return a.patchTask(ctx, args[0], models.Patch{"priority": prio})
}

// LockTask moves a task between partitions: locktask <id> <true|false>.
func (a *App) LockTask(ctx context.Context, args []string) error {
	v, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}
	return a.patchTask(ctx, args[0], models.Patch{"is_locked": v})
}

func (a *App) patchTask(ctx context.Context, id string, p models.Patch) error {
	t, err := a.session.UpdateTask(ctx, id, p)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Task %s saved (version %d)", t.ID, t.Version))
	return nil
}

// FilterTasks limits the task listing to open ("open"), completed ("done")
// or all ("all") tasks.
func (a *App) FilterTasks(ctx context.Context, args []string) error {
	f := a.session.TaskFilters
	switch args[0] {
	case "open":
		v := false
		f.Completed = &v
	case "done":
		v := true
		f.Completed = &v
	case "all":
		f.Completed = nil
	default:
		return fmt.Errorf("unknown filter %q, expected open, done or all", args[0])
	}
	return a.session.SetTaskFilters(ctx, f)
}

// Export asks the server for a snapshot of all notes and tasks. With a file
// argument the snapshot is also downloaded there: export [file].
func (a *App) Export(ctx context.Context, args []string) error {
	res, err := a.api.Export(ctx)
	if err != nil {
		return err
	}
	printlnFn("Export ready:", res.URL)
	printlnFn("Link expires at", res.ExpiresAt.Local().Format(time.DateTime))

	if len(args) == 0 {
		return nil
	}
	n, err := saveExport(ctx, res.URL, args[0])
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Saved %d bytes to %s", n, args[0]))
	return nil
}

// saveExport downloads a presigned export URL into path.
func saveExport(ctx context.Context, url, path string) (n int64, err error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	n, err = netx.DownloadPresignedURL(ctx, nil, url, f)
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}

// parseDue reads a local calendar date as midnight UTC. Empty means no date.
func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &d, nil
}
