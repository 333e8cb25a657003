package cli

func (a *App) commands() []command {
	return []command{
		{name: "register", usage: "register", public: true, run: a.Register},
		{name: "login", usage: "login", public: true, run: a.Login},
		{name: "logout", usage: "logout", run: a.Logout},
		{name: "pin", usage: "pin", run: a.PinStatus},
		{name: "setpin", usage: "setpin", run: a.SetPin},
		{name: "clearpin", usage: "clearpin", run: a.ClearPin},
		{name: "unlock", usage: "unlock", run: a.Unlock},
		{name: "lock", usage: "lock", run: a.Lock},

		{name: "notes", usage: "notes", run: a.ListNotes},
		{name: "locked", usage: "locked", run: a.ListLocked},
		{name: "note", usage: "note <id>", minArg: 1, run: a.ShowNote},
		{name: "newnote", usage: "newnote", run: a.NewNote},
		{name: "edit", usage: "edit <id>", minArg: 1, run: a.EditNote},
		{name: "flag", usage: "flag <id> <favorite|locked|archived|deleted> <true|false>", minArg: 3, run: a.FlagNote},
		{name: "color", usage: "color <id> <color>", minArg: 2, run: a.ColorNote},
		{name: "trash", usage: "trash <id>", minArg: 1, run: a.TrashNote},
		{name: "restore", usage: "restore <id>", minArg: 1, run: a.RestoreNote},
		{name: "versions", usage: "versions <id>", minArg: 1, run: a.NoteVersions},
		{name: "tag", usage: "tag [tag]", run: a.FilterTag},

		{name: "sort", usage: "sort <notes|tasks> <order>", minArg: 2, run: a.SortBy},
		{name: "search", usage: "search <notes|tasks> [text]", minArg: 1, run: a.Search},

		{name: "tasks", usage: "tasks", run: a.ListTasks},
		{name: "task", usage: "task <id>", minArg: 1, run: a.ShowTask},
		{name: "newtask", usage: "newtask", run: a.NewTask},
		{name: "done", usage: "done <id>", minArg: 1, run: a.CompleteTask},
		{name: "undo", usage: "undo <id>", minArg: 1, run: a.ReopenTask},
		{name: "deltask", usage: "deltask <id>", minArg: 1, run: a.DeleteTask},
		{name: "due", usage: "due <id> <YYYY-MM-DD|none>", minArg: 2, run: a.DueTask},
		{name: "priority", usage: "priority <id> <1-3>", minArg: 2, run: a.PrioritizeTask},
		{name: "locktask", usage: "locktask <id> <true|false>", minArg: 2, run: a.LockTask},
		{name: "show", usage: "show <open|done|all>", minArg: 1, run: a.FilterTasks},

		{name: "export", usage: "export [file]", run: a.Export},
	}
}
