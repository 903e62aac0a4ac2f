package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"strings"
)

type access int

const (
	public access = iota
	member
	admin
)

type command struct {
	usage  string
	args   int
	access access
	run    func(a *App, ctx context.Context, args []string) error
}

// commands maps a REPL verb to its handler. args is the number of required
// positional arguments.
var commands = map[string]command{
	"login":  {usage: "login", run: (*App).login},
	"signup": {usage: "signup", run: (*App).signup},
	"verify": {usage: "verify", run: (*App).verify},
	"resend": {usage: "resend", run: (*App).resend},
	"forgot": {usage: "forgot", run: (*App).forgot},
	"reset":  {usage: "reset", run: (*App).reset},
	"logout": {usage: "logout", run: (*App).logout},

	"me":            {usage: "me", access: member, run: (*App).me},
	"edit-profile":  {usage: "edit-profile", access: member, run: (*App).editProfile},
	"profile":       {usage: "profile <id>", args: 1, access: member, run: (*App).profile},
	"follow-user":   {usage: "follow-user <id>", args: 1, access: member, run: (*App).followUser},
	"unfollow-user": {usage: "unfollow-user <id>", args: 1, access: member, run: (*App).unfollowUser},

	"docs":     {usage: "docs", access: member, run: (*App).docs},
	"more":     {usage: "more", access: member, run: (*App).more},
	"search":   {usage: "search <keyword>", args: 1, access: member, run: (*App).search},
	"suggest":  {usage: "suggest <keyword>", args: 1, access: member, run: (*App).suggest},
	"doc":      {usage: "doc <id>", args: 1, access: member, run: (*App).doc},
	"download": {usage: "download <id>", args: 1, access: member, run: (*App).download},
	"upload":   {usage: "upload <path>", args: 1, access: member, run: (*App).upload},
	"delete":   {usage: "delete <id>", args: 1, access: member, run: (*App).deleteDocument},

	"faculties":        {usage: "faculties", access: member, run: (*App).faculties},
	"faculty":          {usage: "faculty <id>", args: 1, access: member, run: (*App).faculty},
	"follow-faculty":   {usage: "follow-faculty <id>", args: 1, access: member, run: (*App).followFaculty},
	"unfollow-faculty": {usage: "unfollow-faculty <id>", args: 1, access: member, run: (*App).unfollowFaculty},
	"subjects":         {usage: "subjects [facultyId]", access: member, run: (*App).subjects},
	"subject":          {usage: "subject <id>", args: 1, access: member, run: (*App).subject},
	"follow-subject":   {usage: "follow-subject <id>", args: 1, access: member, run: (*App).followSubject},
	"unfollow-subject": {usage: "unfollow-subject <id>", args: 1, access: member, run: (*App).unfollowSubject},

	"notifications": {usage: "notifications", access: member, run: (*App).notifications},
	"read":          {usage: "read <id>", args: 1, access: member, run: (*App).markRead},

	"admin-stats": {usage: "admin-stats", access: admin, run: (*App).adminStats},
	"admin-users": {usage: "admin-users", access: admin, run: (*App).adminUsers},
	"ban":         {usage: "ban <id>", args: 1, access: admin, run: (*App).ban},
	"unban":       {usage: "unban <id>", args: 1, access: admin, run: (*App).unban},
	"pending":     {usage: "pending", access: admin, run: (*App).pending},
	"approve":     {usage: "approve <id>", args: 1, access: admin, run: (*App).approve},
	"reject":      {usage: "reject <id>", args: 1, access: admin, run: (*App).reject},
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// The prompt shows statusFn. Unknown verbs and missing arguments are
// reported; handler errors are shown as alerts and never end the loop.
func runREPL(ctx context.Context, a *App, statusFn func(ctx context.Context) string, reader *bufio.Reader) {
	for {
		a.printf("studyshare (%s)> ", statusFn(ctx))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			a.println()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		verb, args := parts[0], parts[1:]

		switch verb {
		case "help":
			a.help(ctx)
			continue
		case "exit", "quit":
			a.println("Bye!")
			return
		}

		cmd, ok := commands[verb]
		if !ok {
			a.println("Unknown command:", verb)
			continue
		}
		if len(args) < cmd.args {
			a.println("Usage:", cmd.usage)
			continue
		}
		if !a.allowed(ctx, cmd.access) {
			continue
		}
		if err := cmd.run(a, ctx, args); err != nil {
			a.logger.Debug(ctx, "command failed", "command", verb, "error", err)
			a.alert(err)
		}
	}
}

func (a *App) allowed(ctx context.Context, level access) bool {
	if level == public {
		return true
	}
	if !a.isLoggedIn(ctx) {
		a.println("Please log in first.")
		return false
	}
	if level == admin {
		if !a.isAdmin() {
			a.refreshUser(ctx)
		}
		if !a.isAdmin() {
			a.println("This command is for administrators.")
			return false
		}
	}
	return true
}

func (a *App) help(ctx context.Context) {
	var usages []string
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		cmd := commands[name]
		switch {
		case cmd.access == admin && !a.isAdmin():
			continue
		case cmd.access != public && !a.isLoggedIn(ctx):
			continue
		}
		usages = append(usages, cmd.usage)
	}
	usages = append(usages, "help", "exit")
	a.println("Available commands:")
	for _, u := range usages {
		a.println("  " + u)
	}
}
