package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/htsfinder"
	"github.com/poiesic/htsfinder/core"
)

const historyListLimit = 20

const helpText = `commands:
  ls                   list the entries under the current node
  cd <n|code|..>       enter an entry by number or code, .. goes up
  back                 go up one level
  path                 show the current position
  search <query>       search the tree
  results              show the current results
  select <n|code>      jump to a result in the tree
  history              list previous searches
  recall <id>          make a previous search current
  help                 show this help
  quit                 leave`

var errQuit = errors.New("quit")

// repl is the line-oriented browser over a session.
type repl struct {
	session *htsfinder.Session
	out     io.Writer
}

func newREPL(session *htsfinder.Session, out io.Writer) *repl {
	return &repl{session: session, out: out}
}

// run reads commands from in until quit or end of input.
func (r *repl) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	r.prompt()
	for scanner.Scan() {
		err := r.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
		r.prompt()
	}
	fmt.Fprintln(r.out)
	return scanner.Err()
}

func (r *repl) prompt() {
	view := r.session.View()
	label := view.Code
	if label == "" {
		label = view.Description
	}
	fmt.Fprintf(r.out, "%s> ", label)
}

// exec runs one command line.
func (r *repl) exec(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "ls":
		printChildren(r.out, r.session.View())
	case "cd":
		return r.cd(arg)
	case "back", "..":
		if !r.session.Back() {
			fmt.Fprintln(r.out, "already at the top")
		}
	case "path":
		if desc := r.session.Describe(); desc != "" {
			fmt.Fprintln(r.out, desc)
		} else {
			fmt.Fprintln(r.out, "root")
		}
	case "search", "s":
		results, err := r.session.Search(ctx, arg)
		if err != nil {
			return err
		}
		printResults(r.out, results)
	case "results":
		printResults(r.out, r.session.Results())
	case "select":
		return r.selectResult(arg)
	case "history":
		entries, err := r.session.History(ctx, historyListLimit)
		if err != nil {
			return err
		}
		printHistory(r.out, entries)
	case "recall":
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("recall needs a history id")
		}
		entry, err := r.session.Recall(ctx, core.ID(id))
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "recalled %q\n", entry.Query)
		printResults(r.out, entry.Results)
	case "help", "?":
		fmt.Fprintln(r.out, helpText)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (r *repl) cd(arg string) error {
	switch arg {
	case "":
		return fmt.Errorf("cd needs a number or a code")
	case "..":
		r.session.Back()
		return nil
	}

	// Codes look like numbers, so a code match wins over a position.
	ok := r.session.Focus(arg)
	if n, err := strconv.Atoi(arg); !ok && err == nil {
		ok = r.session.FocusChild(n - 1)
	}
	if !ok {
		return fmt.Errorf("cannot enter %q", arg)
	}
	printChildren(r.out, r.session.View())
	return nil
}

func (r *repl) selectResult(arg string) error {
	code := arg
	results := r.session.Results()
	isCode := slices.ContainsFunc(results, func(res core.RankedResult) bool { return res.Code == arg })
	if n, err := strconv.Atoi(arg); err == nil && !isCode && n >= 1 && n <= len(results) {
		code = results[n-1].Code
	}
	if code == "" {
		return fmt.Errorf("select needs a number or a code")
	}

	if err := r.session.SelectResult(code); err != nil {
		return err
	}
	fmt.Fprintln(r.out, r.session.Describe())
	printChildren(r.out, r.session.View())
	return nil
}
