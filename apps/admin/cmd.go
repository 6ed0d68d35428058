package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/portal"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf  *core.Config
	store *portal.Store
	in    io.Reader
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  users - list all users")
	_, _ = fmt.Fprintln(cli.out, "  chapters - list the chapters & their content")
	_, _ = fmt.Fprintln(cli.out, "  addvideo -chapter ID -title TITLE -url URL - add a video")
	_, _ = fmt.Fprintln(cli.out, "  addmap -chapter ID -title TITLE -url URL -type image|pdf - add a mind map")
	_, _ = fmt.Fprintln(cli.out, "  importquiz -file QUIZ.yaml [-chapter ID] - import a quiz")
	_, _ = fmt.Fprintln(cli.out, "  reset [-yes] - drop all users & content")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run postgres storage migrations (goose commands)")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[1] {
	case "users":
		return cli.listUsers()

	case "chapters":
		return cli.listChapters()

	case "addvideo":
		cmd := cli.newFlagSet("addvideo")
		chapter := cmd.String("chapter", "", "The chapter id (see `chapters`).")
		title := cmd.String("title", "", "The video title.")
		url := cmd.String("url", "", "The video url. YouTube links are embedded.")
		if err := cmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *chapter == "" || *title == "" || *url == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.addVideo(ctx, *chapter, *title, *url)

	case "addmap":
		cmd := cli.newFlagSet("addmap")
		chapter := cmd.String("chapter", "", "The chapter id (see `chapters`).")
		title := cmd.String("title", "", "The mind map title.")
		url := cmd.String("url", "", "The image or PDF url.")
		typ := cmd.String("type", "image", "image or pdf.")
		if err := cmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *chapter == "" || *title == "" || *url == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.addMindMap(ctx, *chapter, *title, *url, *typ)

	case "importquiz":
		cmd := cli.newFlagSet("importquiz")
		file := cmd.String("file", "", "The YAML file describing the quiz.")
		chapter := cmd.String("chapter", "", "Overrides the chapter id of the file.")
		if err := cmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *file == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.importQuiz(ctx, *file, *chapter)

	case "reset":
		cmd := cli.newFlagSet("reset")
		yes := cmd.Bool("yes", false, "Do not ask for confirmation.")
		if err := cmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.reset(ctx, *yes)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) listUsers() error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tCLASS\tWATCHED\tQUIZZES")
	for _, usr := range cli.store.Users() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			usr.ID, usr.Name, usr.Email, usr.Role, usr.SelectedClass,
			len(usr.Progress.WatchedVideos), len(usr.Progress.QuizScores))
	}
	return w.Flush()
}

func (cli *commandLine) listChapters() error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCHAPTER\tCLASS\tVIDEOS\tMAPS\tQUIZZES")
	for _, ch := range cli.store.Chapters() {
		cat := cli.store.ClassContent(ch.ClassLevel)
		var videos, maps, quizzes int
		for _, v := range cat.Videos {
			if v.ChapterID == ch.ID {
				videos++
			}
		}
		for _, m := range cat.MindMaps {
			if m.ChapterID == ch.ID {
				maps++
			}
		}
		for _, q := range cat.Quizzes {
			if q.ChapterID == ch.ID {
				quizzes++
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n", ch.ID, ch.Name, ch.ClassLevel, videos, maps, quizzes)
	}
	return w.Flush()
}

// confirm asks a yes/no question on the terminal.
func (cli *commandLine) confirm(question string) (bool, error) {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return false, errors.New("not a terminal, use -yes to confirm")
	}
	_, _ = fmt.Fprintf(cli.out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
