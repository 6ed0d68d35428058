package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/visualminds/core/content"
)

func (cli *commandLine) addVideo(ctx context.Context, chapterID, title, url string) error {
	item, err := cli.store.AddContent(ctx, content.KindVideo, content.Video{
		ChapterID: chapterID,
		Title:     title,
		URL:       url,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "video %s added\n", item.ItemID())
	cli.warnUnlisted(chapterID)
	return nil
}

func (cli *commandLine) addMindMap(ctx context.Context, chapterID, title, url, typ string) error {
	item, err := cli.store.AddContent(ctx, content.KindMindMap, content.MindMap{
		ChapterID: chapterID,
		Title:     title,
		URL:       url,
		Type:      typ,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "mind map %s added\n", item.ItemID())
	cli.warnUnlisted(chapterID)
	return nil
}

// importQuiz adds the quiz described in a YAML file:
//
//	chapterId: c4-1
//	title: Chimpu Monkey
//	questions:
//	  - question: Where does Chimpu live?
//	    options: [In a tree, In a house]
//	    correctAnswer: 0
func (cli *commandLine) importQuiz(ctx context.Context, path, chapterID string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading quiz file")
	}
	var quiz content.Quiz
	if err = yaml.Unmarshal(raw, &quiz); err != nil {
		return errors.Wrap(err, "decoding quiz file")
	}
	if chapterID != "" {
		quiz.ChapterID = chapterID
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = fmt.Sprintf("q%d", i+1)
		}
	}

	item, err := cli.store.AddContent(ctx, content.KindQuiz, quiz)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "quiz %s added with %d questions\n", item.ItemID(), len(quiz.Questions))
	cli.warnUnlisted(quiz.ChapterID)
	return nil
}

// warnUnlisted tells when content points at a chapter missing from the catalog:
// it is stored but no class lists it.
func (cli *commandLine) warnUnlisted(chapterID string) {
	if _, ok := content.FindChapter(cli.store.Chapters(), chapterID); !ok {
		_, _ = fmt.Fprintf(cli.out, "warning: chapter %q is not in the catalog, students will not see this content\n", chapterID)
	}
}

func (cli *commandLine) reset(ctx context.Context, yes bool) error {
	if !yes {
		ok, err := cli.confirm("This deletes every student & all content. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(cli.out, "aborted")
			return nil
		}
	}
	cli.store.Reset(ctx)
	_, _ = fmt.Fprintln(cli.out, "data reset")
	return nil
}
