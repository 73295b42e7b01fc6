package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"catalog-go/internal/catalog"
)

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// stdinLines is shared so piped secrets and answers are read in order.
var stdinLines = sync.OnceValue(func() *bufio.Reader { return bufio.NewReader(os.Stdin) })

// readSecret reads a line without echo from a terminal, or a plain line
// from piped input.
func readSecret(prompt string) (string, error) {
	if isTerminal() {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return string(b), nil
	}
	line, err := stdinLines().ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptConfirmer asks a y/N question. Anything but y or yes is a no.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

var _ catalog.Confirmer = (*promptConfirmer)(nil)

func newPromptConfirmer(in io.Reader, out io.Writer) *promptConfirmer {
	if in == os.Stdin {
		return &promptConfirmer{in: stdinLines(), out: out}
	}
	return &promptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "j", "ja":
		return true, nil
	}
	return false, nil
}

// printTree writes the tree in display order with each item's status.
func printTree(w io.Writer, t catalog.Tree, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	line := func(indent string, item catalog.Item, class catalog.ItemClass, title string) {
		v := catalog.Visible(item, now)
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\n", indent, title, item.ItemID(), v.Status, v.Caption(class))
	}
	for _, topic := range t.SortedTopics() {
		line("", topic, catalog.ClassTopic, topic.Title)
		for _, lesson := range topic.SortedLessons() {
			line("  ", lesson, catalog.ClassLesson, lesson.Title)
			for _, part := range lesson.SortedParts() {
				line("    ", part, catalog.ClassPart, part.Title)
			}
		}
	}
}

func printDashboard(w io.Writer, d catalog.Dashboard) {
	fmt.Fprintf(w, "Visits:          %d\n", d.TotalVisits)
	fmt.Fprintf(w, "Unique visitors: %d\n\n", d.UniqueVisitors)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TOPIC\tCLICKS")
	for _, c := range d.TopicClicks {
		fmt.Fprintf(tw, "%s\t%d\n", c.Title, c.Clicks)
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "TOP LESSONS\tCLICKS")
	for _, c := range d.TopLessons {
		fmt.Fprintf(tw, "%s\t%d\n", c.Title, c.Clicks)
	}
	tw.Flush()
}
