package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"catalog-go/internal/catalog"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect and edit the content tree",
}

var contentShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the content tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "ShowContent", false)
		if err != nil {
			return err
		}
		defer a.Close()

		t := a.Catalog().Tree()
		if len(t) == 0 {
			fmt.Println("No content.")
			return nil
		}
		printTree(os.Stdout, t, a.Catalog().Clock().Now())
		return nil
	},
}

var contentExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the content tree as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ExportContent", false)
		if err != nil {
			return err
		}
		defer a.Close()

		var w io.Writer = os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()
			w = f
		}
		return a.ExportTree(w)
	},
}

var contentImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the content tree with a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()

		a, err := newAdminApp(ctx, "ImportContent")
		if err != nil {
			return err
		}
		defer a.Close()

		yes, _ := cmd.Flags().GetBool("yes")
		ok, err := confirmer(yes).Confirm(ctx, "Replace the whole content tree?")
		if err != nil || !ok {
			return err
		}

		t, err := a.ImportTree(ctx, f)
		if err != nil {
			return err
		}
		topics, lessons, parts := t.Count()
		fmt.Printf("Imported %d topic(s), %d lesson(s), %d part(s)\n", topics, lessons, parts)
		return nil
	},
}

var contentMoveCmd = &cobra.Command{
	Use:   "move topic|lesson|part INDEX up|down",
	Short: "Swap an item with its neighbour",
	Long: "Swap the item at display position INDEX (starting at 0) with its neighbour.\n" +
		"Lessons need --topic, parts need --topic and --lesson.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		class := catalog.ItemClass(args[0])
		if !class.Valid() {
			return fmt.Errorf("unknown item type %q", args[0])
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[1])
		}
		direction, err := parseDirection(args[2])
		if err != nil {
			return err
		}
		topicID, _ := cmd.Flags().GetString("topic")
		lessonID, _ := cmd.Flags().GetString("lesson")

		a, err := newAdminApp(ctx, "MoveContent")
		if err != nil {
			return err
		}
		defer a.Close()

		var moved bool
		switch class {
		case catalog.ClassTopic:
			moved, err = a.Editor().MoveTopic(ctx, index, direction)
		case catalog.ClassLesson:
			moved, err = a.Editor().MoveLesson(ctx, topicID, index, direction)
		case catalog.ClassPart:
			moved, err = a.Editor().MovePart(ctx, topicID, lessonID, index, direction)
		}
		if err != nil {
			a.Fail()
			return err
		}
		if !moved {
			fmt.Println("Nothing to move.")
			return nil
		}
		fmt.Printf("Moved %s %d %s\n", class, index, args[2])
		return nil
	},
}

var contentDeleteCmd = &cobra.Command{
	Use:   "delete topic|lesson|part ID",
	Short: "Delete an item and everything below it",
	Long:  "Delete an item. Lessons need --topic, parts need --topic and --lesson.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		class := catalog.ItemClass(args[0])
		if !class.Valid() {
			return fmt.Errorf("unknown item type %q", args[0])
		}
		id := args[1]
		topicID, _ := cmd.Flags().GetString("topic")
		lessonID, _ := cmd.Flags().GetString("lesson")
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newAdminApp(ctx, "DeleteContent")
		if err != nil {
			return err
		}
		defer a.Close()

		confirm := confirmer(yes)
		switch class {
		case catalog.ClassTopic:
			err = a.Editor().DeleteTopic(ctx, confirm, id)
		case catalog.ClassLesson:
			err = a.Editor().DeleteLesson(ctx, confirm, topicID, id)
		case catalog.ClassPart:
			err = a.Editor().DeletePart(ctx, confirm, topicID, lessonID, id)
		}
		if errors.Is(err, catalog.ErrConfirmationDeclined) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err != nil {
			a.Fail()
			return err
		}
		fmt.Printf("Deleted %s %s\n", class, id)
		return nil
	},
}

func parseDirection(s string) (int, error) {
	switch s {
	case "up":
		return -1, nil
	case "down":
		return 1, nil
	}
	return 0, fmt.Errorf("direction must be up or down, got %q", s)
}

// confirmer asks on the terminal unless yes was given on the command line.
func confirmer(yes bool) catalog.Confirmer {
	if yes {
		return catalog.Approve
	}
	return newPromptConfirmer(os.Stdin, os.Stderr)
}

func init() {
	contentCmd.AddCommand(contentShowCmd)
	contentCmd.AddCommand(contentExportCmd)
	contentCmd.AddCommand(contentImportCmd)
	contentImportCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	contentCmd.AddCommand(contentMoveCmd)
	contentCmd.AddCommand(contentDeleteCmd)
	contentDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	for _, c := range []*cobra.Command{contentMoveCmd, contentDeleteCmd} {
		c.Flags().String("topic", "", "Parent topic ID")
		c.Flags().String("lesson", "", "Parent lesson ID")
	}
}
