package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/store"
	"github.com/nhle/taskmaker/internal/viewmodel"
)

// add
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

// update
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a task; fields without a flag are kept",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

// taskFlags holds the field flags shared by add and update.
type taskFlags struct {
	name        string
	description string
	textColour  string
	backColour  string
	due         string
	image       string
	clearDue    bool
	clearImage  bool
}

var (
	addFlags    taskFlags
	updateFlags taskFlags
)

// list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every task",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var listJSON bool

// search
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List tasks whose name or description contains the query",
	Long: `List tasks whose name or description contains the query, ignoring case.

Arguments are joined with single spaces and matched as one substring.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var searchJSON bool

// show
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// delete
var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(addCmd, updateCmd, listCmd, searchCmd, showCmd, deleteCmd)

	for _, c := range []struct {
		cmd *cobra.Command
		f   *taskFlags
	}{{addCmd, &addFlags}, {updateCmd, &updateFlags}} {
		fs := c.cmd.Flags()
		fs.StringVarP(&c.f.name, "name", "n", "", "task name")
		fs.StringVarP(&c.f.description, "description", "d", "", "task description")
		fs.StringVar(&c.f.textColour, "text-colour", "", "text colour, e.g. #000000")
		fs.StringVar(&c.f.backColour, "back-colour", "", "background colour, e.g. #ffffff")
		fs.StringVar(&c.f.due, "due", "", "due time: YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339")
		fs.StringVar(&c.f.image, "image", "", "path to a local image")
	}
	updateCmd.Flags().BoolVar(&updateFlags.clearDue, "clear-due", false, "remove the due time")
	updateCmd.Flags().BoolVar(&updateFlags.clearImage, "clear-image", false, "remove the image")
	updateCmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	updateCmd.MarkFlagsMutuallyExclusive("image", "clear-image")

	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print JSON")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	return withEnv(func(e *env) error {
		f := addFlags
		text, back := e.cfg.Defaults.TextColour, e.cfg.Defaults.BackColour
		if cmd.Flags().Changed("back-colour") {
			back = f.backColour
		}
		if cmd.Flags().Changed("text-colour") {
			text = f.textColour
		} else {
			text = model.ContrastText(text, back)
		}

		in := store.TaskInput{
			Name:        f.name,
			Description: f.description,
			TextColour:  text,
			BackColour:  back,
		}
		if err := applyOptional(&in, f); err != nil {
			return err
		}
		if err := model.ValidateTask(in.Name, in.Description, in.TextColour, in.BackColour); err != nil {
			return err
		}

		ctx, cancel := e.context()
		defer cancel()
		task, err := e.store.AddTask(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added task %d\n", task.ID)
		return nil
	})
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withEnv(func(e *env) error {
		ctx, cancel := e.context()
		defer cancel()

		task, err := e.store.GetTask(ctx, id)
		if err != nil {
			return err
		}

		f, flags := updateFlags, cmd.Flags()
		in := store.InputFromTask(task)
		if flags.Changed("name") {
			in.Name = f.name
		}
		if flags.Changed("description") {
			in.Description = f.description
		}
		if flags.Changed("back-colour") {
			in.BackColour = f.backColour
			if !flags.Changed("text-colour") {
				in.TextColour = model.ContrastText(in.TextColour, in.BackColour)
			}
		}
		if flags.Changed("text-colour") {
			in.TextColour = f.textColour
		}
		if f.clearDue {
			in.DateTime = nil
		}
		if f.clearImage {
			in.ImageURI = nil
		}
		if err := applyOptional(&in, f); err != nil {
			return err
		}
		if err := model.ValidateTask(in.Name, in.Description, in.TextColour, in.BackColour); err != nil {
			return err
		}

		if err := e.store.UpdateTask(ctx, id, in); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated task %d\n", id)
		return nil
	})
}

// applyOptional sets the due time and image from flags that were given.
func applyOptional(in *store.TaskInput, f taskFlags) error {
	if f.due != "" {
		due, err := model.ParseDue(f.due, time.Local)
		if err != nil {
			return err
		}
		in.DateTime = due
	}
	if f.image != "" {
		if _, err := os.Stat(f.image); err != nil {
			return &model.ValidationError{Field: "image", Message: "must be an existing file"}
		}
		image := f.image
		in.ImageURI = &image
	}
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	return withEnv(func(e *env) error {
		list, err := loadTasks(e)
		if err != nil {
			return err
		}
		return printTasks(cmd, list.Tasks(), listJSON)
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		list, err := loadTasks(e)
		if err != nil {
			return err
		}
		return printTasks(cmd, list.Search(strings.Join(args, " ")), searchJSON)
	})
}

// loadTasks reads every task into a fresh view-model.
func loadTasks(e *env) (*viewmodel.TaskList, error) {
	ctx, cancel := e.context()
	defer cancel()

	list := viewmodel.New(e.store)
	if err := list.Refresh(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

func printTasks(cmd *cobra.Command, tasks []model.Task, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(out, "no tasks")
		return nil
	}
	fmt.Fprint(out, formatTaskTable(tasks, time.Now()))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withEnv(func(e *env) error {
		ctx, cancel := e.context()
		defer cancel()

		task, err := e.store.GetTask(ctx, id)
		if errors.Is(err, store.ErrTaskNotFound) {
			return fmt.Errorf("task %d not found", id)
		}
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatTaskDetail(task, time.Now()))
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	return withEnv(func(e *env) error {
		ctx, cancel := e.context()
		defer cancel()

		for _, id := range ids {
			if err := e.store.DeleteTask(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
		}
		return nil
	})
}
