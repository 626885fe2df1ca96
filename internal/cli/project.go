package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project catalogue commands",
	}

	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectGetCmd())
	cmd.AddCommand(newProjectOwnedCmd())
	cmd.AddCommand(newProjectRetireCmd())

	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project (staff only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"title":       title,
				"description": description,
			}
			var result Project

			if err := client.Post("/api/v1/projects", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Project title (required)")
	cmd.Flags().StringVar(&description, "desc", "", "Project description")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Project

			if err := client.Get("/api/v1/projects", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProjectGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <project-id>",
		Short: "Show a single project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Project

			if err := client.Get(fmt.Sprintf("/api/v1/projects/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProjectOwnedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owned",
		Short: "List projects owned by the current staff user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Project

			if err := client.Get("/api/v1/projects/owned", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProjectRetireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retire <project-id>",
		Short: "Retire an open project (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Project

			if err := client.Post(fmt.Sprintf("/api/v1/projects/%s/retire", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
