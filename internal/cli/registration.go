package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegistrationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registration",
		Short: "Registration ledger commands",
	}

	cmd.AddCommand(newRegistrationCreateCmd())
	cmd.AddCommand(newRegistrationBatchCmd())
	cmd.AddCommand(newRegistrationListCmd())
	cmd.AddCommand(newRegistrationOwnedCmd())
	cmd.AddCommand(newRegistrationAssignCmd())
	cmd.AddCommand(newRegistrationAssignedCmd())

	return cmd
}

func newRegistrationCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <project-id>",
		Short: "Register interest in a project (student only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"project_id": args[0]}
			var result Registration

			if err := client.Post("/api/v1/registrations", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRegistrationBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <project-id>...",
		Short: "Register interest in several projects at once (student only)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string][]string{"project_ids": args}
			var result BatchReport

			if err := client.Post("/api/v1/registrations/batch", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRegistrationListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current student's registrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []RegistrationView

			if err := client.Get("/api/v1/registrations/student", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRegistrationOwnedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owned",
		Short: "List registrations against the current staff user's projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []RegistrationView

			if err := client.Get("/api/v1/registrations/owned", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRegistrationAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <registration-id>",
		Short: "Assign a registration's student to its project (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AssignmentResult

			if err := client.Post(fmt.Sprintf("/api/v1/registrations/%s/assign", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRegistrationAssignedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assigned <student-id>",
		Short: "Check whether a student holds an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AssignedStatus

			if err := client.Get(fmt.Sprintf("/api/v1/students/%s/assigned", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
