package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new question and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, _ := cmd.Flags().GetString("topic")
			difficulty, _ := cmd.Flags().GetString("difficulty")
			save, _ := cmd.Flags().GetBool("save")

			deps, err := openDeps(cmd, true)
			if err != nil {
				return err
			}
			defer deps.Close()

			q, err := deps.Service.Generate(cmd.Context(), topic, difficulty)
			if err != nil {
				return err
			}

			if save {
				res, err := deps.Service.Verify(cmd.Context(), topic, difficulty, *q)
				if err != nil {
					return err
				}
				if !res.Added {
					fmt.Fprintf(cmd.ErrOrStderr(), "%q already exists for %s; not saved\n", res.Question.Title, topic)
				}
			}
			return printJSON(cmd.OutOrStdout(), q)
		},
	}
	cmd.Flags().String("topic", "", "Question topic, e.g. arrays")
	cmd.Flags().String("difficulty", "", "beginner, intermediate, advanced (or Easy, Medium, Hard)")
	cmd.Flags().Bool("save", false, "Store the generated question as verified")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("difficulty")
	return cmd
}
