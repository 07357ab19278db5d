package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print stored questions as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, _ := cmd.Flags().GetString("topic")

			deps, err := openDeps(cmd, false)
			if err != nil {
				return err
			}
			defer deps.Close()

			doc := deps.Service.Questions(cmd.Context())
			if topic == "" {
				return printJSON(cmd.OutOrStdout(), doc)
			}
			bucket, ok := doc[topic]
			if !ok {
				return fmt.Errorf("no questions stored for topic %q", topic)
			}
			return printJSON(cmd.OutOrStdout(), bucket)
		},
	}
	cmd.Flags().String("topic", "", "Only print this topic")
	return cmd
}
