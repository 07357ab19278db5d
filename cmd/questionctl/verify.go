package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gokatarajesh/codeprep/internal/question"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Store a reviewed question read from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, _ := cmd.Flags().GetString("topic")
			difficulty, _ := cmd.Flags().GetString("difficulty")
			file, _ := cmd.Flags().GetString("file")

			q, err := readQuestion(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			deps, err := openDeps(cmd, false)
			if err != nil {
				return err
			}
			defer deps.Close()

			res, err := deps.Service.Verify(cmd.Context(), topic, difficulty, q)
			if err != nil {
				return err
			}
			if res.Added {
				fmt.Fprintf(cmd.OutOrStdout(), "saved %q (%s)\n", res.Question.Title, res.Question.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%q already exists for %s; not saved\n", res.Question.Title, topic)
			}
			return nil
		},
	}
	cmd.Flags().String("topic", "", "Question topic")
	cmd.Flags().String("difficulty", "", "beginner, intermediate, advanced (or Easy, Medium, Hard)")
	cmd.Flags().String("file", "-", "Question JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("difficulty")
	return cmd
}

func readQuestion(stdin io.Reader, path string) (question.Question, error) {
	var q question.Question

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return q, fmt.Errorf("read question: %w", err)
	}
	if err := json.Unmarshal(data, &q); err != nil {
		return q, fmt.Errorf("parse question: %w", err)
	}
	return q, nil
}
