package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/review-analyzer/internal/session"
	"github.com/jonathan/review-analyzer/internal/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat <id>",
	Short: "Ask follow-up questions about a saved analysis",
	Long:  "Starts an interactive conversation grounded on a saved analysis and its source text. Type /exit or send EOF to quit.",
	Args:  cobra.ExactArgs(1),
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	if _, err := a.session.View(ctx, args[0]); err != nil {
		return err
	}
	greeting, err := a.session.ChatGreeting()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", greeting)
	history := []types.ChatMessage{{Role: types.RoleModel, Content: greeting}}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "/exit" {
			return nil
		}

		reply, err := streamReply(ctx, a.session, out, history, message)
		if err != nil {
			// The conversation survives a failed turn; the user may retry.
			fmt.Fprintf(cmd.ErrOrStderr(), "\nError: %v\n\n", err)
			continue
		}
		history = append(history,
			types.ChatMessage{Role: types.RoleUser, Content: message},
			types.ChatMessage{Role: types.RoleModel, Content: reply},
		)
	}
}

// streamReply prints reply chunks as they arrive and returns the full reply
func streamReply(ctx context.Context, ctrl *session.Controller, out io.Writer, history []types.ChatMessage, message string) (string, error) {
	chunks, err := ctrl.SendChatMessage(ctx, history, message)
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	for chunk, err := range chunks {
		if err != nil {
			return "", err
		}
		reply.WriteString(chunk)
		fmt.Fprint(out, chunk)
	}
	fmt.Fprint(out, "\n\n")
	return reply.String(), nil
}
