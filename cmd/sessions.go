// File: cmd/sessions.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudiorodrigues01/bycrr-ai/internal/observability"
	"github.com/claudiorodrigues01/bycrr-ai/internal/session"
)

// newSessionsCmd creates the `sessions` command for listing and inspecting
// persisted conversation threads.
func newSessionsCmd() *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Lists persisted chat sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewStore(cfg.Paths.Sessions(), observability.GetLogger())
			if err != nil {
				return fmt.Errorf("failed to open session store: %w", err)
			}
			metas := store.List()
			if len(metas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma sessão encontrada.")
				return nil
			}
			for _, m := range metas {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", m.ID, m.CreatedAt, m.Name)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Prints the messages of one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewStore(cfg.Paths.Sessions(), observability.GetLogger())
			if err != nil {
				return fmt.Errorf("failed to open session store: %w", err)
			}
			sess, err := store.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", sess.Name, sess.CreatedAt)
			for _, msg := range sess.Messages {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", msg.Role, msg.Content)
			}
			return nil
		},
	}

	sessionsCmd.AddCommand(showCmd)
	return sessionsCmd
}
