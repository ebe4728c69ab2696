// File: cmd/run.go
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claudiorodrigues01/bycrr-ai/internal/agent"
	"github.com/claudiorodrigues01/bycrr-ai/internal/observability"
)

// newRunCmd creates the `run` command, which executes a single task through
// the autonomous loop.
func newRunCmd() *cobra.Command {
	var (
		offline     bool
		model       string
		sessionID   string
		sessionName string
		autoConfirm bool
	)

	runCmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Executes a task autonomously and prints the final answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			task := strings.Join(args, " ")

			if offline {
				cfg.Agent.OfflineMode = true
			}
			if model != "" {
				cfg.Agent.LLMModel = model
			}

			confirm := stdinConfirm(cmd)
			if autoConfirm {
				confirm = func(string, string) bool { return true }
			}

			ag, err := agent.New(ctx, cfg, confirm, logger)
			if err != nil {
				return fmt.Errorf("failed to assemble agent: %w", err)
			}

			if sessionID != "" {
				err = ag.LoadSession(sessionID)
			} else {
				err = ag.StartSession(sessionName)
			}
			if err != nil {
				return fmt.Errorf("failed to open session: %w", err)
			}

			runID := uuid.NewString()
			logger.Info("Starting task run",
				zap.String("run_id", runID),
				zap.String("session_id", ag.CurrentSession().ID),
				zap.Bool("offline", cfg.Agent.OfflineMode))

			ag.Progress = func(iteration int) {
				fmt.Fprintf(cmd.OutOrStdout(), "--- Iteração %d ---\n", iteration)
			}

			final, _ := ag.RunTask(ctx, task)
			fmt.Fprintln(cmd.OutOrStdout(), final)
			return nil
		},
	}

	runCmd.Flags().BoolVar(&offline, "offline", false, "force offline mode (never contact the inference service)")
	runCmd.Flags().StringVar(&model, "model", "", "override the configured model name")
	runCmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session by id")
	runCmd.Flags().StringVar(&sessionName, "name", "", "name for a newly started session")
	runCmd.Flags().BoolVarP(&autoConfirm, "yes", "y", false, "approve sensitive actions without prompting")
	return runCmd
}

// stdinConfirm prompts on the command's streams for sensitive-action
// approval. Anything other than an explicit yes declines.
func stdinConfirm(cmd *cobra.Command) agent.ConfirmFunc {
	reader := bufio.NewReader(os.Stdin)
	return func(target, reason string) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "Ação sensível: %s\nMotivo: %s\nConfirmar? [s/N]: ", target, reason)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "sim", "y", "yes":
			return true
		}
		return false
	}
}
