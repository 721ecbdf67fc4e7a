package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"echobot/internal/format"
	"echobot/internal/session"
	"echobot/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored chat sessions",
	RunE:  runSessionsList,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a chat session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <session-id> <name>",
	Short: "Rename a chat session",
	Args:  cobra.ExactArgs(2),
	RunE:  runSessionsRename,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
}

func openManager() (*session.Manager, *store.SqlStore, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open chat store: %w", err)
	}
	return session.NewManager(st), st, nil
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	mgr, st, err := openManager()
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := mgr.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored sessions.")
		return nil
	}

	activeID, err := st.ActiveSession()
	if err != nil {
		return err
	}

	t := format.NewTable(format.ASCII)
	t.Header("ID", "Name", "Updated", "Active")
	for _, s := range sessions {
		active := ""
		if s.ID == activeID {
			active = "*"
		}
		t.Row(s.ID, s.Name, s.UpdatedAt.Format("2006-01-02 15:04"), active)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	mgr, st, err := openManager()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := mgr.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
	return nil
}

func runSessionsRename(cmd *cobra.Command, args []string) error {
	mgr, st, err := openManager()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := mgr.Rename(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed session %s to %q\n", args[0], args[1])
	return nil
}
