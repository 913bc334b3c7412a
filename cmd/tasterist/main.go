// Package main provides the CLI entry point for the taster import engine.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/penninegym/tasterist-go/pkg/tasterist"
	"github.com/penninegym/tasterist-go/pkg/tasterist/config"
	"github.com/penninegym/tasterist-go/pkg/tasterist/parser"
	"github.com/penninegym/tasterist-go/pkg/tasterist/store"
	"github.com/penninegym/tasterist-go/pkg/tasterist/syncback"
)

var (
	folder         string
	fallbackFolder string
	apply          bool
	actor          string

	csvPath    string
	csvReplace bool

	syncTasterID uint
	syncLeaverID uint
	syncMode     string
	syncField    string
	syncValue    string
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "tasterist",
		Short: "Import taster/leaver workbooks and sync record changes back",
		Long: `tasterist normalizes loosely structured taster-sheet workbooks into a
relational store and writes individual field updates back into the
originating spreadsheet cells.`,
		SilenceUsage: true,
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import all taster workbooks from the source folder",
		RunE:  runImport,
	}
	importCmd.Flags().StringVar(&folder, "folder", "", "Primary workbook folder (default from env)")
	importCmd.Flags().StringVar(&fallbackFolder, "fallback-folder", "", "Local fallback folder for unreadable workbooks")
	importCmd.Flags().BoolVar(&apply, "apply", false, "Clear existing records before import (requires TASTERIST_REPLACE_ENABLED)")
	importCmd.Flags().StringVar(&actor, "actor", "", "Actor name recorded in the audit trail")

	sessionsCmd := &cobra.Command{
		Use:   "import-sessions",
		Short: "Load schedule templates from a bookings CSV",
		RunE:  runImportSessions,
	}
	sessionsCmd.Flags().StringVar(&csvPath, "csv", "", "Path to bookings CSV")
	sessionsCmd.Flags().BoolVar(&csvReplace, "replace", false, "Clear schedule templates first")
	_ = sessionsCmd.MarkFlagRequired("csv")

	fixTimesCmd := &cobra.Command{
		Use:   "fix-times",
		Short: "One-shot +12h correction for sessions imported on a 12-hour clock",
		RunE:  runFixTimes,
	}
	fixTimesCmd.Flags().StringVar(&actor, "actor", "", "Actor name recorded in the audit trail")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Write one stored record back into its workbook cell",
		RunE:  runSync,
	}
	syncCmd.Flags().UintVar(&syncTasterID, "taster", 0, "Taster record id")
	syncCmd.Flags().UintVar(&syncLeaverID, "leaver", 0, "Leaver record id")
	syncCmd.Flags().StringVar(&syncMode, "mode", "status", "Sync mode: add, status, contacted")
	syncCmd.Flags().StringVar(&syncField, "field", "", "Changed flag for status mode: attended, fees, registration, badge")
	syncCmd.Flags().StringVar(&syncValue, "set", "", "New value for --field (yes/no); updates the stored record before syncing")
	syncCmd.Flags().StringVar(&actor, "actor", "", "Actor name for attribution initials")

	rootCmd.AddCommand(importCmd, sessionsCmd, fixTimesCmd, syncCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if folder == "" {
		folder = cfg.SourceFolder
	}
	if fallbackFolder == "" {
		fallbackFolder = cfg.FallbackFolder
	}
	if apply && !cfg.ReplaceEnabled {
		return fmt.Errorf("replace mode is disabled; set TASTERIST_REPLACE_ENABLED=1 to allow --apply")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.ImportTimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	imp := tasterist.NewImporter(st, tasterist.Options{
		SourceFolder:   folder,
		FallbackFolder: fallbackFolder,
		Replace:        apply,
		Actor:          actor,
		Logger:         log.New(os.Stdout, "", 0),
	})

	summary, err := imp.Run(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintf(os.Stderr, "import timed out after %s\n", timeout)
		os.Exit(124)
	}
	if err != nil {
		return err
	}
	fmt.Printf("IMPORT COMPLETE: files=%d tasters=%d leavers=%d warnings=%d\n",
		summary.Files, summary.Tasters, summary.Leavers, len(summary.Warnings))
	return nil
}

func runImportSessions(cmd *cobra.Command, args []string) error {
	st, err := openStore(config.Load())
	if err != nil {
		return err
	}
	inserted, err := st.LoadClassSessionsCSV(csvPath, csvReplace)
	if err != nil {
		return err
	}
	fmt.Printf("Inserted %d class sessions\n", inserted)
	return nil
}

func runFixTimes(cmd *cobra.Command, args []string) error {
	st, err := openStore(config.Load())
	if err != nil {
		return err
	}
	fixed, err := st.FixAfternoonTimes(actor)
	if err != nil {
		return err
	}
	fmt.Printf("Shifted %d session times\n", fixed)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	syncer := &syncback.Syncer{
		Roots: []string{cfg.FallbackFolder, cfg.SourceFolder},
		Log:   log.New(os.Stderr, "", log.LstdFlags),
	}
	initials := parser.Initials(actor)

	var res syncback.Result
	switch {
	case syncTasterID != 0:
		rec, err := st.GetTaster(syncTasterID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("taster %d not found", syncTasterID)
		}
		// Store first, sheet second: the sheet write is advisory and must
		// never be the only place the change lands.
		if syncValue != "" {
			if syncField == "" {
				return fmt.Errorf("--set requires --field")
			}
			if err := st.SetTasterFlag(rec.ID, syncField, parser.Truthy(syncValue)); err != nil {
				return err
			}
			if rec, err = st.GetTaster(syncTasterID); err != nil {
				return err
			}
		}
		res = syncer.SyncTaster(rec, syncback.Mode(syncMode), syncField, initials)
	case syncLeaverID != 0:
		rec, err := st.GetLeaver(syncLeaverID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("leaver %d not found", syncLeaverID)
		}
		res = syncer.SyncLeaver(rec, initials)
	default:
		return fmt.Errorf("one of --taster or --leaver is required")
	}

	if !res.OK {
		// Sync-back is advisory; the store write already succeeded.
		fmt.Printf("sync skipped (%s): %s\n", res.Reason, res.Message)
		return nil
	}
	fmt.Println(res.Message)
	return nil
}
