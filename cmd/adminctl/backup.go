package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const backupPrefix = "backup_"

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the data directory into a timestamped backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		backupDir, _ := cmd.Flags().GetString("backup-dir")

		name := backupPrefix + time.Now().Format("20060102_150405")
		dest := filepath.Join(backupDir, name)
		if err := copyTree(dataDir, dest); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("backup written to %s\n", dest)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-name]",
	Short: "Replace the data directory with a chosen backup",
	Long: "Without arguments, lists available backups. With a backup name, snapshots the\n" +
		"current data directory first, then replaces it with the backup.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		backupDir, _ := cmd.Flags().GetString("backup-dir")

		if len(args) == 0 {
			names, err := listBackups(backupDir)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("no backups found")
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		}

		src := filepath.Join(backupDir, filepath.Base(args[0]))
		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("backup %s not found", args[0])
		}

		// Snapshot the live tree before touching it.
		snapshot := filepath.Join(backupDir, "pre_restore_"+time.Now().Format("20060102_150405"))
		if _, err := os.Stat(dataDir); err == nil {
			if err := copyTree(dataDir, snapshot); err != nil {
				return fmt.Errorf("snapshot of current data failed: %w", err)
			}
			fmt.Printf("current data snapshotted to %s\n", snapshot)
		}

		if err := os.RemoveAll(dataDir); err != nil {
			return fmt.Errorf("remove current data dir: %w", err)
		}
		if err := copyTree(src, dataDir); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Printf("restored %s into %s\n", args[0], dataDir)
		return nil
	},
}

func listBackups(backupDir string) ([]string, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
