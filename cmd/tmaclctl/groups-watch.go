package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/perimetra/tmacl/pkg/db"
	"github.com/perimetra/tmacl/pkg/groups"
)

// groupsWatchCmd represents the groups watch command
var groupsWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a definitions file and reload groups when it changes",
	Long: `Watch a permission group definitions file and reload it whenever it
is modified.

Example:
  tmaclctl groups watch /etc/tmacl/groups.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchGroups(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch groups: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	groupsCmd.AddCommand(groupsWatchCmd)
}

func watchGroups(filename string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for group definition changes\n", filename)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, reloading groups...\n", time.Now().Format(time.RFC3339))
				if err := loadGroupsFromFile(database, filename); err != nil {
					fmt.Fprintf(os.Stderr, "Error loading groups: %v\n", err)
				} else {
					fmt.Printf("Groups loaded successfully from %s\n", filename)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func loadGroupsFromFile(database *gorm.DB, filename string) error {
	loader := groups.NewLoader(groups.NewGormStore(database))
	_, err := loader.LoadFile(filename)
	return err
}
