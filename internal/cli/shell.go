// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// shell.go - Interactive search shell for filedex.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/filedex/internal/app"
	"github.com/jeranaias/filedex/internal/config"
)

// HandleShell runs an interactive search loop with line editing,
// history and file-name completion.
func HandleShell(a *app.App, args Args) error {
	if err := RequiresTTY("run the search shell"); err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	// Complete on indexed file names.
	line.SetCompleter(func(partial string) []string {
		names, err := a.Search.Suggest(partial)
		if err != nil {
			return nil
		}
		return names
	})

	historyPath := shellHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyPath == "" {
			return
		}
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("filedex search shell"))
		fmt.Println(DimStyle.Render("Type a query, :fuzzy to toggle fuzzy mode, :stats for stats, :quit to exit."))
	}

	fuzzy := args.Fuzzy
	for {
		input, err := line.Prompt("search> ")
		if err != nil {
			// Ctrl+C or Ctrl+D ends the shell.
			if err == liner.ErrPromptAborted {
				return nil
			}
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case ":quit", ":q", ":exit":
			return nil
		case ":fuzzy":
			fuzzy = !fuzzy
			fmt.Printf("fuzzy mode: %v\n", fuzzy)
			continue
		case ":stats":
			if err := HandleStats(a, args); err != nil {
				DisplayError(err, false)
			}
			continue
		}

		queryArgs := args
		queryArgs.Query = input
		queryArgs.Fuzzy = fuzzy
		queryArgs.JSON = false
		if err := HandleSearch(a, queryArgs); err != nil {
			DisplayError(err, false)
		}
	}
}

func shellHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ""
	}
	return filepath.Join(dir, "shell_history")
}
