// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - Command handlers for the filedex CLI.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/filedex/internal/app"
	"github.com/jeranaias/filedex/internal/export"
	"github.com/jeranaias/filedex/internal/index"
	"github.com/jeranaias/filedex/internal/search"
	"github.com/jeranaias/filedex/internal/util"
)

// =============================================================================
// INDEX
// =============================================================================

// HandleIndex runs a full scan of the folder, streaming progress, then
// keeps the process alive watching for changes until interrupted.
func HandleIndex(ctx context.Context, a *app.App, args Args) error {
	if args.Path == "" {
		return ErrMissingArgument("folder", "filedex index ~/Documents")
	}

	done := make(chan error, 1)
	go func() {
		done <- a.IndexFolder(ctx, args.Path)
	}()

	for {
		select {
		case ev := <-a.Index.Events():
			printEvent(ev, args)
		case err := <-done:
			if err != nil {
				return err
			}
			// Drain anything published before completion.
			for {
				select {
				case ev := <-a.Index.Events():
					printEvent(ev, args)
				default:
					if !args.Quiet {
						fmt.Println(DimStyle.Render("Watching for changes. Press Ctrl+C to stop."))
					}
					return watchLoop(ctx, a, args)
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// watchLoop streams watcher events until the context is cancelled.
func watchLoop(ctx context.Context, a *app.App, args Args) error {
	for {
		select {
		case ev := <-a.Index.Events():
			printEvent(ev, args)
		case <-ctx.Done():
			a.Index.StopWatching()
			return nil
		}
	}
}

func printEvent(ev index.Event, args Args) {
	if args.Quiet {
		return
	}
	switch ev := ev.(type) {
	case index.ScanStartedEvent:
		fmt.Printf("%s %s\n", SectionStyle.Render("Indexing"), PathStyle.Render(ev.Root))
	case index.ProgressEvent:
		if args.Verbose && ev.Progress.CurrentFile != "" {
			fmt.Printf("  [%3d%%] %s\n", ev.Progress.Percentage,
				util.TruncateString(ev.Progress.CurrentFile, 60))
		}
	case index.CompletedEvent:
		fmt.Printf("%s indexed %d of %d files\n",
			SuccessStyle.Render("Done:"), ev.Indexed, ev.Total)
	case index.ErrorEvent:
		fmt.Printf("%s %v\n", ErrorStyle.Render("[ERROR]"), ev.Err)
	case index.FileUpdatedEvent:
		fmt.Printf("  %s %s\n", SuccessStyle.Render(ev.Op), PathStyle.Render(ev.Path))
	case index.FileDeletedEvent:
		fmt.Printf("  %s %s\n", WarningStyle.Render("unlink"), PathStyle.Render(ev.Path))
	case index.WatcherEvent:
		if args.Verbose {
			fmt.Printf("  watcher %s %s\n", string(ev.State), DimStyle.Render(ev.Root))
		}
	}
}

// =============================================================================
// SEARCH
// =============================================================================

// HandleSearch runs a query and prints ranked results.
func HandleSearch(a *app.App, args Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return ErrMissingArgument("query", `filedex search "quarterly report"`)
	}

	opts := search.Options{
		Text:     args.Query,
		Fuzzy:    args.Fuzzy,
		Semantic: args.Semantic,
		Limit:    args.Limit,
	}
	if len(args.Types) > 0 {
		opts.Filters.FileTypes = args.Types
	}
	if args.Folder != "" {
		opts.Filters.Folders = []string{args.Folder}
	}

	results, err := a.Search.Search(opts)
	if err != nil {
		return err
	}

	if args.JSON {
		data := SearchData{Query: args.Query, Fuzzy: args.Fuzzy, Count: len(results)}
		for _, r := range results {
			data.Results = append(data.Results, SearchResultData{
				Path:       r.File.Path,
				Name:       r.File.Name,
				Extension:  r.File.Extension,
				Size:       r.File.Size,
				Modified:   r.File.ModifiedDate,
				Score:      r.Score,
				Snippet:    r.Snippet,
				Highlights: r.Highlights,
			})
		}
		return NewJSONResponse("search", data).Print()
	}

	if len(results) == 0 {
		fmt.Println(DimStyle.Render("No results."))
		return nil
	}

	for i, r := range results {
		fmt.Printf("%s %s %s\n",
			DimStyle.Render(fmt.Sprintf("%2d.", i+1)),
			ValueStyle.Render(r.File.Name),
			PathStyle.Render(r.File.Path))
		if snippet := renderSnippet(r.Snippet); snippet != "" {
			fmt.Printf("    %s\n", snippet)
		}
	}
	if !args.Quiet {
		fmt.Println(DimStyle.Render(fmt.Sprintf("%d result(s)", len(results))))
	}
	return nil
}

// renderSnippet replaces the stored highlight markers with terminal
// styling and collapses the snippet to a single line.
func renderSnippet(snippet string) string {
	snippet = strings.Join(strings.Fields(snippet), " ")

	// Style each marked span individually so reset codes land correctly.
	var b strings.Builder
	rest := snippet
	for {
		i := strings.Index(rest, "<mark>")
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		rest = rest[i+len("<mark>"):]
		j := strings.Index(rest, "</mark>")
		if j < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(HighlightStyle.Render(rest[:j]))
		rest = rest[j+len("</mark>"):]
	}
	return util.TruncateString(b.String(), 200)
}

// HandleSuggest prints file-name suggestions for a partial query.
func HandleSuggest(a *app.App, args Args) error {
	names, err := a.Search.Suggest(args.Query)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("suggest", names).Print()
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

// =============================================================================
// REMOVE / REINDEX
// =============================================================================

// HandleRemove removes an indexed folder.
func HandleRemove(a *app.App, args Args) error {
	if args.Path == "" {
		return ErrMissingArgument("folder", "filedex remove ~/Documents")
	}
	n, err := a.RemoveIndexedFolder(args.Path)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("remove", map[string]any{"removed": n}).Print()
	}
	fmt.Printf("%s removed %d file(s) from the index\n", SuccessStyle.Render("Done:"), n)
	return nil
}

// HandleReindex re-runs the pipeline for a single file.
func HandleReindex(a *app.App, args Args) error {
	if args.Path == "" {
		return ErrMissingArgument("file", "filedex reindex ~/Documents/notes.md")
	}
	if err := a.Index.ReindexFile(args.Path); err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("reindex", map[string]any{"path": args.Path}).Print()
	}
	if !args.Quiet {
		fmt.Printf("%s %s\n", SuccessStyle.Render("Reindexed:"), PathStyle.Render(args.Path))
	}
	return nil
}

// =============================================================================
// STATS / LOGS
// =============================================================================

// HandleStats prints index statistics.
func HandleStats(a *app.App, args Args) error {
	stats, err := a.Index.Stats()
	if err != nil {
		return err
	}
	lastFolder, err := a.LastIndexedFolder()
	if err != nil {
		return err
	}

	if args.JSON {
		data := StatsData{
			TotalFiles: stats.TotalFiles,
			TotalSize:  stats.TotalSize,
			State:      stats.State.String(),
			Database:   a.Store.Path(),
			LastFolder: lastFolder,
		}
		if !stats.LastIndexed.IsZero() {
			data.LastIndexed = stats.LastIndexed.UTC().Format(time.RFC3339)
		}
		return NewJSONResponse("stats", data).Print()
	}

	fmt.Println(TitleStyle.Render("Index Statistics"))
	fmt.Printf("%s %d\n", RenderLabel("Files:"), stats.TotalFiles)
	fmt.Printf("%s %s\n", RenderLabel("Total size:"), util.FormatBytes(stats.TotalSize))
	fmt.Printf("%s %s\n", RenderLabel("State:"), stats.State.String())
	if lastFolder != "" {
		fmt.Printf("%s %s\n", RenderLabel("Last folder:"), PathStyle.Render(lastFolder))
	}
	if !stats.LastIndexed.IsZero() {
		fmt.Printf("%s %s\n", RenderLabel("Last indexed:"),
			stats.LastIndexed.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("%s %s\n", RenderLabel("Database:"), DimStyle.Render(a.Store.Path()))
	return nil
}

// HandleLogs prints recent diagnostic log entries.
func HandleLogs(a *app.App, args Args) error {
	limit := args.Limit
	if limit <= 0 {
		limit = 50
	}
	entries, err := a.Store.GetLogs(limit)
	if err != nil {
		return err
	}

	if args.JSON {
		data := make([]LogEntryData, 0, len(entries))
		for _, e := range entries {
			data = append(data, LogEntryData{
				ID: e.ID, Level: e.Level, Message: e.Message,
				Details: e.Details, Timestamp: e.Timestamp,
			})
		}
		return NewJSONResponse("logs", data).Print()
	}

	for _, e := range entries {
		level := DimStyle
		switch e.Level {
		case "error":
			level = ErrorStyle
		case "warn":
			level = WarningStyle
		}
		line := fmt.Sprintf("%s %-5s %s",
			time.Unix(e.Timestamp, 0).Format("2006-01-02 15:04:05"),
			e.Level, e.Message)
		fmt.Println(level.Render(line))
		if args.Verbose && e.Details != "" {
			fmt.Printf("    %s\n", DimStyle.Render(e.Details))
		}
	}
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

// HandleConfig shows or updates stored settings.
func HandleConfig(a *app.App, args Args) error {
	switch args.Subcommand {
	case "", "show":
		settings, err := a.GetSettings("lastIndexedFolder", "ocrLanguages", "search", "theme")
		if err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("config", settings).Print()
		}
		fmt.Println(TitleStyle.Render("Stored Settings"))
		if len(settings) == 0 {
			fmt.Println(DimStyle.Render("No settings stored."))
			return nil
		}
		for key, value := range settings {
			data, _ := json.Marshal(value)
			fmt.Printf("%s %s\n", RenderLabel(key+":"), string(data))
		}
		return nil

	case "get":
		if args.ConfigKey == "" {
			return ErrMissingArgument("key", "filedex config get ocrLanguages")
		}
		settings, err := a.GetSettings(args.ConfigKey)
		if err != nil {
			return err
		}
		value, ok := settings[args.ConfigKey]
		if !ok {
			return &NotFoundError{Resource: "setting", ID: args.ConfigKey}
		}
		if args.JSON {
			return NewJSONResponse("config", map[string]any{args.ConfigKey: value}).Print()
		}
		data, _ := json.Marshal(value)
		fmt.Println(string(data))
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return ErrMissingArgument("key/value", `filedex config set ocrLanguages '["eng","deu"]'`)
		}
		var value any
		if err := json.Unmarshal([]byte(args.ConfigVal), &value); err != nil {
			value = args.ConfigVal // plain string
		}
		if err := a.UpdateSettings(app.Settings{args.ConfigKey: value}); err != nil {
			return err
		}
		if !args.Quiet && !args.JSON {
			fmt.Printf("%s %s\n", SuccessStyle.Render("Saved:"), args.ConfigKey)
		}
		if args.JSON {
			return NewJSONResponse("config", map[string]any{args.ConfigKey: value}).Print()
		}
		return nil

	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand,
			Reason:  "unknown config subcommand",
			Example: "filedex config [show|get|set]",
		}
	}
}

// =============================================================================
// MAINTENANCE / SHELL INTEGRATION
// =============================================================================

// HandleVacuum compacts the database and refreshes planner statistics.
func HandleVacuum(a *app.App, args Args) error {
	if err := a.Store.Vacuum(); err != nil {
		return err
	}
	if err := a.Store.Analyze(); err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("vacuum", map[string]any{"database": a.Store.Path()}).Print()
	}
	if !args.Quiet {
		fmt.Printf("%s %s\n", SuccessStyle.Render("Compacted:"), a.Store.Path())
	}
	return nil
}

// HandleExport runs a query and writes the results to a file in the
// requested format.
func HandleExport(a *app.App, args Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return ErrMissingArgument("query", `filedex export "quarterly report" --format md`)
	}

	exporter, err := export.ForFormat(args.Format, nil)
	if err != nil {
		return &ValidationError{
			Field:   "format",
			Value:   args.Format,
			Reason:  "unsupported export format",
			Example: "filedex export invoice --format csv",
		}
	}

	opts := search.Options{
		Text:     args.Query,
		Fuzzy:    args.Fuzzy,
		Semantic: args.Semantic,
		Limit:    args.Limit,
	}
	if len(args.Types) > 0 {
		opts.Filters.FileTypes = args.Types
	}
	if args.Folder != "" {
		opts.Filters.Folders = []string{args.Folder}
	}

	results, err := a.Search.Search(opts)
	if err != nil {
		return err
	}

	path, err := export.ExportToFile(args.Query, results, exporter, nil)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("export", map[string]any{
			"path":  path,
			"count": len(results),
		}).Print()
	}
	if !args.Quiet {
		fmt.Printf("%s %s (%s)\n",
			SuccessStyle.Render("Exported:"), path,
			util.FormatCount(len(results), "result", "results"))
	}
	return nil
}

// HandleOpen opens a file with the platform's default handler.
func HandleOpen(a *app.App, args Args) error {
	if args.Path == "" {
		return ErrMissingArgument("file", "filedex open ~/Documents/notes.md")
	}
	return a.OpenFile(args.Path)
}

// HandleReveal shows a file in the platform file manager.
func HandleReveal(a *app.App, args Args) error {
	if args.Path == "" {
		return ErrMissingArgument("file", "filedex reveal ~/Documents/notes.md")
	}
	return a.RevealFile(args.Path)
}
