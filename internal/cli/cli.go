// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for filedex.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdIndex
	CmdSearch
	CmdSuggest
	CmdShell
	CmdRemove
	CmdReindex
	CmdStats
	CmdLogs
	CmdConfig
	CmdVacuum
	CmdExport
	CmdOpen
	CmdReveal
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Search flags
	Fuzzy    bool
	Semantic bool
	Types    []string // --type .md,.txt
	Folder   string   // --folder PATH
	Limit    int      // --limit N

	// Command-specific
	Query      string
	Path       string
	Format     string // --format json|md|csv
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `filedex - local file indexing and full-text search

Filedex indexes a folder's documents, source files and images (via OCR)
into a local SQLite full-text index, keeps the index fresh with a file
system watcher, and answers ranked search queries with snippets.

Usage:
  filedex                          Start TUI (default)
  filedex index <folder>           Index a folder and watch for changes
  filedex search "query"           Search the index
  filedex suggest <partial>        Suggest file names for a partial query
  filedex shell                    Interactive search shell
  filedex remove <folder>          Remove a folder from the index
  filedex reindex <file>           Re-run the pipeline for one file
  filedex stats                    Show index statistics
  filedex logs [--limit N]         Show the diagnostic log
  filedex config [get|set|show]    Stored settings
  filedex vacuum                   Compact the index database
  filedex export "query"           Export results to a file (--format json|md|csv)
  filedex open <file>              Open a file with the default handler
  filedex reveal <file>            Reveal a file in the file manager
  filedex version                  Show version information

Search Flags:
  --fuzzy                Proximity/prefix matching instead of exact phrase
  --semantic             Accepted for compatibility; ranks by text relevance
  --type .md,.txt        Restrict to extensions
  --folder PATH          Restrict to an indexed folder
  --limit N              Result cap (default 50, which is also the maximum)

Global Flags:
  -q, --quiet     Minimal output
  -v, --verbose   Debug output
  --json          Output in JSON format

Examples:
  filedex index ~/Documents
  filedex search "quarterly report" --type .md,.docx
  filedex search invoice --fuzzy --limit 10
  filedex suggest repo
  filedex config set ocrLanguages '["eng","deu"]'
  filedex logs --limit 20 --json

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("filedex version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "index", "watch":
		if len(remaining) > 0 {
			parsedArgs.Path = remaining[0]
		}
		return CmdIndex, parsedArgs

	case "search", "find":
		parseSearchArgs(&parsedArgs, remaining)
		return CmdSearch, parsedArgs

	case "suggest", "complete":
		parsedArgs.Query = strings.Join(remaining, " ")
		return CmdSuggest, parsedArgs

	case "shell", "repl":
		return CmdShell, parsedArgs

	case "remove", "rm":
		if len(remaining) > 0 {
			parsedArgs.Path = remaining[0]
		}
		return CmdRemove, parsedArgs

	case "reindex":
		if len(remaining) > 0 {
			parsedArgs.Path = remaining[0]
		}
		return CmdReindex, parsedArgs

	case "stats", "status", "s":
		return CmdStats, parsedArgs

	case "logs", "log":
		parseLogsArgs(&parsedArgs, remaining)
		return CmdLogs, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "vacuum", "compact":
		return CmdVacuum, parsedArgs

	case "export":
		parseExportArgs(&parsedArgs, remaining)
		return CmdExport, parsedArgs

	case "open":
		if len(remaining) > 0 {
			parsedArgs.Path = remaining[0]
		}
		return CmdOpen, parsedArgs

	case "reveal":
		if len(remaining) > 0 {
			parsedArgs.Path = remaining[0]
		}
		return CmdReveal, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: treat it as a search query.
		parseSearchArgs(&parsedArgs, append([]string{cmd}, remaining...))
		return CmdSearch, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for _, arg := range args {
		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsedArgs
}

// parseSearchArgs parses search command specific arguments.
func parseSearchArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--fuzzy", "-f":
			args.Fuzzy = true
		case "--semantic":
			args.Semantic = true
		case "--type", "-t":
			if i+1 < len(remaining) {
				i++
				args.Types = splitTypes(remaining[i])
			}
		case "--folder":
			if i+1 < len(remaining) {
				i++
				args.Folder = remaining[i]
			}
		case "--limit", "-n":
			if i+1 < len(remaining) {
				i++
				if n, err := strconv.Atoi(remaining[i]); err == nil && n > 0 {
					args.Limit = n
				}
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--type="):
				args.Types = splitTypes(strings.TrimPrefix(arg, "--type="))
			case strings.HasPrefix(arg, "--folder="):
				args.Folder = strings.TrimPrefix(arg, "--folder=")
			case strings.HasPrefix(arg, "--limit="):
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--limit=")); err == nil && n > 0 {
					args.Limit = n
				}
			case !strings.HasPrefix(arg, "-"):
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// splitTypes normalizes a comma-separated extension list, adding the
// leading dot when missing.
func splitTypes(v string) []string {
	var types []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		types = append(types, part)
	}
	return types
}

// parseExportArgs parses export command specific arguments. The export
// command accepts all search flags plus --format.
func parseExportArgs(args *Args, remaining []string) {
	var rest []string
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--format":
			if i+1 < len(remaining) {
				i++
				args.Format = remaining[i]
			}
		case strings.HasPrefix(arg, "--format="):
			args.Format = strings.TrimPrefix(arg, "--format=")
		default:
			rest = append(rest, arg)
		}
	}
	parseSearchArgs(args, rest)
	if args.Format == "" {
		args.Format = "json"
	}
}

// parseLogsArgs parses logs command specific arguments.
func parseLogsArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--limit" || arg == "-n":
			if i+1 < len(remaining) {
				i++
				if n, err := strconv.Atoi(remaining[i]); err == nil && n > 0 {
					args.Limit = n
				}
			}
		case strings.HasPrefix(arg, "--limit="):
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--limit=")); err == nil && n > 0 {
				args.Limit = n
			}
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		resp := NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		})
		resp.Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
