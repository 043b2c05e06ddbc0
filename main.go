// filedex - Local file indexing and full-text search.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/filedex/internal/app"
	"github.com/jeranaias/filedex/internal/cli"
	"github.com/jeranaias/filedex/internal/ui/search"
)

// Version information (set at build time)
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Version and help need no database or config.
	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion(args)
		return
	case cli.CmdHelp:
		cli.HandleHelp()
		return
	}

	a, err := app.New(nil)
	if err != nil {
		cli.HandleErrorAndExit(err, args.JSON)
	}
	defer a.Close()

	// Ctrl+C cancels long-running commands; the index command uses it
	// to stop watching and exit cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dispatch(ctx, a, cmd, args); err != nil {
		cli.HandleErrorAndExit(err, args.JSON)
	}
}

func dispatch(ctx context.Context, a *app.App, cmd cli.Command, args cli.Args) error {
	switch cmd {
	case cli.CmdTUI:
		return search.Run(a)
	case cli.CmdIndex:
		return cli.HandleIndex(ctx, a, args)
	case cli.CmdSearch:
		return cli.HandleSearch(a, args)
	case cli.CmdSuggest:
		return cli.HandleSuggest(a, args)
	case cli.CmdShell:
		return cli.HandleShell(a, args)
	case cli.CmdRemove:
		return cli.HandleRemove(a, args)
	case cli.CmdReindex:
		return cli.HandleReindex(a, args)
	case cli.CmdStats:
		return cli.HandleStats(a, args)
	case cli.CmdLogs:
		return cli.HandleLogs(a, args)
	case cli.CmdConfig:
		return cli.HandleConfig(a, args)
	case cli.CmdVacuum:
		return cli.HandleVacuum(a, args)
	case cli.CmdExport:
		return cli.HandleExport(a, args)
	case cli.CmdOpen:
		return cli.HandleOpen(a, args)
	case cli.CmdReveal:
		return cli.HandleReveal(a, args)
	default:
		cli.HandleHelp()
		return nil
	}
}
