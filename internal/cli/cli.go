// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for kisan.
package cli

import (
	"fmt"
	"os"
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
	CmdChat
	CmdStatus
	CmdLogin
	CmdLogout
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet    bool
	Verbose  bool
	Model    string // Override generation model
	Language string // Override advisory/chat language

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `kisan - a farming assistant for the terminal

Kisan Sahayak brings crop advisories, mandi prices, and an AI farming
assistant to the command line. Chat messages written while offline are
queued locally and delivered when connectivity returns.

Usage:
  kisan                      Start the full-screen TUI (default)
  kisan chat                 Interactive chat in the terminal
  kisan login                Sign in with your phone number
  kisan logout               Sign out on this device
  kisan status, s            Show connectivity, account, and queue status
  kisan config [show|init]   Configuration
  kisan version              Show version information
  kisan help                 Show this help

Chat Commands (during chat):
  /pending                   Show messages waiting to be sent
  /sync                      Try to deliver queued messages now
  /history                   Show the full conversation
  /quit, /q                  Exit chat
  Ctrl+D                     Exit chat

Global Flags:
  -q, --quiet                Minimal output
  -v, --verbose              Debug output
  --model NAME               Override the generation model
  --language NAME            Override the advisory/chat language

Environment:
  GEMINI_API_KEY             Generative API key (required for replies)
  KISAN_IDENTITY_PROVIDER    "local" (dev codes) or "rest"
  KISAN_DB_PATH              Database file (default ~/.kisan/kisan.db)

Examples:
  kisan                      Open the dashboard
  kisan login                Sign in before first use
  kisan chat                 Ask about crops, weather, or schemes
  kisan status               Check whether queued messages remain
  kisan config init          Write a default config file

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("kisan version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split from Parse for testing.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	// No remaining args: default to the TUI.
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining
	if len(remaining) > 0 {
		parsed.Subcommand = remaining[0]
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "chat":
		return CmdChat, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "login", "signin":
		return CmdLogin, parsed

	case "logout", "signout":
		return CmdLogout, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "-V", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags, returning the remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	remaining := make([]string, 0, len(argv))

	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--model", "-m":
			if i+1 < len(argv) {
				args.Model = argv[i+1]
				i++
			}
		case "--language":
			if i+1 < len(argv) {
				args.Language = argv[i+1]
				i++
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--model="):
				args.Model = strings.TrimPrefix(arg, "--model=")
			case strings.HasPrefix(arg, "--language="):
				args.Language = strings.TrimPrefix(arg, "--language=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, args
}

// parseConfigArgs parses "config show", "config init", "config set KEY VAL".
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = remaining[0]
	if args.Subcommand == "set" && len(remaining) >= 3 {
		args.ConfigKey = remaining[1]
		args.ConfigVal = remaining[2]
	}
}
