// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - Login and logout command handlers for the kisan CLI.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/krishiuday/kisan-tui/internal/identity"
	"github.com/krishiuday/kisan-tui/internal/model"
)

// readLine prompts and reads one trimmed line from stdin.
func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(promptStyle.Render(prompt))
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readCode reads the one-time code without echoing it, falling back to a
// plain read when stdin is not a terminal (piped input in tests/scripts).
func readCode(reader *bufio.Reader) (string, error) {
	fmt.Print(promptStyle.Render("Verification code: "))
	if term.IsTerminal(int(os.Stdin.Fd())) {
		code, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(code)), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// HandleLogin runs the phone-verification flow on the terminal.
func HandleLogin(args Args) {
	env, err := BuildEnv(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	defer env.Close()

	if env.Gate.Authenticated() {
		fmt.Printf("Already signed in as %s. Run 'kisan logout' first to switch accounts.\n",
			env.Gate.DisplayName())
		return
	}

	// The local provider has no SMS gateway; surface the code on the
	// terminal so development logins still work end to end.
	if local, ok := env.Provider.(*identity.LocalProvider); ok {
		local.Notify = func(_, code string) {
			fmt.Println(infoStyle.Render("Development mode: your code is " + code))
		}
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println(welcomeStyle.Render("Sign in to Kisan Sahayak"))
	fmt.Println()

	country, err := readLine(reader, "Country code [+91]: ")
	if err != nil {
		return
	}
	if country == "" {
		country = "+91"
	}
	number, err := readLine(reader, "Phone number: ")
	if err != nil {
		return
	}
	number = strings.ReplaceAll(number, " ", "")
	if !identity.ValidNumber(country, number) {
		fmt.Fprintln(os.Stderr, errorStyle.Render("That does not look like a valid phone number."))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	challenge, err := env.Provider.InitiateChallenge(ctx, identity.FullNumber(country, number))
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("[Error]"), loginFailureText(err))
		os.Exit(1)
	}
	fmt.Println(infoStyle.Render("A verification code was sent to your phone."))

	var confirmation *identity.Confirmation
	for attempt := 0; attempt < 3; attempt++ {
		code, err := readCode(reader)
		if err != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		confirmation, err = env.Provider.ConfirmChallenge(ctx, challenge, code)
		cancel()
		if err == nil {
			break
		}
		confirmation = nil
		fmt.Fprintln(os.Stderr, errorStyle.Render(loginFailureText(err)))
		if errors.Is(err, identity.ErrExpired) {
			os.Exit(1)
		}
	}
	if confirmation == nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Too many wrong codes. Run 'kisan login' to try again."))
		os.Exit(1)
	}

	firstName, err := readLine(reader, "First name (optional): ")
	if err != nil {
		return
	}
	lastName, err := readLine(reader, "Last name (optional): ")
	if err != nil {
		return
	}

	profile := model.UserProfile{
		CountryCode: country,
		PhoneNumber: number,
		FirstName:   firstName,
		LastName:    lastName,
	}
	if err := env.Gate.CompleteLogin(&profile); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(statusOKStyle.Render("Signed in as " + env.Gate.DisplayName()))
}

// loginFailureText maps verification errors to farmer-readable messages.
func loginFailureText(err error) string {
	switch {
	case errors.Is(err, identity.ErrInvalidNumber):
		return "That phone number was rejected. Check it and try again."
	case errors.Is(err, identity.ErrInvalidCode):
		return "Incorrect code. Try again."
	case errors.Is(err, identity.ErrExpired):
		return "That code expired. Run 'kisan login' to request a new one."
	case errors.Is(err, identity.ErrTooManyRequests):
		return "Too many attempts. Please wait a while and try again."
	case errors.Is(err, identity.ErrConfigError), errors.Is(err, identity.ErrDomainUnauthorized):
		return "Verification service is misconfigured. Check your identity settings."
	default:
		return "Could not verify right now: " + err.Error()
	}
}

// HandleLogout clears the signed-in session. The chat transcript and cached
// advisory stay on the device so they survive the next login.
func HandleLogout(args Args) {
	env, err := BuildEnv(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	defer env.Close()

	if !env.Gate.Authenticated() {
		fmt.Println("Not signed in.")
		return
	}

	name := env.Gate.DisplayName()
	if err := env.Gate.Logout(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	fmt.Println(statusOKStyle.Render("Signed out " + name + "."))
}
