// ABOUTME: Login and logout commands for scripted use
// ABOUTME: Prompts for the password when it is not piped in

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long:  `Sign in to Firefly and store the session locally so other commands and the TUI start authenticated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runLogin(ctx, os.Stdin, os.Stdout)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		s, err := newStack()
		if err != nil {
			return err
		}
		s.manager.Logout(ctx)
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(ctx context.Context, in io.Reader, out io.Writer) error {
	s, err := newStack()
	if err != nil {
		return err
	}

	email := strings.TrimSpace(loginEmail)
	var password string

	if stat, statErr := os.Stdin.Stat(); statErr == nil && stat.Mode()&os.ModeCharDevice == 0 {
		// Piped input: first line email (unless flagged), next line password
		reader := bufio.NewReader(in)
		if email == "" {
			line, readErr := reader.ReadString('\n')
			if readErr != nil && readErr != io.EOF {
				return readErr
			}
			email = strings.TrimSpace(line)
		}
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return readErr
		}
		password = strings.TrimSpace(line)
	} else {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		))
		if err := form.RunWithContext(ctx); err != nil {
			return err
		}
	}

	if err := s.manager.Login(ctx, email, password); err != nil {
		return fmt.Errorf("sign-in failed: %s", s.manager.Session().Snapshot().Err)
	}

	sess := s.manager.Session().Snapshot()
	name := email
	if sess.User != nil && sess.User.DisplayName != "" {
		name = sess.User.DisplayName
	}
	fmt.Fprintf(out, "Signed in as %s.\n", name)
	return nil
}
