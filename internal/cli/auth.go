package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moonpull/moonpull-web/internal/backend"
)

func newLoginCmd() *cobra.Command {
	var loginID, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in with a login id and password.

The password is read from --password, then MOONPULL_PASSWORD, then a line
of standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(cmd, password)
			if err != nil {
				return err
			}

			me, token, err := client.Login(cmd.Context(), loginID, pw)
			if err != nil {
				return err
			}
			return startSession(cmd, me, token)
		},
	}

	cmd.Flags().StringVar(&loginID, "login-id", "", "Login id (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (env: MOONPULL_PASSWORD)")
	_ = cmd.MarkFlagRequired("login-id")

	return cmd
}

func newJoinCmd() *cobra.Command {
	var loginID, password, nickname string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(cmd, password)
			if err != nil {
				return err
			}

			me, token, err := client.Join(cmd.Context(), loginID, pw, nickname)
			if err != nil {
				return err
			}
			return startSession(cmd, me, token)
		},
	}

	cmd.Flags().StringVar(&loginID, "login-id", "", "Login id (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (env: MOONPULL_PASSWORD)")
	cmd.Flags().StringVar(&nickname, "nickname", "", "Nickname shown to other members (required)")
	_ = cmd.MarkFlagRequired("login-id")
	_ = cmd.MarkFlagRequired("nickname")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Remote failures are logged by the holder and never block the local sign-out
			holder.Logout(cmd.Context())

			if err := cfg.RemoveToken(); err != nil {
				return fmt.Errorf("remove token file: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in member",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output, cmd.OutOrStdout())

			if !holder.IsAuthenticated() {
				out.Print(backend.Me{})
				return nil
			}

			me, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if me.Authenticated {
				p := me.Profile()
				holder.Login(p.Nickname, p.Role)
			}

			out.Print(me)
			return nil
		},
	}
}

func startSession(cmd *cobra.Command, me backend.Me, token string) error {
	if err := cfg.SaveToken(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	p := me.Profile()
	holder.Login(p.Nickname, p.Role)

	out := NewOutput(cfg.Output, cmd.OutOrStdout())
	out.Print(me)
	return nil
}

func resolvePassword(cmd *cobra.Command, flagValue string) (string, error) {
	return readPassword(cmd.ErrOrStderr(), cmd.InOrStdin(), flagValue)
}

// readPassword prefers flagValue, then MOONPULL_PASSWORD, then a line of r
func readPassword(w io.Writer, r io.Reader, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("MOONPULL_PASSWORD"); env != "" {
		return env, nil
	}

	fmt.Fprint(w, "Password: ")
	line, err := readLine(r)
	if err != nil {
		return "", err
	}
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}

// readLine returns the first line of r without its line ending.
// End of input with no data gives an empty line. Pass a *bufio.Reader to
// read several lines from the same input.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
