package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moonpull/moonpull-web/internal/guard"
	"github.com/moonpull/moonpull-web/internal/prompt"
)

func newOpenCmd() *cobra.Command {
	var loginID, password string

	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open a page, asking to sign in first if it is members-only",
		Long: `Open evaluates the local session for the page at <path>.

When signed in the page URL is printed. Otherwise a login prompt is shown:
answer "l" to go to the login page (returning to <path> afterwards) or
anything else to go back home.

With --login-id, answering "l" signs in right here instead and opens <path>
once the session is established.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			var target string
			nav := prompt.NavigatorFunc(func(t string) { target = t })

			var p *prompt.Prompt
			tracker := guard.NewTracker(holder, func(s guard.State) {
				// Signing in while the prompt is shown lands on the page itself
				if s == guard.Granted && p != nil && p.Open() {
					p.Close()
					nav.Navigate(path)
				}
			})
			defer tracker.Stop()

			in := bufio.NewReader(cmd.InOrStdin())

			switch tracker.State() {
			case guard.Granted:
				nav.Navigate(path)
			case guard.Denied:
				p = prompt.New(path, nav)

				var signIn func() error
				if loginID != "" {
					signIn = func() error {
						return signInHere(cmd, in, loginID, password)
					}
				}
				if err := askLogin(cmd.ErrOrStderr(), in, p, signIn); err != nil {
					return err
				}
			default:
				return errors.New("session check has not completed")
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(OpenResult{
				Path:   path,
				State:  tracker.State().String(),
				Target: target,
				URL:    strings.TrimSuffix(cfg.ServerURL, "/") + target,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&loginID, "login-id", "", "Sign in as this login id when the page needs it")
	cmd.Flags().StringVar(&password, "password", "", "Password for --login-id (env: MOONPULL_PASSWORD)")

	return cmd
}

// askLogin shows the prompt on w and resolves it from one line of r.
// A nil signIn sends "login" answers to the login page.
func askLogin(w io.Writer, r io.Reader, p *prompt.Prompt, signIn func() error) error {
	fmt.Fprintln(w, "Login required")
	fmt.Fprintf(w, "%s is only available to signed-in members.\n", p.RequestedPath())
	fmt.Fprint(w, "[l]ogin / [c]ancel: ")

	answer, err := readLine(r)
	if err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "l", "login":
		if signIn != nil {
			return signIn()
		}
		p.Proceed()
	default:
		p.Dismiss()
	}
	return nil
}

// signInHere logs in and stores the token. The holder change is what
// closes the prompt.
func signInHere(cmd *cobra.Command, r io.Reader, loginID, flagPassword string) error {
	pw, err := readPassword(cmd.ErrOrStderr(), r, flagPassword)
	if err != nil {
		return err
	}

	me, token, err := client.Login(cmd.Context(), loginID, pw)
	if err != nil {
		return err
	}
	if err := cfg.SaveToken(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	profile := me.Profile()
	holder.Login(profile.Nickname, profile.Role)
	return nil
}
