package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/bobuk/sheetsync/internal/config"
	"github.com/bobuk/sheetsync/internal/store"
)

var googleScopes = []string{gcal.CalendarScope, sheets.SpreadsheetsReadonlyScope}

func oauthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       googleScopes,
	}
}

// usesGoogle reports whether any configured side talks to Google.
func usesGoogle(cfg *config.Config) bool {
	return cfg.Sheet.Provider == "google" || cfg.Calendar.Provider == "google"
}

// googleClient returns an authorized client, from the service account file
// when one is configured and from the stored OAuth token otherwise.
func (a *App) googleClient(ctx context.Context) (*http.Client, error) {
	if a.httpClient != nil {
		return a.httpClient, nil
	}
	client, err := a.newGoogleClient(ctx)
	if err != nil {
		return nil, err
	}
	a.httpClient = client
	return client, nil
}

func (a *App) newGoogleClient(ctx context.Context) (*http.Client, error) {
	if path := a.cfg.Google.CredentialsFile; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		jwt, err := google.JWTConfigFromJSON(data, googleScopes...)
		if err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
		return jwt.Client(ctx), nil
	}

	account := a.cfg.Google.Account
	token, err := a.store.Token(ctx, account)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no token for account %s, run `sheetsync auth` first", account)
	}
	if err != nil {
		return nil, err
	}

	src := &storedTokenSource{
		ctx:     ctx,
		base:    oauthConfig(a.cfg).TokenSource(ctx, token),
		store:   a.store,
		account: account,
		last:    token.AccessToken,
	}
	if _, err := src.Token(); err != nil {
		return nil, fmt.Errorf("refresh token for account %s, run `sheetsync auth` again: %w", account, err)
	}
	return oauth2.NewClient(ctx, src), nil
}

// storedTokenSource persists every refreshed token.
type storedTokenSource struct {
	ctx     context.Context
	base    oauth2.TokenSource
	store   *store.Store
	account string

	mu   sync.Mutex
	last string
}

func (s *storedTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		if err := s.store.SaveToken(s.ctx, s.account, token); err != nil {
			return nil, err
		}
		s.last = token.AccessToken
	}
	return token, nil
}

func getTokenFromWeb(ctx context.Context, conf *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "🔗 Go to the following link in your browser then type the authorization code:\n%v\n", authURL)
	fmt.Fprint(out, "🔑 Code: ")

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("empty authorization code")
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

func (a *App) authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize the Google account and check the calendar is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case !usesGoogle(a.cfg):
				fmt.Fprintln(out, "ℹ️  Nothing to authorize: neither the sheet nor the calendar is on Google")
			case a.cfg.Google.CredentialsFile != "":
				fmt.Fprintf(out, "ℹ️  Using service account from %s\n", a.cfg.Google.CredentialsFile)
			default:
				fmt.Fprintf(out, "🚀 Authorizing account %s...\n", a.cfg.Google.Account)
				token, err := getTokenFromWeb(ctx, oauthConfig(a.cfg), cmd.InOrStdin(), out)
				if err != nil {
					return err
				}
				if err := a.store.SaveToken(ctx, a.cfg.Google.Account, token); err != nil {
					return fmt.Errorf("save token: %w", err)
				}
			}

			provider, err := a.newProvider(ctx)
			if err != nil {
				return err
			}
			if err := provider.GetCalendar(ctx, a.cfg.Calendar.CalendarID); err != nil {
				return fmt.Errorf("check calendar %s: %w", a.cfg.Calendar.CalendarID, err)
			}
			colorOK.Fprintf(out, "✅ Calendar %s is reachable\n", a.cfg.Calendar.CalendarID)
			return nil
		},
	}
}

func (a *App) forgetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Delete the stored OAuth token of the configured account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account := a.cfg.Google.Account
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("⚠️  Are you sure you want to forget the token of %s? (y/N): ", account)) {
				fmt.Fprintln(cmd.OutOrStdout(), "❌ Cancelled")
				return nil
			}

			err := a.store.DeleteToken(cmd.Context(), account)
			if errors.Is(err, store.ErrNotFound) {
				colorWarn.Fprintf(cmd.OutOrStdout(), "❗️ No token stored for %s\n", account)
				return nil
			}
			if err != nil {
				return err
			}
			colorOK.Fprintf(cmd.OutOrStdout(), "✅ Token of %s deleted\n", account)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
