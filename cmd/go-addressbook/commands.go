package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-addressbook/internal/assistant"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/server"
	"github.com/tartampluch/go-addressbook/internal/store"
	"github.com/zalando/go-keyring"
)

// cli holds the state shared by every sub-command once PersistentPreRunE
// has run.
type cli struct {
	settingsPath string
	debug        bool
	showVersion  bool

	settings  *config.Settings
	logCloser io.Closer
}

func (c *cli) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close() // Best effort close
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           config.BinaryName,
		Short:         config.CmdShortRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.showVersion {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return c.runAssistant(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVar(&c.settingsPath, config.FlagConfig, "", config.FlagDescConfig)
	root.PersistentFlags().BoolVar(&c.debug, config.FlagDebug, false, config.FlagDescDebug)
	root.Flags().BoolVar(&c.showVersion, config.FlagVersion, false, config.FlagDescVersion)

	root.AddCommand(c.serveCommand(), c.importCommand(), c.exportCommand(), c.loginCommand())
	return root
}

// init configures logging and loads the settings file.
func (c *cli) init() error {
	c.logCloser = setupLogging(c.debug)
	logStartupInfo()

	if c.settingsPath == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			return err
		}
		c.settingsPath = p
	}
	s, err := config.Load(c.settingsPath)
	if err != nil {
		return err
	}
	c.settings = s
	return nil
}

func (c *cli) openStore() (*store.Store, error) {
	path := c.settings.ResolveDatabasePath(c.settingsPath)
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return store.New(path)
}

// withBook loads the directory, lets fn mutate it, and saves it back even
// when fn fails part-way, so completed edits are kept.
func (c *cli) withBook(ctx context.Context, fn func(*contacts.Directory) error) error {
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	book, err := st.Load(ctx)
	if err != nil {
		return err
	}

	fnErr := fn(book)
	// Save with a fresh context: a Ctrl+C that ended fn must not lose edits.
	if err := st.Save(context.WithoutCancel(ctx), book); err != nil {
		return errors.Join(fnErr, err)
	}
	return fnErr
}

func (c *cli) runAssistant(ctx context.Context, in io.Reader, out io.Writer) error {
	return c.withBook(ctx, func(book *contacts.Directory) error {
		bot := assistant.New(book, assistant.NewMessages(c.settings.Language))
		bot.HorizonDays = c.settings.HorizonDays
		err := bot.Run(ctx, in, out)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: config.CmdShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			msgs := assistant.NewMessages(c.settings.Language)
			srv := server.NewFeedServer(c.settings.ServerPort)
			pub := &engine.Publisher{
				Load: st.Load,
				Generator: &engine.Generator{
					Clock:       contacts.RealClock{},
					HorizonDays: c.settings.HorizonDays,
					FormatSummary: func(name string) string {
						return msgs.Get(config.TKeyEvtSummary, map[string]any{"Name": name})
					},
				},
				ReminderTrigger: c.settings.ReminderTrigger,
				Sink:            srv,
				Interval:        time.Duration(c.settings.RefreshInterval) * time.Minute,
			}

			go pub.Run(ctx)
			return srv.Start(ctx)
		},
	}
}

func (c *cli) importCommand() *cobra.Command {
	var file, url, user string
	cmd := &cobra.Command{
		Use:   "import",
		Short: config.CmdShortImport,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := engine.Source{LocalPath: file, WebURL: url, WebUser: user}
			if src.LocalPath == "" && src.WebURL == "" {
				src.WebURL = c.settings.CardDAVURL
			}
			if src.WebUser == "" {
				src.WebUser = c.settings.CardDAVUser
			}
			if src.LocalPath == "" && src.WebUser != "" {
				src.WebPass = lookupPassword(src.WebUser)
			}

			im := &engine.Importer{Fetcher: engine.NewHTTPFetcher()}
			return c.withBook(cmd.Context(), func(book *contacts.Directory) error {
				stats, err := im.Import(cmd.Context(), src, book)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), config.MsgImportSummary, stats.Imported, stats.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, config.FlagFile, "", config.FlagDescFile)
	cmd.Flags().StringVar(&url, config.FlagURL, "", config.FlagDescURL)
	cmd.Flags().StringVar(&user, config.FlagUser, "", config.FlagDescUser)
	cmd.MarkFlagsMutuallyExclusive(config.FlagFile, config.FlagURL)
	return cmd
}

func (c *cli) exportCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: config.CmdShortExport,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			book, err := st.Load(cmd.Context())
			if err != nil {
				return err
			}

			if file == "" {
				return engine.ExportVCards(cmd.OutOrStdout(), book)
			}
			f, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
			if err != nil {
				return err
			}
			if err := engine.ExportVCards(f, book); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&file, config.FlagFile, "", config.FlagDescFile)
	return cmd
}

func (c *cli) loginCommand() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "login",
		Short: config.CmdShortLogin,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				user = c.settings.CardDAVUser
			}
			if user == "" {
				return errors.New(config.FlagDescUser)
			}

			fmt.Fprintf(cmd.OutOrStdout(), config.MsgPasswordPrompt, user)
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%s: %w", config.ErrReadInput, err)
			}
			pass := strings.TrimRight(line, "\r\n")

			if err := keyring.Set(config.KeyringService, user, pass); err != nil {
				return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
			}
			slog.Info(config.MsgPasswordSaved,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyUser, user)

			if c.settings.CardDAVUser != user {
				c.settings.CardDAVUser = user
				return c.settings.Save(c.settingsPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&user, config.FlagUser, "", config.FlagDescUser)
	return cmd
}

// lookupPassword reads the CardDAV password from the keyring. A missing
// entry is not fatal: the server may allow anonymous access.
func lookupPassword(user string) string {
	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.ErrKeyringGet,
			config.LogKeyUser, user,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompMain)
		return ""
	}
	return p
}
