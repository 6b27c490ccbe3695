package main

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fsdevblog/notes/internal/bmeta"
	"github.com/fsdevblog/notes/internal/client/api"
	"github.com/fsdevblog/notes/internal/client/composer"
	"github.com/fsdevblog/notes/internal/client/config"
	"github.com/fsdevblog/notes/internal/client/kv"
	"github.com/fsdevblog/notes/internal/client/reservation"
)

// session общие зависимости команд, создаются перед запуском команды.
type session struct {
	conf   *config.Config
	logger *logrus.Logger
	store  *kv.SQLite
	api    *api.Client

	in  io.Reader
	out io.Writer
}

// composer собирает автомат публикации. Резервирование нужно закрыть по завершении.
func (s *session) composer(editor composer.Editor, nav composer.Navigator) (*composer.Composer, *reservation.Reservation) {
	res := reservation.New(s.api, s.logger, reservation.WithDebounce(s.conf.CheckDebounce))
	return composer.New(composer.Params{
		API:         s.api,
		Reservation: res,
		Store:       s.store,
		Editor:      editor,
		Navigator:   nav,
		Logger:      s.logger,
	}), res
}

func (s *session) close() {
	if s.store != nil {
		_ = s.store.Close()
		s.store = nil
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return buildRootCmd(&session{in: in, out: out}, errOut)
}

func buildRootCmd(s *session, errOut io.Writer) *cobra.Command {
	var (
		apiURL  string
		profile string
		verbose bool
	)

	root := &cobra.Command{
		Use:           "notes",
		Short:         "Publish notes under short URLs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api") {
				conf.APIURL = apiURL
			}
			if cmd.Flags().Changed("profile") {
				conf.Profile = profile
			}
			conf.Verbose = conf.Verbose || verbose
			s.conf = conf
			s.logger = config.NewLogger(errOut, conf.Verbose)

			path, err := conf.ProfilePath()
			if err != nil {
				return err
			}
			if s.store, err = kv.NewSQLite(path); err != nil {
				return err
			}
			s.logger.WithField("profile", path).Debug("profile opened")

			if s.api, err = api.New(conf.APIURL, s.logger); err != nil {
				// PersistentPostRun после ошибки не вызывается
				s.close()
				return err //nolint:wrapcheck
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			s.close()
		},
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&apiURL, "api", config.DefaultAPIURL, "notes API base URL (env NOTES_API_URL)")
	root.PersistentFlags().StringVar(&profile, "profile", config.DefaultProfile, "local profile name (env NOTES_PROFILE)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newCheckCmd(s),
		newCreateCmd(s),
		newViewCmd(s),
		newEditCmd(s),
		newReplyCmd(s),
		newHistoryCmd(s),
		newListCmd(s),
		newWhoamiCmd(s),
		newVersionCmd(s.out),
	)
	return root
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// профиль и API для версии не нужны
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(*cobra.Command, []string) {
			bmeta.Print(out, buildVersion, buildDate, buildCommit)
		},
	}
}

// readContent читает содержимое заметки из файла, "-" или пустой путь означает stdin.
func readContent(in io.Reader, path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == "" || path == "-" {
		raw, err = io.ReadAll(in)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(err, "read note content")
	}
	return strings.TrimSpace(string(raw)), nil
}
