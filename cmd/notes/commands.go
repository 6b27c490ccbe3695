package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fsdevblog/notes/internal/app/utils"
	"github.com/fsdevblog/notes/internal/client/api"
	"github.com/fsdevblog/notes/internal/client/composer"
	"github.com/fsdevblog/notes/internal/client/identity"
	"github.com/fsdevblog/notes/internal/client/ownership"
	"github.com/fsdevblog/notes/internal/client/render"
	"github.com/fsdevblog/notes/internal/client/reservation"
)

const timeLayout = "2006-01-02 15:04"

var (
	errNotFound      = errors.New("note not found")
	errNotEditable   = errors.New("note was created by someone else, use --force to edit anyway")
	errNotAvailable  = errors.New("short url is not available")
	errInvalidParent = errors.New("parent id must be a positive number")
)

// navigation запоминает последний переход.
type navigation struct {
	path string
}

func (n *navigation) Navigate(path string) {
	n.path = path
}

func newCheckCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "check <short-url>",
		Short: "Check whether a short URL can be used",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, res := s.composer(composer.NewBuffer(""), nil)
			defer res.Close()

			c.SetShortURL(args[0])
			state, err := res.WaitSettled(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "wait for availability check")
			}
			if state == reservation.Available {
				_, _ = fmt.Fprintf(s.out, "%s is available\n", args[0])
				return nil
			}
			_, _ = fmt.Fprintf(s.out, "%s: %s\n", args[0], state.Warning())
			return nil
		},
	}
}

func newCreateCmd(s *session) *cobra.Command {
	var (
		shortURL string
		file     string
		expires  string
		parent   int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a note, HTML is read from --file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readContent(s.in, file)
			if err != nil {
				return err
			}
			var parentID *int64
			if cmd.Flags().Changed("parent") {
				if parent <= 0 {
					return errInvalidParent
				}
				parentID = &parent
			}
			if shortURL == "" {
				shortURL = utils.RandomShortURL()
			}

			editor := composer.NewBuffer("")
			nav := new(navigation)
			c, res := s.composer(editor, nav)
			defer res.Close()

			editor.Render(content)
			c.SetShortURL(shortURL)
			state, err := res.WaitSettled(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "wait for availability check")
			}
			if state != reservation.Available {
				return errors.Wrapf(errNotAvailable, "`%s`: %s", shortURL, state.Warning())
			}

			note, err := c.CreateNote(cmd.Context(), composer.Expiration(expires), parentID)
			if err != nil {
				if errors.Is(err, api.ErrConflict) {
					return errors.Wrapf(errNotAvailable, "`%s`: %s", shortURL, res.State().Warning())
				}
				return errors.Wrap(err, c.LastError())
			}

			_, _ = fmt.Fprintf(s.out, "Created %s\n", nav.path)
			if note.ExpiresAt != nil {
				_, _ = fmt.Fprintf(s.out, "Expires at %s\n", note.ExpiresAt.Local().Format(timeLayout))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&shortURL, "url", "u", "", "short URL, random when empty")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file with HTML content, - for stdin")
	cmd.Flags().StringVarP(&expires, "expires", "e", string(composer.DefaultExpiration), "expiration: "+expirationList())
	cmd.Flags().Int64Var(&parent, "parent", 0, "id of the note this one answers")
	return cmd
}

func newViewCmd(s *session) *cobra.Command {
	var (
		raw   bool
		style string
	)
	cmd := &cobra.Command{
		Use:   "view <short-url>",
		Short: "Show a note with its replies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := new(navigation)
			c, res := s.composer(composer.NewBuffer(""), nav)
			defer res.Close()

			view, err := c.Open(cmd.Context(), args[0])
			if nav.path == composer.NotFoundPath {
				s.logger.WithError(err).Debug("open failed")
				return errors.Wrapf(errNotFound, "`%s`", args[0])
			}
			if err != nil {
				return err
			}

			var r *render.Renderer
			if !raw {
				opts := []func(*render.Options){}
				if style != "" {
					opts = append(opts, render.WithStyle(style))
				}
				if r, err = render.New(opts...); err != nil {
					return err
				}
			}
			return printView(s.out, r, view)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print HTML instead of rendering it")
	cmd.Flags().StringVar(&style, "style", "", "glamour style (dark, light, notty), detected when empty")
	return cmd
}

func newEditCmd(s *session) *cobra.Command {
	var (
		file  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "edit <short-url>",
		Short: "Replace note content, HTML is read from --file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(s.in, file)
			if err != nil {
				return err
			}

			nav := new(navigation)
			c, res := s.composer(composer.NewBuffer(""), nav)
			defer res.Close()

			view, err := c.Open(cmd.Context(), args[0])
			if nav.path == composer.NotFoundPath {
				return errors.Wrapf(errNotFound, "`%s`", args[0])
			}
			if err != nil {
				return err
			}
			if !view.CanEdit && !force {
				return errNotEditable
			}

			if _, err := c.UpdateNote(cmd.Context(), args[0], content); err != nil {
				return errors.Wrap(err, c.LastError())
			}
			_, _ = fmt.Fprintf(s.out, "Updated /%s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "file with HTML content, - for stdin")
	cmd.Flags().BoolVar(&force, "force", false, "edit a note created by someone else")
	return cmd
}

func newReplyCmd(s *session) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "reply <short-url>",
		Short: "Answer a note, HTML is read from --file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(s.in, file)
			if err != nil {
				return err
			}

			nav := new(navigation)
			c, res := s.composer(composer.NewBuffer(""), nav)
			defer res.Close()

			view, err := c.Open(cmd.Context(), args[0])
			if nav.path == composer.NotFoundPath {
				return errors.Wrapf(errNotFound, "`%s`", args[0])
			}
			if err != nil {
				return err
			}

			reply, err := c.CreateReply(cmd.Context(), view.Note.ID, content)
			if err != nil {
				if errors.Is(err, composer.ErrEmptyReply) {
					return err
				}
				return errors.Wrap(err, c.LastError())
			}
			_, _ = fmt.Fprintf(s.out, "Replied /%s\n", reply.ShortURL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "file with HTML content, - for stdin")
	return cmd
}

func newHistoryCmd(s *session) *cobra.Command {
	var (
		restore int
		save    bool
	)
	cmd := &cobra.Command{
		Use:   "history <short-url>",
		Short: "List local versions of a note or restore one of them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor := composer.NewBuffer("")
			c, res := s.composer(editor, nil)
			defer res.Close()

			if !cmd.Flags().Changed("restore") {
				versions, err := c.Versions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(versions) == 0 {
					_, _ = fmt.Fprintln(s.out, "No saved versions")
					return nil
				}
				for i, v := range versions {
					parsed := identity.Parse(v.Content)
					_, _ = fmt.Fprintf(s.out, "%d\t%s\t%s\t%s\n",
						i, v.SavedAt.Local().Format(timeLayout), authorOrAnonymous(parsed.Author), preview(parsed.HTML))
				}
				return nil
			}

			staged, err := c.StageVersion(cmd.Context(), args[0], restore)
			if err != nil {
				return err
			}
			if !save {
				_, _ = fmt.Fprintln(s.out, staged)
				return nil
			}
			if _, err := c.UpdateNote(cmd.Context(), args[0], editor.HTML()); err != nil {
				return errors.Wrap(err, c.LastError())
			}
			_, _ = fmt.Fprintf(s.out, "Restored version %d of /%s\n", restore, args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&restore, "restore", 0, "version index to load into the editor buffer")
	cmd.Flags().BoolVar(&save, "save", false, "save the restored version as the note content")
	return cmd
}

func newListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the latest published notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			notes, err := s.api.Latest(cmd.Context())
			if err != nil {
				return err
			}
			for _, note := range notes {
				parsed := identity.Parse(note.Content)
				_, _ = fmt.Fprintf(s.out, "/%s\t%s\t%s\n",
					note.ShortURL, note.CreatedAt.Local().Format(timeLayout), preview(parsed.HTML))
			}
			return nil
		},
	}
}

func newWhoamiCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the local identity and notes created from this profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := identity.GetOrCreate(cmd.Context(), s.store, identity.Random)
			if err != nil {
				return err
			}
			urls, err := ownership.New(s.store).List(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(s.out, "%s (%s)\n", id.Name, id.Color)
			for _, u := range urls {
				_, _ = fmt.Fprintf(s.out, "/%s\n", u)
			}
			return nil
		},
	}
}

func printView(w io.Writer, r *render.Renderer, view *composer.View) error {
	_, _ = fmt.Fprintf(w, "/%s by %s", view.Note.ShortURL, authorOrAnonymous(view.Author))
	if view.CanEdit {
		_, _ = fmt.Fprint(w, " (editable)")
	}
	_, _ = fmt.Fprintln(w)
	if view.Note.ExpiresAt != nil {
		_, _ = fmt.Fprintf(w, "Expires at %s\n", view.Note.ExpiresAt.Local().Format(timeLayout))
	}

	if err := printBody(w, r, view.HTML); err != nil {
		return err
	}
	for _, reply := range view.Replies {
		_, _ = fmt.Fprintf(w, "\n> reply /%s by %s\n", reply.Note.ShortURL, authorOrAnonymous(reply.Author))
		if err := printBody(w, r, reply.HTML); err != nil {
			return err
		}
	}
	return nil
}

func printBody(w io.Writer, r *render.Renderer, html string) error {
	if r == nil {
		_, _ = fmt.Fprintln(w, html)
		return nil
	}
	out, err := r.Terminal(html)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(w, out)
	return nil
}

func authorOrAnonymous(author string) string {
	if author == "" {
		return "anonymous"
	}
	return author
}

// preview первая строка текста без разметки.
func preview(html string) string {
	const maxLen = 60
	text := strings.Join(strings.Fields(stripTags(html)), " ")
	if r := []rune(text); len(r) > maxLen {
		return string(r[:maxLen]) + "..."
	}
	return text
}

func expirationList() string {
	names := make([]string, 0, len(composer.Expirations()))
	for _, e := range composer.Expirations() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}
