package bmeta

import (
	"fmt"
	"io"
)

const defaultBuildMeta = "N/A" // Значение по умолчанию

// Print распечатывает версию, дату и комит сборки.
func Print(w io.Writer, version, date, commit string) {
	meta := struct {
		version string
		date    string
		commit  string
	}{
		version: defaultBuildMeta,
		date:    defaultBuildMeta,
		commit:  defaultBuildMeta,
	}
	if version != "" {
		meta.version = version
	}
	if date != "" {
		meta.date = date
	}
	if commit != "" {
		meta.commit = commit
	}

	_, _ = fmt.Fprintf(w, "Build version: %s\n", meta.version)
	_, _ = fmt.Fprintf(w, "Build date: %s\n", meta.date)
	_, _ = fmt.Fprintf(w, "Build commit: %s\n", meta.commit)
}
