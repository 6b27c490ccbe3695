package main

import (
	"os"

	"github.com/fsdevblog/notes/internal/app"
	"github.com/fsdevblog/notes/internal/app/config"
	"github.com/fsdevblog/notes/internal/bmeta"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	appConf := config.MustLoadConfig(os.Args[1:])
	if appConf.ShowVersion {
		bmeta.Print(os.Stdout, buildVersion, buildDate, buildCommit)
		return
	}

	a := app.Must(app.New(*appConf))

	a.Logger.WithField("config", appConf).Info("Starting server")
	if err := a.Run(); err != nil {
		a.Logger.WithError(err).Fatal("server stopped with error")
	}
}
