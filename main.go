package main

import (
	"embed"
	"io/fs"

	log "github.com/sirupsen/logrus"

	cmd "github.com/webhook-reporter/webhook-reporter/cmd/reporter"
	"github.com/webhook-reporter/webhook-reporter/internal/assets"
)

//go:embed data/templates
var vfs embed.FS

func main() {
	data, err := fs.Sub(vfs, "data")
	if err != nil {
		log.Fatal(err)
	}
	assets.UpdateData(data)
	cmd.Execute()
}
