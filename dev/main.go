package main

import (
	devenv "avanza-scraper/dev/env"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const configTemplate = `{
  // credentials of a real account, only used by the live tests
  base_url: "https://avanza.se",
  username: "",
  password: "",
  account_id: "",
}
`

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll("dev/.state/resty", 0777)
	if err != nil && !os.IsExist(err) {
		return err
	}

	configPath, err := devenv.GetStateFilePath(devenv.AvanzaConfigFile)
	if err != nil {
		return err
	}
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		err = os.WriteFile(configPath, []byte(configTemplate), 0600)
		if err != nil {
			return err
		}
	}

	abs, _ := filepath.Abs(configPath)
	slog.Info("fill in credentials to enable the live tests", "config", abs)
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created sucessfully!")
}
