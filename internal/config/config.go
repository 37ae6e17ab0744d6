package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const (
	StorageBackendCsv      = "csv"
	StorageBackendPostgres = "postgres"
)

type Application struct {
	Addr     string   `koanf:"addr"`
	Storage  Storage  `koanf:"storage"`
	Session  Session  `koanf:"session"`
	Database Database `koanf:"db"`
}

type Storage struct {
	Backend         string `koanf:"backend"`
	DataFile        string `koanf:"datafile"`
	DirectoryFile   string `koanf:"directoryfile"`
	CredentialsFile string `koanf:"credentialsfile"`
}

type Session struct {
	CookieName string        `koanf:"cookiename"`
	TTL        time.Duration `koanf:"ttl"`
	Secure     bool          `koanf:"secure"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func defaults() Application {
	return Application{
		Addr: ":8181",
		Storage: Storage{
			Backend:         StorageBackendCsv,
			DataFile:        "data.csv",
			DirectoryFile:   "center_students.csv",
			CredentialsFile: "center_admins.csv",
		},
		Session: Session{
			CookieName: "adjustments_session",
			TTL:        12 * time.Hour,
			Secure:     false,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "adjustments",
			Pass:   "",
			Name:   "adjustments",
			Schema: "adjustments",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "ADJUSTMENTS_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "ADJUSTMENTS_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
