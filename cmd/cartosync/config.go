package main

import (
	"context"
	"io"

	"github.com/courseo/cartosync/internal/pkg/application/events"
	"github.com/courseo/cartosync/pkg/types"
	"gopkg.in/yaml.v2"
)

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort
	enableTracing

	policiesFile
	configurationFile

	dbHost
	dbUser
	dbPassword
	dbPort
	dbName
	dbSSLMode

	geocoderURL
)

type appConfig struct {
	Vocabulary    []string                    `yaml:"vocabulary"`
	Styles        []types.StylePreference     `yaml:"styles"`
	Poles         []types.Pole                `yaml:"poles"`
	Notifications []events.NotificationConfig `yaml:"notifications"`

	GeocoderDelayMillis int `yaml:"geocoderDelayMillis"`
}

func parseExternalConfigFile(_ context.Context, cfgFile io.ReadCloser) (*appConfig, error) {
	defer cfgFile.Close()

	b, err := io.ReadAll(cfgFile)
	if err != nil {
		return nil, err
	}

	cfg := &appConfig{}
	err = yaml.Unmarshal(b, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
