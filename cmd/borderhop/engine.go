package main

import (
	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/client"
	"github.com/persistorai/borderhop/internal/borders"
	"github.com/persistorai/borderhop/internal/config"
	"github.com/persistorai/borderhop/internal/directory"
	"github.com/persistorai/borderhop/internal/service"
)

// engine is the in-process search stack used by route and countries.
type engine struct {
	api    *client.Client
	dir    *directory.Directory
	routes *service.RouteService
}

func newEngine(log *logrus.Logger) *engine {
	api := client.New(flagURL,
		client.WithTimeout(flagTimeout),
		client.WithUserAgent("borderhop-cli/"+config.Version),
	)
	resolver := borders.New(api.Countries, log, borders.WithRate(flagRate, borders.DefaultBurst))
	dir := directory.New(api.Countries, log)

	return &engine{
		api:    api,
		dir:    dir,
		routes: service.NewRouteService(dir, resolver, log, service.WithMaxHops(flagMaxHops)),
	}
}
