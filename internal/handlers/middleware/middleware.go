package middleware

import (
	"gamecatalog/config"
)

type Middleware struct {
	Config config.Config
}

func New(config config.Config) Middleware {
	return Middleware{
		Config: config,
	}
}
