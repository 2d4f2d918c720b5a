package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/apigovau/service-catalogue/internal/config"
	"github.com/apigovau/service-catalogue/pkg/catalogue"
)

// Server contains the server configuration.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// DB is the database for the server. Nil when running on the in-memory
	// repository.
	DB *gorm.DB

	// Store is the revisioned document store all handlers operate through.
	Store *catalogue.Store

	// Logger is the logger for the server.
	Logger hclog.Logger
}
