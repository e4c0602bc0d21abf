package bootstrap

import (
	"github.com/hashicorp/go-multierror"

	"github.com/onevibe0405/Ferry/internal/database"
	"github.com/onevibe0405/Ferry/internal/logging"
)

// Shutdown force-writes the store and closes everything that holds a
// handle. It keeps going past individual failures.
func Shutdown(c *Components) error {
	logging.Info("Starting graceful shutdown...")
	var result *multierror.Error

	if c.Store != nil {
		logging.Info("Saving data...")
		if err := c.Store.Persist(true); err != nil {
			logging.Error("Final save failed: %v", err)
			result = multierror.Append(result, err)
		}
	}

	if c.Session != nil {
		logging.Info("Closing Discord session...")
		if err := c.Session.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if c.DB != nil {
		logging.Info("Closing database...")
		if err := database.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	logging.Info("Graceful shutdown complete")
	if err := logging.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
