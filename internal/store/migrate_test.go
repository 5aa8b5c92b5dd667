package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/dirk.krummacker/contact-book/internal/config"
)

func TestMigrateUnknownCommand(t *testing.T) {
	err := Migrate(nil, config.Default().MySQL, nil, "sideways", nil)
	assert.ErrorContains(t, err, "unknown migrate command")
}

func TestMigrateForceWithoutVersion(t *testing.T) {
	err := Migrate(nil, config.Default().MySQL, nil, "force", nil)
	assert.ErrorContains(t, err, "requires a version")
}

func TestMigrateForceInvalidVersion(t *testing.T) {
	err := Migrate(nil, config.Default().MySQL, nil, "force", []string{"latest"})
	assert.ErrorContains(t, err, "invalid version")
}
