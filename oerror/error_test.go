package oerror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormatsOnlyWithArgs(t *testing.T) {
	assert.Equal(t, "100% stale", New("100% stale").Error())
	assert.Equal(t, "object crate-1 missing", New("object %s missing", "crate-1").Error())
}
