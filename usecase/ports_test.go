package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("", "anything"))
	assert.True(t, ContainsFold("  ", ""))
	assert.True(t, ContainsFold("CRASH", "App crashes on login"))
	assert.True(t, ContainsFold("login", "title", "Login page blank"))
	assert.False(t, ContainsFold("logout", "App crashes on login"))
	assert.False(t, ContainsFold("x"))
}
