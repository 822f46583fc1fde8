package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymentor/advisor/internal/funds"
)

func TestNewRootCmd_RegistersCommands(t *testing.T) {
	table, err := funds.DefaultTable()
	require.NoError(t, err)

	root := NewRootCmd(&App{Advisor: &stubAdvisor{}, Funds: table})

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "chat")
	assert.Contains(t, names, "ask")
	assert.Contains(t, names, "funds")
	assert.Contains(t, names, "sessions")
}

func TestDollars(t *testing.T) {
	assert.Equal(t, "$0", dollars(0))
	assert.Equal(t, "$1,128", dollars(1128))
	assert.Equal(t, "$150,000", dollars(150_000))
	assert.Equal(t, "-$500", dollars(-500))
}

func TestValidateAgeField(t *testing.T) {
	assert.NoError(t, validateAgeField("40"))
	assert.Error(t, validateAgeField("12"))
	assert.Error(t, validateAgeField("a lot"))
}

func TestValidateBalanceField(t *testing.T) {
	assert.NoError(t, validateBalanceField("150k"))
	assert.NoError(t, validateBalanceField("$150,000"))
	assert.Error(t, validateBalanceField("plenty"))
}
