package cmd_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekeep/storekeep/pkg/cli/cmd"
)

func TestNewServeCmdFlagDefaults(t *testing.T) {
	t.Parallel()

	serve := cmd.NewServeCmd()

	tests := []struct {
		flag string
		want string
	}{
		{flag: "listen", want: ":3000"},
		{flag: "data-file", want: "data/stores.json"},
		{flag: "chart", want: "helm/store"},
		{flag: "kubeconfig", want: ""},
		{flag: "context", want: ""},
	}

	for _, test := range tests {
		flag := serve.Flags().Lookup(test.flag)
		require.NotNil(t, flag, "flag %q not registered", test.flag)
		assert.Equal(t, test.want, flag.DefValue, "flag %q default", test.flag)
	}

	timeout, err := serve.Flags().GetDuration("install-timeout")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, timeout)
}

func TestNewServeCmdRejectsArgs(t *testing.T) {
	t.Parallel()

	serve := cmd.NewServeCmd()
	serve.SetArgs([]string{"unexpected"})

	err := serve.Execute()
	require.Error(t, err)
}
