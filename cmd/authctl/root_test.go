package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"migrate", "create-admin", "seed-users"} {
		assert.Contains(t, output, sub, "falta el subcomando %q en la ayuda", sub)
	}
}

func TestCreateAdmin_RequiereEmail(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"create-admin"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestSeed_CountNoPositivo(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"cero", []string{"seed-users", "--count", "0"}},
		{"negativo", []string{"seed-users", "--count=-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--count")
		})
	}
}

func TestReadPassword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "línea con salto", input: "Aa1!aaaa\nresto\n", want: "Aa1!aaaa"},
		{name: "CRLF", input: "Aa1!aaaa\r\n", want: "Aa1!aaaa"},
		{name: "sin salto final", input: "Aa1!aaaa", want: "Aa1!aaaa"},
		{name: "vacía", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPassword(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
