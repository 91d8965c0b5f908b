// Package main es la CLI de operación de simple-api: migraciones, alta de administradores y siembra de usuarios.
package main

import (
	"fmt"
	"os"
)

// Información de versión inyectada al compilar.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
