// Command membox indexes local documents and answers lexical and semantic
// queries over them.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/membox/internal/adapters/driving/cli"
)

func main() {
	// A .env file is optional; MEMBOX_* variables may come from it.
	_ = godotenv.Load()

	cli.SetWiring(wire)
	os.Exit(cli.Execute())
}
