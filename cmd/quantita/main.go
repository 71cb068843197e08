// Command quantita tracks inventory items and their quantities.
package main

import "github.com/mesh-intelligence/quantita/internal/cli"

func main() {
	cli.Execute()
}
