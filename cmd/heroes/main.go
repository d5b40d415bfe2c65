// Command heroes manages hero, villain, and boy collections through the
// herostore EntityStore.
package main

import "github.com/mesh-intelligence/herostore/internal/cli"

func main() {
	cli.Execute()
}
