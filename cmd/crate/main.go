// Command crate manages local audio playlists and plays them.
package main

import "github.com/tessro/crate/internal/cli"

func main() {
	cli.Execute()
}
