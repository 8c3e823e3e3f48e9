// Command xmp inspects and edits XMP-style metadata from the command line.
package main

import "github.com/mesh-intelligence/xmptree/internal/cli"

func main() {
	cli.Execute()
}
