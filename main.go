// Command topictaxonomy builds a named topic taxonomy from a corpus of
// podcast episode topic records: ingest, embed, cluster, name, emit.
package main

import "github.com/castmap/topictaxonomy/cmd"

func main() {
	cmd.Execute()
}
