package catalog

import _ "embed"

//go:embed data/easter_eggs.json
var embeddedDataset []byte

const EmbeddedSourceName = "embedded:easter_eggs.json"

func Embedded() (*Catalog, error) {
	return Parse(embeddedDataset, EmbeddedSourceName)
}
