package constant

// GameShortNames lists the releases the catalogue covers.
var GameShortNames = []string{
	"WAW", "BO1", "BO2", "BO3", "BO4", "BOCW", "BO6", "BO7", "IW", "WW2",
}

const (
	DatasetSourceEmbedded   = "embedded"
	DatasetSourceFilePrefix = "file:"
)
