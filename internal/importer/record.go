package importer

// Record is one raw CSV row keyed by the catalog column set. Values stay
// unparsed until the batch processor validates them; the parser forwards
// whatever the file contained.
type Record struct {
	Title       string
	Description string
	Price       string
	Count       string
}
