package catalog

// Selector names the desired reference model attributes. An empty slot
// means "pick at random" downstream.
type Selector struct {
	Category    string // e.g. "male", "female"
	Subcategory string // shirt color, e.g. "white", "red"
}

// Catalog is the static set of recognized model attributes plus the
// channel-to-storage-folder routing table. Read-only after startup and
// safe for concurrent use.
type Catalog struct {
	categories     map[string]struct{}
	subcategories  map[string]struct{}
	categoryList   []string
	subcategoryLst []string
	channelFolders map[string]string
}

// New builds a Catalog from the configured attribute values and channel map.
func New(categories, subcategories []string, channelFolders map[string]string) *Catalog {
	c := &Catalog{
		categories:     make(map[string]struct{}, len(categories)),
		subcategories:  make(map[string]struct{}, len(subcategories)),
		categoryList:   append([]string(nil), categories...),
		subcategoryLst: append([]string(nil), subcategories...),
		channelFolders: make(map[string]string, len(channelFolders)),
	}
	for _, v := range categories {
		c.categories[v] = struct{}{}
	}
	for _, v := range subcategories {
		c.subcategories[v] = struct{}{}
	}
	for ch, folder := range channelFolders {
		c.channelFolders[ch] = folder
	}
	return c
}

// Categories returns the configured category values in order.
func (c *Catalog) Categories() []string { return c.categoryList }

// Subcategories returns the configured subcategory values in order.
func (c *Catalog) Subcategories() []string { return c.subcategoryLst }

// FolderFor resolves the destination storage folder for a channel.
// The second return is false for channels outside the allow-list.
func (c *Catalog) FolderFor(channel string) (string, bool) {
	folder, ok := c.channelFolders[channel]
	return folder, ok
}

// KnownChannel reports whether the channel is in the allow-list.
func (c *Catalog) KnownChannel(channel string) bool {
	_, ok := c.channelFolders[channel]
	return ok
}

// Classify sorts free-form attribute tokens into a Selector. A token
// matching a known category fills the category slot, a known subcategory
// fills the subcategory slot, and anything else is discarded. Later
// tokens overwrite earlier ones in the same slot.
func (c *Catalog) Classify(tokens []string) Selector {
	var sel Selector
	for _, t := range tokens {
		if _, ok := c.categories[t]; ok {
			sel.Category = t
		} else if _, ok := c.subcategories[t]; ok {
			sel.Subcategory = t
		}
	}
	return sel
}
