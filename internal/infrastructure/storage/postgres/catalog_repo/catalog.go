package catalog_repo

// Catalog bundles the product and group repositories for consumers that
// need both name resolutions behind one value.
type Catalog struct {
	*ProductRepo
	*GroupRepo
}

// NewCatalog creates the combined catalog view.
func NewCatalog(products *ProductRepo, groups *GroupRepo) *Catalog {
	return &Catalog{ProductRepo: products, GroupRepo: groups}
}
