package resource

// ContributorPage is one page of the REST contributors listing, reduced to
// what the estimator needs: how many contributors the page held and whether
// the provider signalled a further page.
type ContributorPage struct {
	// Count is the number of contributors on this page.
	Count int

	// NextPage is the index of the following page, or 0 when this page is the
	// last one.
	NextPage int
}

// ScrapedContributors is the contributor counter parsed out of the rendered
// repository page. GitHub rounds the counter down on very large repositories
// and renders a trailing "+"; Approximate records that.
type ScrapedContributors struct {
	Count       int
	Approximate bool
}
