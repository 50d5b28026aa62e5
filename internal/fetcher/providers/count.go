package providers

import "github.com/google/go-github/v81/github"

// lastPageCount derives a total item count from a listing requested with
// per_page=1: the Link header's last page index equals the number of items.
// Results small enough for GitHub to omit the Link header fall back to the
// page length itself.
func lastPageCount(resp *github.Response, pageLen int) int {
	if resp != nil && resp.LastPage > 0 {
		return resp.LastPage
	}
	return pageLen
}
