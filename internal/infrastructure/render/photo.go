package render

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// PhotoFragments builds the photo region markup. URLs come from the presence
// API, so the fragment is run through a policy that only keeps an image with
// an http(s) or relative source.
type PhotoFragments struct {
	policy *bluemonday.Policy
}

func NewPhotoFragments() *PhotoFragments {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowImages()
	return &PhotoFragments{policy: p}
}

// PhotoFragment returns an <img> element for url, or "" when url is not safe.
func (f *PhotoFragments) PhotoFragment(url string) string {
	return f.policy.Sanitize(`<img src="` + html.EscapeString(url) + `">`)
}
