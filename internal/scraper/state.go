// internal/scraper/state.go
package scraper

// RunState holds the bookkeeping of a single extraction run. It is owned by
// one run and never shared between runs.
type RunState struct {
	seenHandles map[string]struct{}
	usedImages  map[string]struct{}
	seenLinks   map[string]struct{}
}

// NewRunState creates empty run bookkeeping
func NewRunState() *RunState {
	return &RunState{
		seenHandles: make(map[string]struct{}),
		usedImages:  make(map[string]struct{}),
		seenLinks:   make(map[string]struct{}),
	}
}

// ClaimHandle records handle and reports whether it was seen for the first time
func (s *RunState) ClaimHandle(handle string) bool {
	return claim(s.seenHandles, handle)
}

// ClaimLink records link and reports whether it was seen for the first time
func (s *RunState) ClaimLink(link string) bool {
	return claim(s.seenLinks, link)
}

// MarkImageUsed records that url is attached to a channel
func (s *RunState) MarkImageUsed(url string) {
	s.usedImages[url] = struct{}{}
}

// ImageUsed reports whether url is already attached to a channel
func (s *RunState) ImageUsed(url string) bool {
	_, ok := s.usedImages[url]
	return ok
}

// UnusedImages returns catalog entries not yet used, in catalog order
func (s *RunState) UnusedImages(catalog []string) []string {
	unused := make([]string, 0, len(catalog))
	for _, url := range catalog {
		if !s.ImageUsed(url) {
			unused = append(unused, url)
		}
	}
	return unused
}

func claim(set map[string]struct{}, key string) bool {
	if _, ok := set[key]; ok {
		return false
	}
	set[key] = struct{}{}
	return true
}
