package retrieval

import (
	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/index"
)

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate stages during a query.
type SearchMonitor interface {
	Start(query string, opts Options)
	AfterVectorSearch(candidates []index.Candidate)
	AfterResolve(keys []core.TrialKey)
	AfterFilter(keys []core.TrialKey)
	Finish(results []*Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ Options)             {}
func (n *noopMonitor) AfterVectorSearch(_ []index.Candidate) {}
func (n *noopMonitor) AfterResolve(_ []core.TrialKey)        {}
func (n *noopMonitor) AfterFilter(_ []core.TrialKey)         {}
func (n *noopMonitor) Finish(_ []*Result)                    {}
