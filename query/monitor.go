package query

import (
	"github.com/poiesic/answerit/core"
)

// QueryMonitor provides hooks to observe the answering process.
// Implement this interface to track intermediate steps during a query.
type QueryMonitor interface {
	Start(question string)
	AfterExpansion(queries []string)
	AfterSearch(query string, passages []*core.Passage)
	AfterMerge(passages []*core.Passage)
	Finish(answer *core.Answer)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterExpansion(_ []string)               {}
func (n *noopMonitor) AfterSearch(_ string, _ []*core.Passage) {}
func (n *noopMonitor) AfterMerge(_ []*core.Passage)            {}
func (n *noopMonitor) Finish(_ *core.Answer)                   {}
