package protocol

// Sequences hands out the surrogate ids of one run. Competitor and
// official ids live in the identity registry.
type Sequences struct {
	segment   int
	protocol  int
	component int
	element   int
}

func NewSequences() *Sequences {
	return &Sequences{segment: 1, protocol: 1, component: 1, element: 1}
}

func next(counter *int) int {
	id := *counter
	*counter++
	return id
}

func (s *Sequences) NextSegment() int   { return next(&s.segment) }
func (s *Sequences) NextProtocol() int  { return next(&s.protocol) }
func (s *Sequences) NextComponent() int { return next(&s.component) }
func (s *Sequences) NextElement() int   { return next(&s.element) }
