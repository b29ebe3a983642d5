package space

// EnemyID identifies a patrol enemy for the lifetime of a session.
type EnemyID uint64

// IDGen issues monotonically increasing enemy ids. A single generator is
// shared by every world a session creates, so ids are never reused even
// across resets. Not safe for concurrent use.
type IDGen struct {
	next EnemyID
}

// NewIDGen returns a generator whose first id is 1. The zero value behaves the same.
func NewIDGen() *IDGen {
	return &IDGen{next: 1}
}

// Next returns a fresh id.
func (g *IDGen) Next() EnemyID {
	if g.next == 0 {
		g.next = 1
	}
	id := g.next
	g.next++
	return id
}

// Issued returns how many ids have been handed out.
func (g *IDGen) Issued() uint64 {
	if g.next == 0 {
		return 0
	}
	return uint64(g.next - 1)
}
