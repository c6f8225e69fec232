package trie

// status is a traversal frame's position within its own node: about to be
// yielded, yielded and now choosing which child to descend into, parked on
// one particular child slot of a fan-out, or done and ready to pop.
type status int

const (
	statusEntering status = iota
	statusAt
	statusAtChild
	statusExiting
)

// crumb is one frame of the explicit traversal stack: a decoded node plus
// where the cursor sits within it. childIdx is only meaningful in
// statusAtChild.
type crumb struct {
	node     Node
	status   status
	childIdx int
}

// increment advances the cursor to its next state for the frame's node
// variant, per the transition table:
//
//	Entering  -> At       (Extension, Branch, NibbledBranch)
//	Entering  -> Exiting  (Empty, Leaf)
//	At        -> AtChild(0) (Branch, NibbledBranch)
//	At        -> Exiting  (Empty, Leaf, Extension)
//	AtChild(i), i<15 -> AtChild(i+1) (Branch, NibbledBranch)
//	AtChild(15)      -> Exiting      (Branch, NibbledBranch)
//	Exiting   -> Exiting  (terminal)
//
// Extension never reaches AtChild: its single child is descended into
// directly from At without advancing the cursor, and it only leaves At for
// Exiting once that descent has returned (see Iterator.Next).
func (c *crumb) increment() {
	switch c.status {
	case statusEntering:
		switch c.node.(type) {
		case *ExtensionNode, *BranchNode, *NibbledBranchNode:
			c.status = statusAt
		default:
			c.status = statusExiting
		}
	case statusAt:
		switch c.node.(type) {
		case *BranchNode, *NibbledBranchNode:
			c.status = statusAtChild
			c.childIdx = 0
		default:
			c.status = statusExiting
		}
	case statusAtChild:
		switch c.node.(type) {
		case *BranchNode, *NibbledBranchNode:
			if c.childIdx < 15 {
				c.childIdx++
			} else {
				c.status = statusExiting
			}
		default:
			c.status = statusExiting
		}
	case statusExiting:
		// terminal
	}
}
