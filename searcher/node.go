package searcher

import "gomoku/game"

// node is an entry of the search tree arena. Children are arena indices.
type node struct {
	state    *game.Board
	children []int
	move     game.Move // Move that produced state, unset on the root
	hasMove  bool
	utility  float64 // Summed from the perspective of the player to move at the root
	visits   int
}

func newNode(state *game.Board, move game.Move, hasMove bool) node {
	return node{state: state, move: move, hasMove: hasMove}
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

func (n *node) terminal() bool {
	_, ok := n.state.Utility(game.PlayerX)
	return ok
}
