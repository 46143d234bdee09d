package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types for the conversion-formula grammar.
const (
	// Leaves
	NodeVariable   NodeType = "variable" // $val
	NodeIndexedVar NodeType = "indexed"  // $val[N]
	NodeNumber     NodeType = "number"   // 123, 3.5, 0xffc0
	NodeString     NodeType = "string"   // "..." with optional interpolation
	NodeUndefined  NodeType = "undef"    // undef keyword

	// Operators
	NodeBinary     NodeType = "binary"     // + - * / . & | << >> **
	NodeComparison NodeType = "comparison" // > >= < <= == !=
	NodeTernary    NodeType = "ternary"    // cond ? a : b
	NodeUnaryMinus NodeType = "negate"     // -x

	// Calls
	NodeFunction NodeType = "function" // int, exp, log
	NodeExtCall  NodeType = "extcall"  // namespaced catalog call
	NodeSprintf  NodeType = "sprintf"  // formatted output

	// String rewriting (produced only by the ingestion path;
	// the native tokenizer has no syntax for these)
	NodeSubstitution NodeType = "subst" // s/pat/repl/flags
	NodeTranslate    NodeType = "tr"    // tr/set/set/flags
)

// Node represents a node in the Abstract Syntax Tree.
//
// A single struct models every variant; the set of meaningful fields
// depends on Type. Children are owned exclusively by their parent: the
// tree has no sharing and no cycles, and nodes are never mutated after
// the parse that produced them returns.
type Node struct {
	Type     NodeType
	Position int

	// Leaf payloads
	NumValue float64 // NodeNumber
	StrValue string  // NodeString text, NodeFunction/NodeExtCall name, NodeSprintf template
	Interp   bool    // NodeString: text contains the $val marker
	Index    int     // NodeIndexedVar subscript

	// Operator payloads
	Op  string // NodeBinary/NodeComparison operator text
	LHS *Node  // binary/comparison left, ternary condition, unary operand
	RHS *Node  // binary/comparison right

	// Ternary branches
	TrueBranch  *Node
	FalseBranch *Node

	// Call payloads
	Arg  *Node   // NodeFunction/NodeExtCall single argument
	Args []*Node // NodeSprintf arguments after the template

	// String-rewrite payloads
	Target      *Node  // NodeSubstitution/NodeTranslate subject
	Pattern     string // NodeSubstitution pattern, NodeTranslate search set
	Replacement string // NodeSubstitution replacement, NodeTranslate replace set
	Flags       string // flag characters, e.g. "gi" or "d"
}

// arenaChunkSize is the number of Node values pre-allocated per arena chunk.
// Conversion formulas are short; nearly all fit in a single chunk.
const arenaChunkSize = 64

// NodeArena is a bump-pointer allocator for Node values.
//
// Instead of allocating each node individually on the heap, the arena
// pre-allocates fixed-size chunks of Node structs and hands out pointers
// into them. The arena must stay alive as long as any returned pointer is
// reachable; attaching it to the [Expression] achieves this.
//
// NodeArena is not thread-safe. Each parser owns its own arena and the
// arena is never shared across goroutines.
type NodeArena struct {
	chunks [][]Node
	pos    int // next free index in the last chunk
}

// NewNodeArena allocates an arena pre-warmed with one initial chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]Node{make([]Node, arenaChunkSize)},
	}
}

// Alloc returns a pointer to a Node inside the arena with Type and
// Position set. All other fields are zero and must be filled by the
// caller. Nodes are never recycled.
func (a *NodeArena) Alloc(nodeType NodeType, position int) *Node {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]Node, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = nodeType
	n.Position = position
	return n
}

// String returns a string representation of the node type.
func (n *Node) String() string {
	return string(n.Type)
}
