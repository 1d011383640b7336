package cli

import "errors"

// Node is one entry of the command tree.
type Node struct {
	Cmd         Command
	Subcommands map[string]*Node
}

// Tree holds registered commands and their subcommands.
type Tree struct {
	root *Node
}

// NewTree creates an empty command tree.
func NewTree() *Tree {
	return &Tree{root: &Node{Subcommands: make(map[string]*Node)}}
}

// Register inserts a command and its subcommands recursively, under its name
// and every alias.
func (t *Tree) Register(cmd Command) {
	t.insert(t.root, cmd)
}

func (t *Tree) insert(node *Node, cmd Command) {
	names := append([]string{cmd.Name()}, cmd.Aliases()...)
	for _, n := range names {
		sub := &Node{Cmd: cmd, Subcommands: make(map[string]*Node)}
		node.Subcommands[n] = sub
		for _, subcmd := range cmd.Subcommands() {
			t.insert(sub, subcmd)
		}
	}
}

// Resolve walks the tree following args, returning the deepest matching node
// and the remaining arguments.
func (t *Tree) Resolve(args []string) (*Node, []string, error) {
	node := t.root
	for len(args) > 0 {
		next, ok := node.Subcommands[args[0]]
		if !ok {
			break
		}
		node = next
		args = args[1:]
	}
	if node.Cmd == nil {
		return nil, nil, errors.New("unknown command")
	}
	return node, args, nil
}

// Get returns a top-level command by name.
func (t *Tree) Get(name string) (Command, bool) {
	node, ok := t.root.Subcommands[name]
	if !ok {
		return nil, false
	}
	return node.Cmd, true
}

var registry = NewTree()

// RegisterCommand adds a command to the global tree.
func RegisterCommand(cmd Command) {
	registry.Register(cmd)
}

// ResolveCommand finds a command from args using the global tree.
func ResolveCommand(args []string) (*Node, []string, error) {
	return registry.Resolve(args)
}

// GetCommand returns a top-level command from the global tree.
func GetCommand(name string) (Command, bool) {
	return registry.Get(name)
}

// AllCommands returns every top-level command in the global tree, each once.
func AllCommands() []Command {
	cmds := make([]Command, 0)
	seen := make(map[Command]struct{})
	for _, node := range registry.root.Subcommands {
		if node.Cmd == nil {
			continue
		}
		if _, ok := seen[node.Cmd]; ok {
			continue
		}
		cmds = append(cmds, node.Cmd)
		seen[node.Cmd] = struct{}{}
	}
	return cmds
}
