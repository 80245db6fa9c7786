package shared

import (
	"errors"
	"fmt"

	"github.com/breez/feechart/chart"
	"github.com/breez/feechart/config"
	"github.com/breez/feechart/lightning"
)

type Node struct {
	Name       string
	NodeId     []byte
	NodeConfig *config.NodeConfig
	Client     lightning.Client

	// Backend charts are built from. Either the client itself or the
	// forwarding history mirror backed by the client.
	Backend chart.Backend
	Tokens  []string
}

type NodesService interface {
	GetNode(token string) (*Node, error)
	GetNodeByName(name string) (*Node, error)
	GetNodes() []*Node
}
type nodesService struct {
	nodes      []*Node
	nodeLookup map[string]*Node
	nameLookup map[string]*Node
}

func NewNodesService(nodes []*Node) (NodesService, error) {
	nodeLookup := make(map[string]*Node)
	nameLookup := make(map[string]*Node)
	for _, node := range nodes {
		if _, exists := nameLookup[node.Name]; exists {
			return nil, fmt.Errorf("cannot have multiple nodes with the same name %q", node.Name)
		}
		nameLookup[node.Name] = node

		for _, token := range node.Tokens {
			_, exists := nodeLookup[token]
			if exists {
				return nil, fmt.Errorf("cannot have multiple nodes with the same token")
			}

			nodeLookup[token] = node
		}
	}

	return &nodesService{
		nodes:      nodes,
		nodeLookup: nodeLookup,
		nameLookup: nameLookup,
	}, nil
}

var ErrNodeNotFound = errors.New("node not found")

func (s *nodesService) GetNode(token string) (*Node, error) {
	node, ok := s.nodeLookup[token]
	if !ok {
		return nil, ErrNodeNotFound
	}

	return node, nil
}

// GetNodeByName returns the node with the given name. If name is empty and
// exactly one node is configured, that node is returned.
func (s *nodesService) GetNodeByName(name string) (*Node, error) {
	if name == "" && len(s.nodes) == 1 {
		return s.nodes[0], nil
	}

	node, ok := s.nameLookup[name]
	if !ok {
		return nil, ErrNodeNotFound
	}

	return node, nil
}

func (s *nodesService) GetNodes() []*Node {
	return s.nodes
}
