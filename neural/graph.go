package neural

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// CreatesCycle reports whether adding an active edge from -> to would close a
// cycle over the active synapses.
func CreatesCycle(synapses []Synapse, from, to int) bool {
	if from == to {
		return true
	}
	visited := map[int]bool{to: true}
	for {
		added := false
		for _, s := range synapses {
			if !s.Active || !visited[s.From] || visited[s.To] {
				continue
			}
			if s.To == from {
				return true
			}
			visited[s.To] = true
			added = true
		}
		if !added {
			return false
		}
	}
}

// FeedForwardLayers groups the non-input neurons into evaluation layers.
// A neuron joins a layer once it has at least one active incoming synapse and
// every active incoming synapse starts at an input or an earlier layer.
// Neurons never reached this way are left out and are not evaluated.
func FeedForwardLayers(neurons []Neuron, synapses []Synapse) [][]int {
	return feedForwardLayers(neurons, synapses, incomingIndex(len(neurons), synapses))
}

func feedForwardLayers(neurons []Neuron, synapses []Synapse, incoming [][]int) [][]int {
	visited := make([]bool, len(neurons))
	for i, n := range neurons {
		if n.Kind == InputNeuron {
			visited[i] = true
		}
	}

	var layers [][]int
	for {
		var layer []int
		for i := range neurons {
			if visited[i] || len(incoming[i]) == 0 {
				continue
			}
			ready := true
			for _, si := range incoming[i] {
				if !visited[synapses[si].From] {
					ready = false
					break
				}
			}
			if ready {
				layer = append(layer, i)
			}
		}
		if len(layer) == 0 {
			return layers
		}
		for _, i := range layer {
			visited[i] = true
		}
		layers = append(layers, layer)
	}
}

// incomingIndex lists, per neuron, the indices of its active incoming synapses.
func incomingIndex(n int, synapses []Synapse) [][]int {
	incoming := make([][]int, n)
	for i, s := range synapses {
		if !s.Active || s.To < 0 || s.To >= n {
			continue
		}
		incoming[s.To] = append(incoming[s.To], i)
	}
	return incoming
}

// DirectedGraph exports the active topology. Node IDs are neuron indices.
func DirectedGraph(neurons []Neuron, synapses []Synapse) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	for i := range neurons {
		g.AddNode(simple.Node(i))
	}
	for _, s := range synapses {
		if !s.Active || s.From == s.To {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(s.From), simple.Node(s.To)))
	}
	return g
}

// IsAcyclic reports whether the active synapses form a DAG.
func IsAcyclic(neurons []Neuron, synapses []Synapse) bool {
	_, err := topo.Sort(DirectedGraph(neurons, synapses))
	return err == nil
}
