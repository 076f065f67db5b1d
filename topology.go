package meshc

// Face holds 3 zero-based vertex indices. Index order defines winding
// and therefore the direction of the face normal.
type Face [3]int

// Edge is an undirected mesh edge between vertices V1 and V2.
type Edge struct {
	V1, V2 int
	// FirstFace is the index of the face that introduced the edge.
	FirstFace int
	// SecondFace is the other face sharing the edge, set during classification.
	SecondFace int
	// Dot is the dot product of the normals of FirstFace and SecondFace.
	Dot float64

	Visible    bool
	Boundary   bool
	Silhouette bool
}

// edgeKey is an unordered vertex pair stored with the lower index first.
type edgeKey [2]int

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Key returns the unordered vertex pair of e with the lower index first.
func (e Edge) Key() [2]int { return makeEdgeKey(e.V1, e.V2) }

// topology is the deduplicated edge list of a face list plus,
// for every edge, the faces sharing it in face-list order.
type topology struct {
	edges []Edge
	index map[edgeKey]int
	// incident[i] lists faces containing edges[i], in face order.
	incident [][]int
}

// BuildEdges returns the unique undirected edges of faces. For each face
// (v1,v2,v3) the candidates (v1,v2), (v2,v3) and (v1,v3) are appended in
// that order unless an edge with the same unordered pair already exists,
// so the result is in first-seen order. Flags are left at their defaults.
func BuildEdges(faces []Face) []Edge {
	return buildTopology(faces).edges
}

func buildTopology(faces []Face) *topology {
	t := &topology{
		// A closed triangle mesh has 3F/2 edges.
		edges: make([]Edge, 0, 3*len(faces)/2),
		index: make(map[edgeKey]int, 3*len(faces)/2),
	}
	t.incident = make([][]int, 0, cap(t.edges))
	for iface, f := range faces {
		t.add(f[0], f[1], iface)
		t.add(f[1], f[2], iface)
		t.add(f[0], f[2], iface)
	}
	return t
}

func (t *topology) add(a, b, face int) {
	key := makeEdgeKey(a, b)
	idx, ok := t.index[key]
	if !ok {
		idx = len(t.edges)
		t.index[key] = idx
		t.edges = append(t.edges, Edge{
			V1:         a,
			V2:         b,
			FirstFace:  face,
			SecondFace: -1,
			Visible:    true,
		})
		t.incident = append(t.incident, make([]int, 0, 2))
	}
	inc := t.incident[idx]
	if len(inc) > 0 && inc[len(inc)-1] == face {
		return // degenerate face repeating a vertex pair.
	}
	t.incident[idx] = append(inc, face)
}
