package ratsnest

// unionFind is a disjoint-set structure over node indices with path
// compression and union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind() *unionFind {
	return &unionFind{}
}

// add registers index i as its own singleton set. Indices must be added
// in order.
func (uf *unionFind) add(i int) {
	for len(uf.parent) <= i {
		uf.parent = append(uf.parent, len(uf.parent))
		uf.rank = append(uf.rank, 0)
	}
}

// find returns the representative of i's set, compressing the path.
func (uf *unionFind) find(i int) int {
	root := i
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for i != root {
		next := uf.parent[i]
		uf.parent[i] = root
		i = next
	}
	return root
}

// union merges the sets containing a and b.
func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
