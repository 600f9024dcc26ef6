package entity

// Category nodo del árbol de categorías del catálogo (categoría → subcategoría → subcategoría hija).
type Category struct {
	ID       int64      `json:"id"`
	ParentID int64      `json:"parent_id,omitempty"` // 0 si es raíz
	Name     string     `json:"name"`
	Children []Category `json:"children,omitempty"`
}

// BuildCategoryTree arma el árbol a partir de la lista plana. Los nodos cuyo padre no existe
// quedan como raíz.
func BuildCategoryTree(flat []Category) []Category {
	byParent := make(map[int64][]Category, len(flat))
	known := make(map[int64]bool, len(flat))
	for _, c := range flat {
		known[c.ID] = true
	}
	var roots []Category
	for _, c := range flat {
		c.Children = nil
		if c.ParentID == 0 || !known[c.ParentID] || c.ParentID == c.ID {
			roots = append(roots, c)
			continue
		}
		byParent[c.ParentID] = append(byParent[c.ParentID], c)
	}
	var attach func(nodes []Category, depth int) []Category
	attach = func(nodes []Category, depth int) []Category {
		for i := range nodes {
			if depth < 3 {
				nodes[i].Children = attach(byParent[nodes[i].ID], depth+1)
			}
		}
		return nodes
	}
	return attach(roots, 1)
}
