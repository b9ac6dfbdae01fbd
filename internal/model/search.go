package model

// AllElements returns every element of the forest, children before their
// container, in stable order.
func AllElements(elements []Element) []Element {
	var result []Element
	for _, el := range elements {
		if c, ok := el.(Container); ok {
			result = append(result, AllElements(c.Children())...)
		}
		result = append(result, el)
	}
	return result
}

// ElementByGlobalIndex finds the element carrying the given global index,
// recursing into containers.
func ElementByGlobalIndex(elements []Element, index GlobalIndex) Element {
	for _, el := range elements {
		if el.GlobalIndex() == index {
			return el
		}
		if c, ok := el.(Container); ok {
			if found := ElementByGlobalIndex(c.Children(), index); found != nil {
				return found
			}
		}
	}
	return nil
}

// FindPoolAndGlobalIndex maps an id to the local index of the top-level
// element (pool) containing it and the element's global index. A collapsed
// pool resolves to itself.
func FindPoolAndGlobalIndex(topLevel []Element, id string) (poolIndex int, element GlobalIndex, ok bool) {
	for i, el := range topLevel {
		if el.ID() == id {
			return i, el.GlobalIndex(), true
		}
		if c, isContainer := el.(Container); isContainer {
			if found := findGlobalIndexByID(c.Children(), id); found >= 0 {
				return i, found, true
			}
		}
	}
	return 0, 0, false
}

func findGlobalIndexByID(elements []Element, id string) GlobalIndex {
	for _, el := range elements {
		if el.ID() == id {
			return el.GlobalIndex()
		}
		if c, ok := el.(Container); ok {
			if found := findGlobalIndexByID(c.Children(), id); found >= 0 {
				return found
			}
		}
	}
	return -1
}

// SequenceFlowByGlobalIndex locates a sequence flow and its owning container.
func SequenceFlowByGlobalIndex(elements []Element, index GlobalIndex) (*SequenceFlow, Container) {
	for _, el := range elements {
		c, ok := el.(Container)
		if !ok {
			continue
		}
		flows := c.SequenceFlows()
		for i := range flows {
			if flows[i].GlobalIndex == index {
				return &flows[i], c
			}
		}
		if flow, parent := SequenceFlowByGlobalIndex(c.Children(), index); flow != nil {
			return flow, parent
		}
	}
	return nil, nil
}
