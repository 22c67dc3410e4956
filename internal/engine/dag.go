package engine

import (
	"maps"
	"slices"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// Node — элемент subflow в графе потока данных.
type Node struct {
	// ID — ID элемента.
	ID string

	// Element — элемент subflow.
	Element *domain.Element

	// InDegree — количество входящих рёбер (производителей).
	InDegree int

	// DependsOn — элементы, данные которых нужны этому элементу.
	DependsOn []*Node

	// Dependents — элементы, которые потребляют данные этого элемента.
	Dependents []*Node
}

// DAG — граф потока данных subflow.
//
// Рёбра строятся по ссылкам элементов:
//   - args функции: аргумент → функция
//   - returns функции: функция → элемент-результат
//   - args элемента return: аргумент → return
//
// Строки (Lines) на граф не влияют: они задают только раскладку.
type DAG struct {
	// Nodes — все узлы графа (elementID → Node).
	Nodes map[string]*Node

	// RootNodes — элементы без производителей, по возрастанию ID.
	RootNodes []*Node

	// Order — топологический порядок элементов.
	Order []*Node
}

// BuildDAG строит граф потока данных subflow.
// Ссылки на несуществующие элементы пропускаются (их находит SubflowProblems).
// Возвращает ErrCyclicDependency, если данные ходят по кругу.
func BuildDAG(sf *domain.Subflow) (*DAG, error) {
	dag := &DAG{Nodes: make(map[string]*Node)}
	if sf == nil {
		return dag, nil
	}

	ids := slices.Sorted(maps.Keys(sf.Elements))

	for _, id := range ids {
		dag.Nodes[id] = &Node{ID: id, Element: sf.Elements[id]}
	}

	for _, id := range ids {
		dag.linkDependencies(dag.Nodes[id])
	}

	dag.findRootNodes(ids)

	order, err := dag.topologicalSort()
	if err != nil {
		return nil, err
	}
	dag.Order = order

	return dag, nil
}

// linkDependencies связывает узел с производителями и потребителями.
func (d *DAG) linkDependencies(node *Node) {
	if node.Element == nil {
		return
	}

	for _, argID := range node.Element.Args {
		if dep, ok := d.Nodes[argID]; ok {
			d.addEdge(dep, node)
		}
	}

	fn, ok := node.Element.Value.(*domain.FunctionValue)
	if !ok || fn == nil {
		return
	}
	for _, argID := range fn.Args {
		if dep, ok := d.Nodes[argID]; ok {
			d.addEdge(dep, node)
		}
	}
	for _, retID := range fn.Returns {
		if dst, ok := d.Nodes[retID]; ok {
			d.addEdge(node, dst)
		}
	}
}

// addEdge добавляет ребро между узлами.
// Повторное ребро игнорируется, чтобы не считать InDegree дважды.
func (d *DAG) addEdge(from, to *Node) {
	for _, dep := range to.DependsOn {
		if dep.ID == from.ID {
			return
		}
	}
	from.Dependents = append(from.Dependents, to)
	to.DependsOn = append(to.DependsOn, from)
	to.InDegree++
}

// findRootNodes находит узлы без входящих рёбер.
func (d *DAG) findRootNodes(ids []string) {
	d.RootNodes = make([]*Node, 0)
	for _, id := range ids {
		if d.Nodes[id].InDegree == 0 {
			d.RootNodes = append(d.RootNodes, d.Nodes[id])
		}
	}
}

// topologicalSort выполняет топологическую сортировку (алгоритм Кана).
// Возвращает ошибку, если обнаружен цикл.
func (d *DAG) topologicalSort() ([]*Node, error) {
	inDegree := make(map[string]int, len(d.Nodes))
	for id, node := range d.Nodes {
		inDegree[id] = node.InDegree
	}

	queue := slices.Clone(d.RootNodes)
	order := make([]*Node, 0, len(d.Nodes))

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, dependent := range node.Dependents {
			inDegree[dependent.ID]--
			if inDegree[dependent.ID] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(d.Nodes) {
		return nil, ErrCyclicDependency
	}

	return order, nil
}

// GetNode возвращает узел по ID.
func (d *DAG) GetNode(id string) *Node {
	return d.Nodes[id]
}

// Size возвращает количество узлов в DAG.
func (d *DAG) Size() int {
	return len(d.Nodes)
}

// OrderIDs возвращает ID элементов в топологическом порядке.
func (d *DAG) OrderIDs() []string {
	ids := make([]string, len(d.Order))
	for i, node := range d.Order {
		ids[i] = node.ID
	}
	return ids
}
