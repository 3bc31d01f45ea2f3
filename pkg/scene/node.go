// Package scene anchors a geographic route into AR world space. A RouteNode
// owns one StepNode per waypoint and the SegmentNodes joining consecutive
// steps; every pose/location sample refreshes the whole tree in one call.
//
// Nothing in this package is safe for concurrent use: callers serialize
// UpdateWith, ApplyColor and reads of a given tree.
package scene

import (
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
)

type Kind uint8

const (
	KindScene Kind = iota
	KindRoute
	KindStep
	KindMarker
	KindSegment
)

func (k Kind) String() string {
	switch k {
	case KindScene:
		return "scene"
	case KindRoute:
		return "route"
	case KindStep:
		return "step"
	case KindMarker:
		return "marker"
	case KindSegment:
		return "segment"
	default:
		return "unknown"
	}
}

// Node is anything that can live in the scene tree.
type Node interface {
	AsBase() *Base
}

// Base carries the tree links shared by every node kind. The parent link is a
// back-reference only; a node is owned by the children slice of its parent.
type Base struct {
	kind     Kind
	name     string
	self     Node
	parent   Node
	children []Node
}

func (b *Base) init(self Node, kind Kind, name string) {
	b.self = self
	b.kind = kind
	b.name = name
}

func (b *Base) AsBase() *Base {
	return b
}

func (b *Base) Kind() Kind {
	return b.kind
}

func (b *Base) Name() string {
	return b.name
}

// Parent returns the node this one is attached to, or nil.
func (b *Base) Parent() Node {
	return b.parent
}

func (b *Base) Children() []Node {
	return b.children
}

func (b *Base) NumChildren() int {
	return len(b.children)
}

// AddChild attaches child as the last child of b, detaching it from any
// previous parent first.
func (b *Base) AddChild(child Node) {
	cb := child.AsBase()
	util.AssertPanic(cb != b, "scene: node "+b.name+" cannot be its own child")
	for p := b.parent; p != nil; p = p.AsBase().parent {
		util.AssertPanic(p.AsBase() != cb, "scene: adding "+cb.name+" to "+b.name+" would create a cycle")
	}

	cb.RemoveFromParent()
	cb.parent = b.nodeSelf()
	b.children = append(b.children, child)
}

// RemoveFromParent detaches b from its parent. It is a no-op for a detached node.
func (b *Base) RemoveFromParent() {
	if b.parent == nil {
		return
	}
	pb := b.parent.AsBase()
	for i, c := range pb.children {
		if c.AsBase() == b {
			copy(pb.children[i:], pb.children[i+1:])
			pb.children[len(pb.children)-1] = nil
			pb.children = pb.children[:len(pb.children)-1]
			break
		}
	}
	b.parent = nil
}

// WalkDown calls fn for b and then its descendants in depth-first order,
// skipping the subtree of any node for which fn returns false.
func (b *Base) WalkDown(fn func(n Node) bool) {
	if !fn(b.nodeSelf()) {
		return
	}
	for _, c := range b.children {
		c.AsBase().WalkDown(fn)
	}
}

func (b *Base) nodeSelf() Node {
	if b.self != nil {
		return b.self
	}
	return b
}

// Scene is the generic parent container that routes are attached to.
type Scene struct {
	Base
}

func NewScene() *Scene {
	sc := &Scene{}
	sc.init(sc, KindScene, "scene")
	return sc
}
