package reactphysics3d

import (
	"fmt"
	"sync"

	"github.com/farpoke/reactphysics3d/contact"
	"github.com/farpoke/reactphysics3d/sat"
	"github.com/farpoke/reactphysics3d/shape"
)

// Collider binds a collision shape to its world transform
type Collider struct {
	Id        interface{} // user data, never read by the engine
	Shape     shape.Shape
	Transform shape.Transform
}

// AABB returns the world-space bounding box of the collider
func (c *Collider) AABB() shape.AABB {
	return c.Shape.ComputeAABB(c.Transform)
}

// Pair represents two colliders whose bounding boxes overlap. It owns
// the last-frame cache of the SAT temporal coherence shortcut: the
// cache is created invalid with the pair and dies with it.
type Pair struct {
	A *Collider
	B *Collider

	lastFrame sat.LastFrameInfo
}

// Collide runs the SAT test matching the two shape types and appends
// any contact points to the manifold. Pairs without a polyhedron
// (sphere vs sphere, sphere vs capsule, capsule vs capsule) have no
// SAT test and are rejected with an error.
func (p *Pair) Collide(manifold *contact.Manifold) (bool, error) {
	switch shapeA := p.A.Shape.(type) {
	case *shape.Sphere:
		if polyhedron, ok := p.B.Shape.(*shape.ConvexPolyhedron); ok {
			return sat.CollideSpherePolyhedron(shapeA, p.A.Transform,
				polyhedron, p.B.Transform, true, &p.lastFrame, manifold), nil
		}

	case *shape.Capsule:
		if polyhedron, ok := p.B.Shape.(*shape.ConvexPolyhedron); ok {
			return sat.CollideCapsulePolyhedron(shapeA, p.A.Transform,
				polyhedron, p.B.Transform, true, &p.lastFrame, manifold), nil
		}

	case *shape.ConvexPolyhedron:
		switch shapeB := p.B.Shape.(type) {
		case *shape.Sphere:
			return sat.CollideSpherePolyhedron(shapeB, p.B.Transform,
				shapeA, p.A.Transform, false, &p.lastFrame, manifold), nil
		case *shape.Capsule:
			return sat.CollideCapsulePolyhedron(shapeB, p.B.Transform,
				shapeA, p.A.Transform, false, &p.lastFrame, manifold), nil
		case *shape.ConvexPolyhedron:
			return sat.CollidePolyhedra(shapeA, p.A.Transform,
				shapeB, p.B.Transform, &p.lastFrame, manifold), nil
		}
	}

	return false, fmt.Errorf("no SAT test for shape pair (%v, %v)", p.A.Shape.Type(), p.B.Shape.Type())
}

// Result is the outcome of one pair evaluation
type Result struct {
	Pair      *Pair
	Colliding bool
	Manifold  contact.Manifold
	Err       error
}

// CollidePairs evaluates all the pairs across workersCount goroutines.
// Each worker writes only its own result slots, and no two workers
// share a pair, so the caches stay single-writer.
func CollidePairs(pairs []*Pair, workersCount int) []Result {
	workersCount = max(DEFAULT_WORKERS, workersCount)

	results := make([]Result, len(pairs))
	indices := make([]int, len(pairs))
	for i := range indices {
		indices[i] = i
	}

	task(workersCount, indices, func(i int) {
		results[i].Pair = pairs[i]
		results[i].Colliding, results[i].Err = pairs[i].Collide(&results[i].Manifold)
	})

	return results
}

func task[T any](workersCount int, data []T, fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}
