package main

import (
	"fmt"

	"github.com/farpoke/reactphysics3d"
	"github.com/farpoke/reactphysics3d/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupScene construit un petit monde: un sol, une boule qui tombe et
// une caisse posée de travers
func SetupScene() (*reactphysics3d.World, *reactphysics3d.Collider) {
	world := &reactphysics3d.World{
		Workers: 2,
		Events:  reactphysics3d.NewEvents(),
	}

	ground := &reactphysics3d.Collider{
		Id:        "ground",
		Shape:     shape.NewBox(mgl64.Vec3{3, 0.5, 3}),
		Transform: shape.NewTransform(),
	}
	world.AddCollider(ground)

	ball := &reactphysics3d.Collider{
		Id:    "ball",
		Shape: &shape.Sphere{Radius: 0.5},
		Transform: shape.Transform{
			Position: mgl64.Vec3{0, 2.0, 0},
			Rotation: mgl64.QuatIdent(),
		},
	}
	world.AddCollider(ball)

	crate := &reactphysics3d.Collider{
		Id:    "crate",
		Shape: shape.NewBox(mgl64.Vec3{0.5, 0.5, 0.5}),
		Transform: shape.Transform{
			Position: mgl64.Vec3{-1.5, 0.9, 0},
			Rotation: mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 1, 0}),
		},
	}
	world.AddCollider(crate)

	return world, ball
}

func main() {
	fmt.Println("🧪 Démo: détection de contacts avec events")
	fmt.Println("==========================================")

	world, ball := SetupScene()

	// Les events Enter/Exit racontent la vie des paires
	world.Events.Subscribe(reactphysics3d.OVERLAP_ENTER, func(event reactphysics3d.Event) {
		e := event.(reactphysics3d.OverlapEnterEvent)
		fmt.Printf("🔍 AABB overlap: %v et %v se rapprochent\n", e.ColliderA.Id, e.ColliderB.Id)
	})
	world.Events.Subscribe(reactphysics3d.CONTACT_ENTER, func(event reactphysics3d.Event) {
		e := event.(reactphysics3d.ContactEnterEvent)
		fmt.Printf("🎯 Contact établi: %v touche %v (%d points)\n", e.ColliderA.Id, e.ColliderB.Id, len(e.Points))
		for i, point := range e.Points {
			fmt.Printf("   Point %d: normal=%v penetration=%.4f\n", i, point.Normal, point.Penetration)
		}
	})
	world.Events.Subscribe(reactphysics3d.CONTACT_EXIT, func(event reactphysics3d.Event) {
		e := event.(reactphysics3d.ContactExitEvent)
		fmt.Printf("💨 Contact perdu: %v quitte %v\n", e.ColliderA.Id, e.ColliderB.Id)
	})

	// Pas d'intégrateur ici, on déplace la boule à la main
	heights := []float64{2.0, 1.4, 0.95, 0.9, 5.0}

	for frame, y := range heights {
		fmt.Printf("\n--- FRAME %d --- boule à y=%.2f\n", frame+1, y)
		ball.Transform.Position = mgl64.Vec3{0, y, 0}

		results := world.Detect()

		for _, result := range results {
			if result.Err != nil {
				fmt.Printf("⚙️  Paire %v/%v sans test SAT: %v\n", result.Pair.A.Id, result.Pair.B.Id, result.Err)
				continue
			}
			if !result.Colliding {
				fmt.Printf("   %v vs %v: séparés\n", result.Pair.A.Id, result.Pair.B.Id)
				continue
			}

			fmt.Printf("   %v vs %v: %d points de contact\n", result.Pair.A.Id, result.Pair.B.Id, len(result.Manifold.Points))
			for i, point := range result.Manifold.Points {
				fmt.Printf("   Point %d: a=%v b=%v depth=%.4f\n", i, point.LocalA, point.LocalB, point.Penetration)
			}
		}
	}

	fmt.Println("\nDémo terminée!")
}
