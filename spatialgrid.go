package reactphysics3d

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/farpoke/reactphysics3d/shape"
)

// ============================================================================
// Types
// ============================================================================

// CellKey - Coordonnées d'une cellule dans l'espace 3D
type CellKey struct {
	X, Y, Z int
}

// Cell - Conteneur d'indices de colliders dans une cellule
type Cell struct {
	colliderIndices []int
}

// SpatialGrid - Grille spatiale uniforme avec hashing pour la broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// ============================================================================
// Constructeur
// ============================================================================

// NewSpatialGrid - Crée une nouvelle grille spatiale
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].colliderIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - Arrondit à la puissance de 2 supérieure
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - Insère un collider dans toutes les cellules que son AABB occupe
func (sg *SpatialGrid) Insert(colliderIndex int, aabb shape.AABB) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})

				sg.cells[cellIdx].colliderIndices = append(
					sg.cells[cellIdx].colliderIndices,
					colliderIndex,
				)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].colliderIndices = sg.cells[i].colliderIndices[:0]
	}
}

// FindPairs - Paires d'indices dont les AABB se chevauchent. Deux
// colliders partageant une cellule peuvent venir d'une collision de
// hash, le test AABB exact filtre ces faux positifs. Le résultat est
// trié par indices croissants et sans doublon, l'ordre de création des
// paires reste donc celui d'un balayage i<j.
func (sg *SpatialGrid) FindPairs(aabbs []shape.AABB) [][2]int {
	pairs := make([][2]int, 0, len(aabbs)/2)

	// ========== BOUCLE SUR CELLULES ==========
	for c := range sg.cells {
		indices := sg.cells[c].colliderIndices

		for i := 0; i < len(indices); i++ {
			for j := i + 1; j < len(indices); j++ {
				a, b := indices[i], indices[j]
				if a == b {
					// Même collider vu deux fois par collision de hash
					continue
				}
				if b < a {
					a, b = b, a
				}
				if !aabbs[a].Overlaps(aabbs[b]) {
					continue
				}

				pairs = append(pairs, [2]int{a, b})
			}
		}
	}

	// ========== ORDRE DÉTERMINISTE ==========
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	// Une paire trouvée dans plusieurs cellules partagées n'est gardée qu'une fois
	n := 0
	for i, pair := range pairs {
		if i > 0 && pair == pairs[i-1] {
			continue
		}
		pairs[n] = pair
		n++
	}

	return pairs[:n]
}

// worldToCell - Convertit une position monde en coordonnées de cellule
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - Hash une cellule vers un index dans l'array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
