package mesh

import (
	"errors"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrVoxelBudget is returned when a remesh would allocate more voxels than allowed.
var ErrVoxelBudget = errors.New("remesh: voxel budget exceeded")

// Modifier is a generator step that produces new mesh data from its input.
type Modifier interface {
	Name() string
	Apply(src *Mesh) (*Mesh, error)
}

// Apply runs mods in order and returns the resulting concrete mesh.
// src is not modified.
func Apply(src *Mesh, mods []Modifier) (*Mesh, error) {
	out := src.Copy()
	for _, mod := range mods {
		next, err := mod.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("apply %s: %w", mod.Name(), err)
		}
		out = next
	}
	return out, nil
}

// Remesh rebuilds a mesh as the closed boundary of the voxels it occupies.
// Surface voxels are found by sampling every face; voxels enclosed by the
// surface are filled, so open input still yields a closed output.
// Vertex groups are not carried over.
type Remesh struct {
	VoxelSize float32
	MaxVoxels int // 0 means unlimited
}

func (r Remesh) Name() string { return "Remesh" }

const (
	cellEmpty uint8 = iota
	cellSurface
	cellOutside
)

type lattice struct{ x, y, z int }

// neighbour offsets and the outward-wound corners of the shared face
var voxelFaces = [6]struct {
	dir     lattice
	corners [4]lattice
}{
	{lattice{1, 0, 0}, [4]lattice{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{lattice{-1, 0, 0}, [4]lattice{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{lattice{0, 1, 0}, [4]lattice{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{lattice{0, -1, 0}, [4]lattice{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{lattice{0, 0, 1}, [4]lattice{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{lattice{0, 0, -1}, [4]lattice{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
}

func (r Remesh) Apply(src *Mesh) (*Mesh, error) {
	if r.VoxelSize <= 0 {
		return nil, fmt.Errorf("remesh: voxel size must be positive, got %g", r.VoxelSize)
	}
	out := &Mesh{Name: src.Name}
	if src.FaceCount() == 0 {
		return out, nil
	}

	vs := r.VoxelSize
	min, max := src.Bounds()
	origin := rl.Vector3Subtract(min, rl.Vector3{X: vs, Y: vs, Z: vs})
	cells := func(extent float32) float64 {
		return math.Ceil(float64(extent)/float64(vs)) + 3
	}
	fx, fy, fz := cells(max.X-min.X), cells(max.Y-min.Y), cells(max.Z-min.Z)
	// Counted in float64 so tiny voxel sizes cannot wrap the product
	limit := float64(math.MaxInt32)
	if r.MaxVoxels > 0 && float64(r.MaxVoxels) < limit {
		limit = float64(r.MaxVoxels)
	}
	if count := fx * fy * fz; count > limit {
		return nil, fmt.Errorf("%w: %.0f voxels at size %g (limit %.0f)", ErrVoxelBudget, count, vs, limit)
	}
	nx, ny, nz := int(fx), int(fy), int(fz)
	total := nx * ny * nz

	grid := make([]uint8, total)
	index := func(x, y, z int) int { return (z*ny+y)*nx + x }
	inside := func(x, y, z int) bool {
		return x >= 0 && y >= 0 && z >= 0 && x < nx && y < ny && z < nz
	}
	clampCell := func(v float32, n int) int {
		c := int(math.Floor(float64(v / vs)))
		if c < 0 {
			return 0
		}
		if c >= n {
			return n - 1
		}
		return c
	}
	mark := func(p rl.Vector3) {
		d := rl.Vector3Subtract(p, origin)
		grid[index(clampCell(d.X, nx), clampCell(d.Y, ny), clampCell(d.Z, nz))] = cellSurface
	}

	for _, f := range src.Faces {
		a := src.Vertices[f[0]]
		for i := 1; i+1 < len(f); i++ {
			sampleTriangle(a, src.Vertices[f[i]], src.Vertices[f[i+1]], vs*0.5, mark)
		}
	}

	// flood the outside from a padding corner
	queue := []lattice{{0, 0, 0}}
	grid[0] = cellOutside
	for len(queue) > 0 {
		c := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, vf := range voxelFaces {
			n := lattice{c.x + vf.dir.x, c.y + vf.dir.y, c.z + vf.dir.z}
			if !inside(n.x, n.y, n.z) {
				continue
			}
			i := index(n.x, n.y, n.z)
			if grid[i] != cellEmpty {
				continue
			}
			grid[i] = cellOutside
			queue = append(queue, n)
		}
	}

	corners := make(map[lattice]int)
	corner := func(l lattice) int {
		if i, ok := corners[l]; ok {
			return i
		}
		i := len(out.Vertices)
		corners[l] = i
		out.Vertices = append(out.Vertices, rl.Vector3{
			X: origin.X + float32(l.x)*vs,
			Y: origin.Y + float32(l.y)*vs,
			Z: origin.Z + float32(l.z)*vs,
		})
		return i
	}

	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				if grid[index(x, y, z)] == cellOutside {
					continue
				}
				for _, vf := range voxelFaces {
					n := lattice{x + vf.dir.x, y + vf.dir.y, z + vf.dir.z}
					if inside(n.x, n.y, n.z) && grid[index(n.x, n.y, n.z)] != cellOutside {
						continue
					}
					face := make([]int, 4)
					for k, c := range vf.corners {
						face[k] = corner(lattice{x + c.x, y + c.y, z + c.z})
					}
					out.Faces = append(out.Faces, face)
				}
			}
		}
	}
	out.Weights = make([]map[int]float32, len(out.Vertices))
	return out, nil
}

// sampleTriangle visits points covering triangle abc no further than step apart.
func sampleTriangle(a, b, c rl.Vector3, step float32, visit func(rl.Vector3)) {
	longest := rl.Vector3Distance(a, b)
	if d := rl.Vector3Distance(b, c); d > longest {
		longest = d
	}
	if d := rl.Vector3Distance(a, c); d > longest {
		longest = d
	}
	n := int(math.Ceil(float64(longest/step))) + 1
	ab := rl.Vector3Subtract(b, a)
	ac := rl.Vector3Subtract(c, a)
	for i := 0; i <= n; i++ {
		for j := 0; i+j <= n; j++ {
			u := float32(i) / float32(n)
			v := float32(j) / float32(n)
			visit(rl.Vector3Add(a, rl.Vector3Add(rl.Vector3Scale(ab, u), rl.Vector3Scale(ac, v))))
		}
	}
}
