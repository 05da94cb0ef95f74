package scene

import "github.com/Faultbox/renderctl/pkg/math"

// Mesh is a triangle mesh: vertices, faces as vertex index triples, and
// optional per-vertex normals. Vertices and normals are index-aligned when
// both are present.
type Mesh struct {
	Vertices []math.Vec3
	Faces    [][3]int
	Normals  []math.Vec3
}

// PointNormals returns per-vertex normals, computing them from face
// geometry when the mesh carries none. The computed normals are
// area-weighted averages of adjacent face normals; degenerate or
// out-of-range faces are skipped. Never fails: an empty mesh yields an
// empty slice.
func (m *Mesh) PointNormals() []math.Vec3 {
	if len(m.Normals) == len(m.Vertices) && len(m.Normals) > 0 {
		return m.Normals
	}

	normals := make([]math.Vec3, len(m.Vertices))
	for _, face := range m.Faces {
		if !m.faceInRange(face) {
			continue
		}
		v0 := m.Vertices[face[0]]
		v1 := m.Vertices[face[1]]
		v2 := m.Vertices[face[2]]
		// Unnormalized cross product weights by face area.
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		for _, idx := range face {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

func (m *Mesh) faceInRange(face [3]int) bool {
	for _, idx := range face {
		if idx < 0 || idx >= len(m.Vertices) {
			return false
		}
	}
	return true
}
