package lattice

// FloorDiv divides rounding towards negative infinity. b must be > 0.
func FloorDiv(a, b int) int {
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

// Mod returns a non-negative remainder. b must be > 0.
func Mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// ChunkOf returns the column coordinates of the chunk holding pos, and the
// position local to that chunk.
func ChunkOf(pos Vec3i, size int) (chunk Vec2i, local Vec3i) {
	chunk = Vec2i{FloorDiv(pos.X, size), FloorDiv(pos.Z, size)}
	local = Vec3i{Mod(pos.X, size), pos.Y, Mod(pos.Z, size)}
	return chunk, local
}
