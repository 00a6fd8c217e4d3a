package schema

// Combinations returns every dimension set that can be formed by picking one
// dimension per axis. Use it to build a full grid of dimension sets before
// handing them to an aggregator builder.
// With no axes, or any axis empty, the cross product is empty and nil is
// returned.
func Combinations(axes ...[]Dimension) (out [][]Dimension) {
	if len(axes) == 0 {
		return nil
	}

	// allocate a slice to host all combinations
	num := 1
	for _, axis := range axes {
		num *= len(axis)
	}
	if num == 0 {
		return nil
	}
	out = make([][]Dimension, 0, num)

	// will contain idx of which one to pick for each axis
	indexes := make([]int, len(axes))

mainloop:
	for {
		// update indexes:
		// travel backwards. whenever we encounter an index that "overflowed"
		// reset it back to 0 and bump the previous one, until they are all maxed out
		for i := len(indexes) - 1; i >= 0; i-- {
			if indexes[i] >= len(axes[i]) {
				if i == 0 {
					break mainloop
				}
				indexes[i] = 0
				indexes[i-1]++
			}
		}

		combo := make([]Dimension, len(axes))
		for i, axis := range axes {
			combo[i] = axis[indexes[i]]
		}
		out = append(out, combo)

		// always bump idx of the last one
		indexes[len(indexes)-1]++
	}
	return out
}
