package sat

import "math/rand/v2"

// GenerateSATInstance builds a random k-CNF instance with distinct variables per clause
func GenerateSATInstance(rng *rand.Rand, variables uint64, clauses, k int) SAT {
	satInstance := SAT{
		Variables: variables,
		Clauses:   make([][]int64, clauses),
	}

	width := min(k, int(variables))
	for i := range clauses {
		satInstance.Clauses[i] = make([]int64, 0, width)
		for _, index := range rng.Perm(int(variables))[:width] {
			var sign int64 = 1
			if rng.Float32() < 0.5 {
				sign = -1
			}
			satInstance.Clauses[i] = append(satInstance.Clauses[i], sign*(1+int64(index)))
		}
	}

	return satInstance
}

// Pigeonhole states that pigeons pigeons fit into holes holes, one per hole. Unsatisfiable whenever pigeons > holes
func Pigeonhole(pigeons, holes int) SAT {
	variable := func(pigeon, hole int) int64 {
		return int64(pigeon*holes + hole + 1)
	}

	satInstance := SAT{Variables: uint64(pigeons * holes)}
	for pigeon := range pigeons {
		clause := make([]int64, 0, holes)
		for hole := range holes {
			clause = append(clause, variable(pigeon, hole))
		}
		satInstance.Clauses = append(satInstance.Clauses, clause)
	}
	for hole := range holes {
		for first := range pigeons {
			for second := first + 1; second < pigeons; second++ {
				satInstance.Clauses = append(satInstance.Clauses, []int64{-variable(first, hole), -variable(second, hole)})
			}
		}
	}
	return satInstance
}
